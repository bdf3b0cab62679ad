package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Workflow models a CI workflow definition the way hosted runners consume it
type Workflow struct {
	Name string            `yaml:"name"`
	On   Triggers          `yaml:"on"`
	Env  map[string]string `yaml:"env,omitempty"`
	Jobs map[string]Job    `yaml:"jobs"`
}

// Triggers accepts the three YAML forms of the "on" field:
// a single event string, a list of events, or a mapping with per-event rules
type Triggers struct {
	Events map[string]TriggerRule
}

type TriggerRule struct {
	Branches []string `yaml:"branches,omitempty"`
	Paths    []string `yaml:"paths,omitempty"`
}

func (t *Triggers) UnmarshalYAML(node *yaml.Node) error {
	t.Events = map[string]TriggerRule{}

	switch node.Kind {
	case yaml.ScalarNode:
		var event string
		if err := node.Decode(&event); err != nil {
			return err
		}
		t.Events[event] = TriggerRule{}
		return nil
	case yaml.SequenceNode:
		var events []string
		if err := node.Decode(&events); err != nil {
			return err
		}
		for _, e := range events {
			t.Events[e] = TriggerRule{}
		}
		return nil
	case yaml.MappingNode:
		var rules map[string]*TriggerRule
		if err := node.Decode(&rules); err != nil {
			return err
		}
		for event, rule := range rules {
			if rule == nil {
				t.Events[event] = TriggerRule{}
			} else {
				t.Events[event] = *rule
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported form of the on field", node.Line)
	}
}

func (t Triggers) Has(event string) bool {
	_, ok := t.Events[event]
	return ok
}

type Job struct {
	Name     string     `yaml:"name,omitempty"`
	RunsOn   string     `yaml:"runs-on"`
	Needs    StringList `yaml:"needs,omitempty"`
	Strategy *Strategy  `yaml:"strategy,omitempty"`
	Defaults *Defaults  `yaml:"defaults,omitempty"`
	Steps    []Step     `yaml:"steps"`
}

type Strategy struct {
	MaxParallel int                    `yaml:"max-parallel,omitempty"`
	Matrix      map[string]interface{} `yaml:"matrix,omitempty"`
}

// MatrixAxes counts the real matrix dimensions, the include/exclude
// modifiers are not axes
func (s *Strategy) MatrixAxes() int {
	if s == nil {
		return 0
	}
	axes := 0
	for key := range s.Matrix {
		if key != "include" && key != "exclude" {
			axes++
		}
	}
	return axes
}

type Defaults struct {
	Run RunDefaults `yaml:"run"`
}

type RunDefaults struct {
	Shell            string `yaml:"shell,omitempty"`
	WorkingDirectory string `yaml:"working-directory,omitempty"`
}

type Step struct {
	ID   string                 `yaml:"id,omitempty"`
	Name string                 `yaml:"name,omitempty"`
	Uses string                 `yaml:"uses,omitempty"`
	With map[string]interface{} `yaml:"with,omitempty"`
	Run  string                 `yaml:"run,omitempty"`
	If   string                 `yaml:"if,omitempty"`
	Env  map[string]string      `yaml:"env,omitempty"`
}

// WithString returns a with parameter as its string form, "" if absent
func (s Step) WithString(key string) string {
	v, ok := s.With[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// StringList accepts both a single scalar and a sequence
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = []string{s}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = s
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

func Parse(data []byte) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("cannot parse workflow: %s", err)
	}
	return &w, nil
}
