package condaenv

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// Environment models a conda environment manifest (environment.yml)
type Environment struct {
	Name         string       `yaml:"name" json:"name"`
	Channels     []string     `yaml:"channels,omitempty" json:"channels,omitempty"`
	Dependencies []Dependency `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Dependency is either a conda match spec string, or the pip block
// that closes the dependency list:
//
//	dependencies:
//	  - python=3.8.13
//	  - pip=20.0.2
//	  - pip:
//	    - mlflow==1.26.0
type Dependency struct {
	Spec string
	Pip  []string
}

func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&d.Spec)
	case yaml.MappingNode:
		var block struct {
			Pip []string `yaml:"pip"`
		}
		if err := node.Decode(&block); err != nil {
			return err
		}
		if block.Pip == nil {
			return fmt.Errorf("line %d: only a pip block is allowed as a mapping dependency", node.Line)
		}
		d.Pip = block.Pip
		return nil
	default:
		return fmt.Errorf("line %d: unsupported dependency entry", node.Line)
	}
}

func (d Dependency) MarshalYAML() (interface{}, error) {
	if d.Pip != nil {
		return map[string][]string{"pip": d.Pip}, nil
	}
	return d.Spec, nil
}

func (d Dependency) IsPipBlock() bool {
	return d.Pip != nil
}

func Parse(data []byte) (*Environment, error) {
	var e Environment
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("cannot parse environment manifest: %s", err)
	}
	return &e, nil
}

func (e *Environment) Marshal() ([]byte, error) {
	return yaml.Marshal(e)
}

// CondaSpecs returns the conda dependency strings, skipping the pip block
func (e *Environment) CondaSpecs() []string {
	var specs []string
	for _, d := range e.Dependencies {
		if !d.IsPipBlock() {
			specs = append(specs, d.Spec)
		}
	}
	return specs
}

// PipRequirements returns the requirement strings of the pip block, if any
func (e *Environment) PipRequirements() []string {
	for _, d := range e.Dependencies {
		if d.IsPipBlock() {
			return d.Pip
		}
	}
	return nil
}

// ResolveVars templates the manifest with the given variables.
// Sprig functions are available, missing variables are an error.
func (e *Environment) ResolveVars(vars map[string]string) error {
	manifestString, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("cannot marshal manifest %s", err.Error())
	}

	tpl, err := template.New("").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(string(manifestString))
	if err != nil {
		return err
	}

	var templated bytes.Buffer
	err = tpl.Execute(&templated, vars)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(templated.Bytes(), e)
}
