package condaenv

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Policy controls the semantic lint rules
type Policy struct {
	// AllowedChannels restricts the channel list, empty allows any
	AllowedChannels []string `yaml:"allowedChannels,omitempty"`
	// RequireExactPins demands every conda dependency pins one version
	RequireExactPins *bool `yaml:"requireExactPins,omitempty"`
	// ExemptPackages are glob patterns excluded from the pin rules
	ExemptPackages []string `yaml:"exemptPackages,omitempty"`
	// MinimumPython is the lowest accepted python pin, e.g. "3.8"
	MinimumPython string `yaml:"minimumPython,omitempty"`

	exemptGlobs []glob.Glob
}

func DefaultPolicy() *Policy {
	requirePins := true
	p := &Policy{RequireExactPins: &requirePins}
	return p
}

func LoadPolicy(path string) (*Policy, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read policy file: %s", err)
	}

	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("cannot parse policy file: %s", err)
	}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) compile() error {
	p.exemptGlobs = p.exemptGlobs[:0]
	for _, pattern := range p.ExemptPackages {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid exempt package pattern %q: %s", pattern, err)
		}
		p.exemptGlobs = append(p.exemptGlobs, g)
	}
	return nil
}

func (p *Policy) requireExactPins() bool {
	return p.RequireExactPins == nil || *p.RequireExactPins
}

// Exempt tells if a package name matches any of the exempt patterns
func (p *Policy) Exempt(name string) bool {
	if p.exemptGlobs == nil && len(p.ExemptPackages) > 0 {
		// policy built in code rather than loaded from file
		if err := p.compile(); err != nil {
			return false
		}
	}
	for _, g := range p.exemptGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (p *Policy) channelAllowed(channel string) bool {
	if len(p.AllowedChannels) == 0 {
		return true
	}
	for _, c := range p.AllowedChannels {
		if c == channel {
			return true
		}
	}
	return false
}

// minimumPythonSatisfied compares a python version pin against the policy
// minimum. Versions are padded to three segments so "3.8" parses as semver.
func (p *Policy) minimumPythonSatisfied(version string) (bool, error) {
	if p.MinimumPython == "" {
		return true, nil
	}
	minimum, err := semver.Parse(padVersion(p.MinimumPython))
	if err != nil {
		return false, fmt.Errorf("invalid minimumPython in policy: %s", err)
	}
	pinned, err := semver.Parse(padVersion(version))
	if err != nil {
		return false, fmt.Errorf("cannot compare python pin %q: %s", version, err)
	}
	return pinned.GTE(minimum), nil
}

func padVersion(v string) string {
	parts := strings.Split(v, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ".")
}
