package condaenv

import (
	"fmt"

	"github.com/project-causica/causica/pkg/lint"
)

// Lint validates a manifest: shape first against the JSON schema, then the
// semantic rules under the given policy. A nil policy means the defaults.
func Lint(data []byte, policy *Policy) ([]lint.Finding, error) {
	if policy == nil {
		policy = DefaultPolicy()
	}

	findings, err := ValidateSchema(data)
	if err != nil {
		return nil, err
	}
	if lint.HasErrors(findings) {
		// semantic rules assume a well-formed manifest
		return findings, nil
	}

	env, err := Parse(data)
	if err != nil {
		return nil, err
	}

	findings = append(findings, lintChannels(env, policy)...)
	findings = append(findings, lintCondaDeps(env, policy)...)
	findings = append(findings, lintPipDeps(env, policy)...)
	return findings, nil
}

func lintChannels(env *Environment, policy *Policy) []lint.Finding {
	var findings []lint.Finding
	if len(env.Channels) == 0 {
		findings = append(findings, lint.Warnf("channels-required",
			"no channels declared, resolution falls back to the tool defaults"))
	}
	seen := map[string]bool{}
	for _, c := range env.Channels {
		if seen[c] {
			findings = append(findings, lint.Errorf("duplicate-channel", "channel %q is declared twice", c))
		}
		seen[c] = true
		if !policy.channelAllowed(c) {
			findings = append(findings, lint.Errorf("channel-not-allowed",
				"channel %q is not in the allowed set %v", c, policy.AllowedChannels))
		}
	}
	return findings
}

func lintCondaDeps(env *Environment, policy *Policy) []lint.Finding {
	var findings []lint.Finding
	var pythonSpec *Spec
	hasPip := false
	seen := map[string]bool{}

	for _, raw := range env.CondaSpecs() {
		spec, err := ParseSpec(raw)
		if err != nil {
			findings = append(findings, lint.Errorf("invalid-spec", "%s", err))
			continue
		}
		if seen[spec.Name] {
			findings = append(findings, lint.Errorf("duplicate-dependency",
				"package %q is declared twice", spec.Name))
		}
		seen[spec.Name] = true

		switch spec.Name {
		case "python":
			s := spec
			pythonSpec = &s
		case "pip":
			hasPip = true
		}

		if policy.requireExactPins() && !spec.Exact() && !policy.Exempt(spec.Name) {
			findings = append(findings, lint.Errorf("unpinned-dependency",
				"package %q is not pinned to an exact version", spec.Name))
		}
	}

	if pythonSpec == nil {
		findings = append(findings, lint.Errorf("python-required", "no python dependency declared"))
	} else if pythonSpec.Exact() {
		ok, err := policy.minimumPythonSatisfied(pythonSpec.Version)
		if err != nil {
			findings = append(findings, lint.Warnf("python-min-version", "%s", err))
		} else if !ok {
			findings = append(findings, lint.Errorf("python-min-version",
				"python %s is below the policy minimum %s", pythonSpec.Version, policy.MinimumPython))
		}
	}

	if len(env.PipRequirements()) > 0 && !hasPip {
		findings = append(findings, lint.Errorf("pip-without-pip",
			"manifest has a pip block but no pip conda dependency"))
	}

	return findings
}

func lintPipDeps(env *Environment, policy *Policy) []lint.Finding {
	var findings []lint.Finding
	seen := map[string]bool{}

	for _, raw := range env.PipRequirements() {
		req, err := ParsePipRequirement(raw)
		if err != nil {
			findings = append(findings, lint.Errorf("invalid-pip-requirement", "%s", err))
			continue
		}

		name := NormalizePipName(req.Name)
		if name != "" {
			if seen[name] {
				findings = append(findings, lint.Errorf("duplicate-dependency",
					"pip package %q is declared twice", req.Name))
			}
			seen[name] = true
		}

		if req.VCS != nil {
			if req.VCS.Egg == "" {
				findings = append(findings, lint.Warnf("vcs-egg-missing",
					"git requirement %q has no #egg= fragment", raw))
			}
			if !req.VCS.CommitPinned() && !policy.Exempt(name) {
				findings = append(findings, lint.Errorf("vcs-unpinned",
					"git requirement %q is not pinned to a full commit sha", describePipDep(req, raw)))
			}
			continue
		}

		if policy.requireExactPins() && !req.Pinned() && !policy.Exempt(name) {
			findings = append(findings, lint.Errorf("unpinned-dependency",
				"pip package %q is not pinned to an exact version", req.Name))
		}
	}
	return findings
}

func describePipDep(req PipRequirement, raw string) string {
	if req.Name != "" {
		return req.Name
	}
	return fmt.Sprintf("%.60s", raw)
}
