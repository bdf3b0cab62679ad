package condaenv

import (
	"fmt"
	"regexp"
	"strings"
)

// Spec is a parsed conda match spec, e.g. "python=3.8.13=h12debd9_0",
// "numpy>=1.22" or "pytorch::torchvision=0.12.1"
type Spec struct {
	Channel string
	Name    string
	Op      string
	Version string
	Build   string
}

var specNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// operators ordered so that two-char ones win over their one-char prefix
var specOps = []string{"==", ">=", "<=", "!=", "=", ">", "<"}

func ParseSpec(s string) (Spec, error) {
	spec := Spec{}
	s = strings.TrimSpace(s)
	if s == "" {
		return spec, fmt.Errorf("empty dependency spec")
	}

	if idx := strings.Index(s, "::"); idx != -1 {
		spec.Channel = s[:idx]
		s = s[idx+2:]
	}

	rest := s
	for i, c := range s {
		if strings.ContainsRune("=<>!", c) {
			spec.Name = s[:i]
			rest = s[i:]
			break
		}
	}
	if spec.Name == "" {
		// no operator, name-only spec
		spec.Name = s
		rest = ""
	}
	if !specNameRe.MatchString(spec.Name) {
		return spec, fmt.Errorf("invalid package name in spec %q", s)
	}

	if rest == "" {
		return spec, nil
	}

	for _, op := range specOps {
		if strings.HasPrefix(rest, op) {
			spec.Op = op
			rest = rest[len(op):]
			break
		}
	}
	if spec.Op == "" {
		return spec, fmt.Errorf("invalid version constraint in spec %q", s)
	}

	// "name=version=build" carries the build string after a second "="
	if spec.Op == "=" || spec.Op == "==" {
		if idx := strings.Index(rest, "="); idx != -1 {
			spec.Build = rest[idx+1:]
			rest = rest[:idx]
		}
	}
	spec.Version = rest
	if spec.Version == "" {
		return spec, fmt.Errorf("missing version in spec %q", s)
	}
	return spec, nil
}

// Exact tells if the spec pins a single version, wildcards excluded
func (s Spec) Exact() bool {
	if s.Op != "=" && s.Op != "==" {
		return false
	}
	return !strings.Contains(s.Version, "*")
}

func (s Spec) String() string {
	var b strings.Builder
	if s.Channel != "" {
		b.WriteString(s.Channel)
		b.WriteString("::")
	}
	b.WriteString(s.Name)
	if s.Op != "" {
		b.WriteString(s.Op)
		b.WriteString(s.Version)
		if s.Build != "" {
			b.WriteString("=")
			b.WriteString(s.Build)
		}
	}
	return b.String()
}

// Matches reports whether a concrete package version satisfies the spec
func (s Spec) Matches(version string) bool {
	switch s.Op {
	case "":
		return true
	case "=", "==":
		if strings.HasSuffix(s.Version, "*") {
			prefix := strings.TrimSuffix(s.Version, "*")
			prefix = strings.TrimSuffix(prefix, ".")
			return version == prefix || strings.HasPrefix(version, prefix+".")
		}
		return version == s.Version
	case "!=":
		return version != s.Version
	case ">=":
		return compareVersions(version, s.Version) >= 0
	case "<=":
		return compareVersions(version, s.Version) <= 0
	case ">":
		return compareVersions(version, s.Version) > 0
	case "<":
		return compareVersions(version, s.Version) < 0
	}
	return false
}

// compareVersions orders dotted version strings segment by segment,
// numerically where both segments are numeric. It is not a full conda
// version ordering but covers the pin styles appearing in manifests.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		na, aNum := atoi(sa)
		nb, bNum := atoi(sb)
		if aNum && bNum {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if sa != sb {
			if sa < sb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
