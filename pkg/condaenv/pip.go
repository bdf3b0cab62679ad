package condaenv

import (
	"fmt"
	"regexp"
	"strings"

	giturl "github.com/whilp/git-urls"
)

// PipRequirement is a parsed entry of the manifest's pip block.
// Either a plain "name==version" pin, or a VCS requirement of the form
// "git+https://github.com/org/repo.git@<ref>#egg=name".
type PipRequirement struct {
	Name    string
	Version string
	VCS     *VCSRef
}

// VCSRef points at a git repository at a specific ref
type VCSRef struct {
	Repo string
	Ref  string
	Egg  string
}

var commitShaRe = regexp.MustCompile(`^[0-9a-f]{40}$`)
var pipNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func ParsePipRequirement(s string) (PipRequirement, error) {
	req := PipRequirement{}
	s = strings.TrimSpace(s)
	if s == "" {
		return req, fmt.Errorf("empty pip requirement")
	}

	if strings.HasPrefix(s, "git+") {
		vcs, err := parseVCSRequirement(s)
		if err != nil {
			return req, err
		}
		req.VCS = vcs
		req.Name = vcs.Egg
		return req, nil
	}

	parts := strings.SplitN(s, "==", 2)
	req.Name = strings.TrimSpace(parts[0])
	if idx := strings.IndexAny(req.Name, "<>~!= ["); idx != -1 {
		return req, fmt.Errorf("unsupported pip requirement %q: only == pins and git+ URLs are allowed", s)
	}
	if !pipNameRe.MatchString(req.Name) {
		return req, fmt.Errorf("invalid pip package name in %q", s)
	}
	if len(parts) == 2 {
		req.Version = strings.TrimSpace(parts[1])
		if req.Version == "" {
			return req, fmt.Errorf("missing version in pip requirement %q", s)
		}
	}
	return req, nil
}

func parseVCSRequirement(s string) (*VCSRef, error) {
	raw := strings.TrimPrefix(s, "git+")

	egg := ""
	if idx := strings.Index(raw, "#"); idx != -1 {
		fragment := raw[idx+1:]
		raw = raw[:idx]
		for _, kv := range strings.Split(fragment, "&") {
			if strings.HasPrefix(kv, "egg=") {
				egg = strings.TrimPrefix(kv, "egg=")
			}
		}
	}

	ref := ""
	// the ref separator is an "@" inside the last path segment, not the
	// "@" of an ssh user
	if idx := strings.LastIndex(raw, "@"); idx > strings.LastIndex(raw, "/") {
		ref = raw[idx+1:]
		raw = raw[:idx]
	}

	u, err := giturl.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot parse git url in pip requirement %q: %s", s, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("git url without host in pip requirement %q", s)
	}

	return &VCSRef{Repo: raw, Ref: ref, Egg: egg}, nil
}

// Pinned tells if the requirement is reproducible: an exact version pin,
// or a git ref that is a full commit sha
func (r PipRequirement) Pinned() bool {
	if r.VCS != nil {
		return r.VCS.CommitPinned()
	}
	return r.Version != ""
}

// CommitPinned tells if the ref is a full 40 hex char commit sha
func (v VCSRef) CommitPinned() bool {
	return commitShaRe.MatchString(v.Ref)
}

// NormalizePipName canonicalizes a pip package name the way indexes do:
// lowercased, runs of "-", "_" and "." collapsed to a single "-"
func NormalizePipName(name string) string {
	re := regexp.MustCompile(`[-_.]+`)
	return strings.ToLower(re.ReplaceAllString(name, "-"))
}
