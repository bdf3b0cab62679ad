package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/project-causica/causica/pkg/lint"
	log "github.com/sirupsen/logrus"
)

// Resolver confirms that every pin of a manifest exists at its source
type Resolver struct {
	Conda *CondaClient
	PyPI  *PyPIClient
	Git   GitResolver

	// SkipGit leaves VCS requirements unverified, for offline runs
	SkipGit bool
}

func NewResolver(condaURL, pypiURL string) *Resolver {
	return &Resolver{
		Conda: NewCondaClient(condaURL, nil),
		PyPI:  NewPyPIClient(pypiURL),
		Git:   NewGitResolver(),
	}
}

type Result struct {
	ID          string                 `json:"id"`
	Key         string                 `json:"key"`
	EnvName     string                 `json:"envName"`
	Resolutions []DependencyResolution `json:"resolutions"`
	Findings    []lint.Finding         `json:"findings,omitempty"`
	ResolvedAt  int64                  `json:"resolvedAt"`
}

type DependencyResolution struct {
	Spec     string `json:"spec"`
	Kind     string `json:"kind"`
	Channel  string `json:"channel,omitempty"`
	Resolved bool   `json:"resolved"`
	Detail   string `json:"detail,omitempty"`
}

const (
	KindConda = "conda"
	KindPip   = "pip"
	KindVCS   = "vcs"
)

// Resolve checks every dependency of the manifest: conda pins against the
// declared channels in priority order, plain pip pins against the package
// index, VCS requirements against their git remote.
func (r *Resolver) Resolve(ctx context.Context, manifest []byte) (*Result, error) {
	env, err := condaenv.Parse(manifest)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:         uuid.New().String(),
		Key:        condaenv.Hash(manifest),
		EnvName:    env.Name,
		ResolvedAt: time.Now().Unix(),
	}

	channels := env.Channels
	if len(channels) == 0 {
		channels = []string{"defaults"}
	}

	for _, raw := range env.CondaSpecs() {
		result.Resolutions = append(result.Resolutions, r.resolveConda(ctx, raw, channels))
	}
	for _, raw := range env.PipRequirements() {
		result.Resolutions = append(result.Resolutions, r.resolvePip(ctx, raw))
	}

	for _, res := range result.Resolutions {
		if !res.Resolved {
			result.Findings = append(result.Findings, lint.Errorf("unresolved-dependency",
				"%s dependency %q: %s", res.Kind, res.Spec, res.Detail))
		}
	}
	return result, nil
}

func (r *Resolver) resolveConda(ctx context.Context, raw string, channels []string) DependencyResolution {
	res := DependencyResolution{Spec: raw, Kind: KindConda}

	spec, err := condaenv.ParseSpec(raw)
	if err != nil {
		res.Detail = err.Error()
		return res
	}

	// a channel pinned in the spec overrides the manifest channel order
	if spec.Channel != "" {
		channels = []string{spec.Channel}
	}

	var tried []string
	for _, channel := range channels {
		tried = append(tried, channel)
		versions, err := r.Conda.Versions(ctx, channel, spec.Name)
		if err != nil {
			log.Warnf("channel %s lookup failed for %s: %s", channel, spec.Name, err)
			res.Detail = fmt.Sprintf("channel %s: %s", channel, err)
			continue
		}
		for _, v := range versions {
			if spec.Matches(v) {
				res.Resolved = true
				res.Channel = channel
				res.Detail = fmt.Sprintf("version %s", v)
				return res
			}
		}
	}

	if res.Detail == "" {
		res.Detail = fmt.Sprintf("no matching version in channels %s", strings.Join(tried, ", "))
	}
	return res
}

func (r *Resolver) resolvePip(ctx context.Context, raw string) DependencyResolution {
	req, err := condaenv.ParsePipRequirement(raw)
	if err != nil {
		return DependencyResolution{Spec: raw, Kind: KindPip, Detail: err.Error()}
	}

	if req.VCS != nil {
		res := DependencyResolution{Spec: raw, Kind: KindVCS}
		if r.SkipGit {
			res.Resolved = true
			res.Detail = "git verification skipped"
			return res
		}
		if req.VCS.Ref == "" {
			res.Detail = "no ref to verify"
			return res
		}
		ok, err := r.Git.RefExists(ctx, req.VCS.Repo, req.VCS.Ref)
		if err != nil {
			res.Detail = fmt.Sprintf("cannot list refs of %s: %s", req.VCS.Repo, err)
			return res
		}
		res.Resolved = ok
		if !ok {
			res.Detail = fmt.Sprintf("ref %s not found in %s", req.VCS.Ref, req.VCS.Repo)
		}
		return res
	}

	res := DependencyResolution{Spec: raw, Kind: KindPip}
	if req.Version == "" {
		res.Detail = "unpinned requirement cannot be verified"
		return res
	}
	ok, err := r.PyPI.HasRelease(ctx, req.Name, req.Version)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	res.Resolved = ok
	if !ok {
		res.Detail = fmt.Sprintf("release %s not found on the index", req.Version)
	}
	return res
}

// Resolved tells if every dependency of the result resolved
func (r *Result) Resolved() bool {
	for _, res := range r.Resolutions {
		if !res.Resolved {
			return false
		}
	}
	return true
}
