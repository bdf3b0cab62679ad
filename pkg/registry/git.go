package registry

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"
	log "github.com/sirupsen/logrus"
)

// GitResolver verifies that the ref of a VCS requirement is reachable in
// its repository
type GitResolver interface {
	RefExists(ctx context.Context, repoURL, ref string) (bool, error)
}

func NewGitResolver() GitResolver {
	return &remoteGitResolver{}
}

// remoteGitResolver lists the advertised refs of the remote, the
// equivalent of git ls-remote. A full commit sha matches when some
// advertised ref points at it; a branch or tag name matches by ref name.
type remoteGitResolver struct{}

func (r *remoteGitResolver) RefExists(ctx context.Context, repoURL, ref string) (bool, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, advertised := range refs {
		if advertised.Hash().String() == ref {
			return true, nil
		}
		name := advertised.Name().Short()
		if name == ref || strings.TrimSuffix(name, "^{}") == ref {
			return true, nil
		}
	}

	log.Debugf("ref %s not advertised by %s", ref, repoURL)
	return false, nil
}
