package model

import "github.com/project-causica/causica/pkg/registry"

const (
	StatusResolved = "resolved"
	StatusFailed   = "failed"
)

// Resolution is a stored resolve run, keyed by the manifest content hash.
// A later request with the same key is a cache hit and skips the registry.
type Resolution struct {
	ID      int64            `json:"-" meddler:"id,pk"`
	Key     string           `json:"key" meddler:"key"`
	EnvName string           `json:"envName" meddler:"env_name"`
	Status  string           `json:"status" meddler:"status"`
	Created int64            `json:"created" meddler:"created"`
	Result  *registry.Result `json:"result" meddler:"result,json"`
}
