package model

// RegistryCondaURLKey stores the conda channel base URL the resolutions
// in the database were produced against.
const RegistryCondaURLKey = "registryCondaUrl"

// KeyValue is a setting stored in the database
type KeyValue struct {
	ID    int64  `json:"-" meddler:"id,pk"`
	Key   string `json:"key" meddler:"key"`
	Value string `json:"value" meddler:"value"`
}
