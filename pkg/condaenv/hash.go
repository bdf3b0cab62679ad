package condaenv

import (
	"crypto/sha256"
	"encoding/hex"
	"io/ioutil"
)

// Hash returns the cache key of a manifest: the hex encoded sha256 of its
// bytes. It matches the hashFiles() expression CI pipelines key the
// environment cache with, so any byte change invalidates the cache.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func HashFile(path string) (string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
