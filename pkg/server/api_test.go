package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/project-causica/causica/cmd/causicad/config"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/project-causica/causica/pkg/registry"
	"github.com/project-causica/causica/pkg/store"
	"github.com/project-causica/causica/pkg/store/model"
	"github.com/stretchr/testify/assert"
)

const manifest = `
name: project-causica
channels:
  - defaults
dependencies:
  - python=3.8.13
  - pip:
      - mlflow==1.26.0
`

const workflowFixture = `
name: CI Build
on:
  push:
    branches: [main]
jobs:
  build-linux:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v2
      - name: Run tests
        run: pytest
`

func condaFixture(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/repodata.json") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
  "packages": {
    "python-3.8.13-h12debd9_0.tar.bz2": {"name": "python", "version": "3.8.13"}
  },
  "packages.conda": {}
}`))
	}))
}

func pypiFixture(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pypi/mlflow/json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"releases": {"1.26.0": [{}]}}`))
	}))
}

func testServer(t *testing.T) (*httptest.Server, *store.Store) {
	condaSrv := condaFixture(t)
	t.Cleanup(condaSrv.Close)
	pypiSrv := pypiFixture(t)
	t.Cleanup(pypiSrv.Close)

	resolver := registry.NewResolver(condaSrv.URL, pypiSrv.URL)
	resolver.SkipGit = true

	s := store.NewTest()
	t.Cleanup(func() {
		s.Close()
	})

	router := SetupRouter(&config.Config{}, s, resolver, condaenv.DefaultPolicy())
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, s
}

func TestHealth(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Get(server.URL + "/health")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSAllowsDashboardOrigin(t *testing.T) {
	server, _ := testServer(t)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	req.Header.Set("Origin", "http://localhost:9000")
	resp, err := http.DefaultClient.Do(req)
	assert.Nil(t, err)
	assert.Equal(t, "http://localhost:9000", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	assert.Nil(t, err)
	assert.Equal(t, "", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLintEnvironmentEndpoint(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Post(server.URL+"/api/lint", "text/yaml", bytes.NewBufferString(manifest))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result LintResult
	err = json.NewDecoder(resp.Body).Decode(&result)
	assert.Nil(t, err)
	assert.True(t, result.Valid)

	resp, err = http.Post(server.URL+"/api/lint", "text/yaml", bytes.NewBufferString("name: broken"))
	assert.Nil(t, err)
	err = json.NewDecoder(resp.Body).Decode(&result)
	assert.Nil(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Findings)
}

func TestLintWorkflowEndpoint(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Post(server.URL+"/api/workflow/lint", "text/yaml", bytes.NewBufferString(workflowFixture))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result LintResult
	err = json.NewDecoder(resp.Body).Decode(&result)
	assert.Nil(t, err)
	assert.True(t, result.Valid)

	resp, err = http.Post(server.URL+"/api/workflow/lint", "text/yaml", bytes.NewBufferString("name: no triggers"))
	assert.Nil(t, err)
	err = json.NewDecoder(resp.Body).Decode(&result)
	assert.Nil(t, err)
	assert.False(t, result.Valid)
}

func TestResolveCachesByManifestHash(t *testing.T) {
	server, s := testServer(t)

	resp, err := http.Post(server.URL+"/api/resolve", "text/yaml", bytes.NewBufferString(manifest))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var first ResolveResult
	err = json.NewDecoder(resp.Body).Decode(&first)
	assert.Nil(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, model.StatusResolved, first.Resolution.Status)
	assert.Equal(t, condaenv.Hash([]byte(manifest)), first.Resolution.Key)

	resp, err = http.Post(server.URL+"/api/resolve", "text/yaml", bytes.NewBufferString(manifest))
	assert.Nil(t, err)

	var second ResolveResult
	err = json.NewDecoder(resp.Body).Decode(&second)
	assert.Nil(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Resolution.Key, second.Resolution.Key)

	resolutions, err := s.Resolutions(10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(resolutions), "a cache hit should not store a second resolution")
}

func TestResolveFailedRunsAreNotCached(t *testing.T) {
	server, _ := testServer(t)

	unresolvable := strings.Replace(manifest, "python=3.8.13", "python=3.8.14", 1)

	resp, err := http.Post(server.URL+"/api/resolve", "text/yaml", bytes.NewBufferString(unresolvable))
	assert.Nil(t, err)

	var first ResolveResult
	err = json.NewDecoder(resp.Body).Decode(&first)
	assert.Nil(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, model.StatusFailed, first.Resolution.Status)

	// a failed run is retried, not served from the store
	resp, err = http.Post(server.URL+"/api/resolve", "text/yaml", bytes.NewBufferString(unresolvable))
	assert.Nil(t, err)

	var second ResolveResult
	err = json.NewDecoder(resp.Body).Decode(&second)
	assert.Nil(t, err)
	assert.False(t, second.CacheHit)
}

func TestGetResolution(t *testing.T) {
	server, _ := testServer(t)

	resp, err := http.Get(server.URL + "/api/resolutions/unknown")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/resolve", "text/yaml", bytes.NewBufferString(manifest))
	assert.Nil(t, err)

	var resolved ResolveResult
	err = json.NewDecoder(resp.Body).Decode(&resolved)
	assert.Nil(t, err)

	resp, err = http.Get(server.URL + "/api/resolutions/" + resolved.Resolution.Key)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored model.Resolution
	err = json.NewDecoder(resp.Body).Decode(&stored)
	assert.Nil(t, err)
	assert.Equal(t, "project-causica", stored.EnvName)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/resolutions/"+resolved.Resolution.Key, nil)
	resp, err = http.DefaultClient.Do(req)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/resolutions/" + resolved.Resolution.Key)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
