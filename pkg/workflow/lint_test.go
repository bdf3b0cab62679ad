package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/project-causica/causica/pkg/lint"
	"github.com/stretchr/testify/assert"
)

const ciBuild = `
name: CI Build

on:
  push:
    branches:
      - main
  pull_request:
    branches:
      - main

jobs:
  build-linux:
    runs-on: ubuntu-latest
    strategy:
      max-parallel: 5
    defaults:
      run:
        shell: bash -l {0}
        working-directory: repo
    steps:
      - uses: actions/checkout@v2
        with:
          path: repo
      - uses: conda-incubator/setup-miniconda@v2
        with:
          activate-environment: project-causica
      - name: Cache conda environment
        uses: actions/cache@v2
        id: cache
        with:
          path: /usr/share/miniconda/envs/project-causica
          key: conda-${{ hashFiles('repo/environment.yml') }}
      - name: Update environment
        if: steps.cache.outputs.cache-hit != 'true'
        run: conda env update -n project-causica -f environment.yml
      - name: Run unit tests
        run: python -m pytest ./tests/unit_tests
`

func rules(findings []lint.Finding) []string {
	var ids []string
	for _, f := range findings {
		ids = append(ids, f.Rule)
	}
	return ids
}

func TestParse_triggers(t *testing.T) {
	t.Run("mapping form", func(t *testing.T) {
		wf, err := Parse([]byte(ciBuild))
		assert.NoError(t, err)
		assert.True(t, wf.On.Has("push"))
		assert.True(t, wf.On.Has("pull_request"))
		assert.Equal(t, []string{"main"}, wf.On.Events["push"].Branches)
	})

	t.Run("scalar form", func(t *testing.T) {
		wf, err := Parse([]byte("on: push\njobs: {}\n"))
		assert.NoError(t, err)
		assert.True(t, wf.On.Has("push"))
	})

	t.Run("list form", func(t *testing.T) {
		wf, err := Parse([]byte("on: [push, pull_request]\njobs: {}\n"))
		assert.NoError(t, err)
		assert.True(t, wf.On.Has("push"))
		assert.True(t, wf.On.Has("pull_request"))
	})
}

func TestParse_job(t *testing.T) {
	wf, err := Parse([]byte(ciBuild))
	assert.NoError(t, err)

	job, ok := wf.Jobs["build-linux"]
	assert.True(t, ok)
	assert.Equal(t, "ubuntu-latest", job.RunsOn)
	assert.Equal(t, 5, job.Strategy.MaxParallel)
	assert.Equal(t, 0, job.Strategy.MatrixAxes())
	assert.Equal(t, "repo", job.Defaults.Run.WorkingDirectory)
	assert.Equal(t, 5, len(job.Steps))
	assert.Equal(t, "repo", job.Steps[0].WithString("path"))
}

func TestLint_ciBuild(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "repo"), 0755))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "repo", "environment.yml"), []byte("name: project-causica\n"), 0644))

	findings, err := Lint([]byte(ciBuild), root)
	assert.NoError(t, err)
	assert.False(t, lint.HasErrors(findings), "unexpected findings: %v", findings)

	// the effectively sequential matrix bound is called out as a warning
	assert.Contains(t, rules(findings), "max-parallel-without-matrix")
}

func TestLint_cacheKeyFileMissing(t *testing.T) {
	root := t.TempDir() // no environment.yml checked out

	findings, err := Lint([]byte(ciBuild), root)
	assert.NoError(t, err)
	assert.Contains(t, rules(findings), "cache-key-file-missing")
}

func TestLint_noRootSkipsFileChecks(t *testing.T) {
	findings, err := Lint([]byte(ciBuild), "")
	assert.NoError(t, err)
	assert.NotContains(t, rules(findings), "cache-key-file-missing")
}

func TestLint_brokenWorkflows(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		rule string
	}{
		{
			name: "not yaml",
			yaml: "\tjobs",
			rule: "parse",
		},
		{
			name: "no triggers",
			yaml: "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: make\n",
			rule: "trigger-required",
		},
		{
			name: "no jobs",
			yaml: "on: push\n",
			rule: "jobs-required",
		},
		{
			name: "job without steps",
			yaml: "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n",
			rule: "steps-required",
		},
		{
			name: "unknown needs",
			yaml: "on: push\njobs:\n  test:\n    runs-on: ubuntu-latest\n    needs: build\n    steps:\n      - run: make test\n",
			rule: "unknown-needs",
		},
		{
			name: "cache-hit condition referencing a missing step",
			yaml: `
on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - if: steps.cache.outputs.cache-hit != 'true'
        run: make
`,
			rule: "unknown-step-output",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			findings, err := Lint([]byte(c.yaml), "")
			assert.NoError(t, err)
			assert.Contains(t, rules(findings), c.rule, fmt.Sprintf("findings: %v", findings))
		})
	}
}

func TestHashFilesArgs(t *testing.T) {
	args := HashFilesArgs("conda-${{ hashFiles('repo/environment.yml') }}-${{ hashFiles('requirements.txt') }}")
	assert.Equal(t, []string{"repo/environment.yml", "requirements.txt"}, args)

	assert.Empty(t, HashFilesArgs("conda-${{ runner.os }}"))
}
