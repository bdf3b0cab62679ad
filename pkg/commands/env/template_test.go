package env

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/project-causica/causica/pkg/commands"
	"github.com/stretchr/testify/assert"
)

const templatedEnv = `
name: project-causica
channels:
  - defaults
dependencies:
  - python={{ .PYTHON_VERSION }}
`

func TestTemplateCommand(t *testing.T) {
	dir := t.TempDir()

	envPath := filepath.Join(dir, "environment.tpl.yml")
	ioutil.WriteFile(envPath, []byte(templatedEnv), 0644)
	varsPath := filepath.Join(dir, "ci.env")
	ioutil.WriteFile(varsPath, []byte("PYTHON_VERSION=3.8.13\n"), 0644)
	outPath := filepath.Join(dir, "environment.yml")

	args := strings.Split("causica env template", " ")
	args = append(args, "-f", envPath, "--vars", varsPath, "-o", outPath)

	err := commands.Run(&Command, args)
	assert.Nil(t, err)

	templated, err := ioutil.ReadFile(outPath)
	assert.Nil(t, err)
	assert.Contains(t, string(templated), "python=3.8.13")
}

func TestTemplateCommandVarsFromEnvironment(t *testing.T) {
	dir := t.TempDir()

	envPath := filepath.Join(dir, "environment.tpl.yml")
	ioutil.WriteFile(envPath, []byte(templatedEnv), 0644)
	outPath := filepath.Join(dir, "environment.yml")

	os.Setenv("PYTHON_VERSION", "3.9.0")
	defer os.Unsetenv("PYTHON_VERSION")

	args := strings.Split("causica env template", " ")
	args = append(args, "-f", envPath, "-o", outPath)

	err := commands.Run(&Command, args)
	assert.Nil(t, err)

	templated, err := ioutil.ReadFile(outPath)
	assert.Nil(t, err)
	assert.Contains(t, string(templated), "python=3.9.0")
}

func TestTemplateCommandMissingVar(t *testing.T) {
	dir := t.TempDir()

	envPath := filepath.Join(dir, "environment.tpl.yml")
	ioutil.WriteFile(envPath, []byte(templatedEnv), 0644)

	os.Unsetenv("PYTHON_VERSION")

	args := strings.Split("causica env template", " ")
	args = append(args, "-f", envPath)

	err := commands.Run(&Command, args)
	assert.Error(t, err)
}
