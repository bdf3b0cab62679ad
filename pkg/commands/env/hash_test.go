package env

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/project-causica/causica/pkg/commands"
	"github.com/stretchr/testify/assert"
)

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()

	envPath := filepath.Join(dir, "environment.yml")
	ioutil.WriteFile(envPath, []byte(validEnv), 0644)

	args := strings.Split("causica env hash", " ")
	args = append(args, "-f", envPath)

	err := commands.Run(&Command, args)
	assert.Nil(t, err)

	args = strings.Split("causica env hash", " ")
	args = append(args, "-f", filepath.Join(dir, "no-such-file.yml"))

	err = commands.Run(&Command, args)
	assert.Error(t, err)
}
