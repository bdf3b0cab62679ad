package commands

import (
	"github.com/urfave/cli/v2"
)

// Run executes a command group the way the binary does, used in tests
func Run(cmd *cli.Command, args []string) error {
	app := &cli.App{
		Name:     "causica",
		Commands: []*cli.Command{cmd},
	}
	return app.Run(args)
}
