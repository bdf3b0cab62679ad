package workflow

import "github.com/urfave/cli/v2"

var Command = cli.Command{
	Name:  "workflow",
	Usage: "Works with CI workflow files",
	Subcommands: []*cli.Command{
		&workflowLintCmd,
	},
}
