package env

import "github.com/urfave/cli/v2"

var Command = cli.Command{
	Name:  "env",
	Usage: "Works with conda environment manifests",
	Subcommands: []*cli.Command{
		&envLintCmd,
		&envHashCmd,
		&envTemplateCmd,
		&envResolveCmd,
	},
}
