package graph

import "github.com/urfave/cli/v2"

var Command = cli.Command{
	Name:  "graph",
	Usage: "Works with adjacency matrices of causal graphs",
	Subcommands: []*cli.Command{
		&graphCheckCmd,
		&graphInterveneCmd,
		&graphDagsCmd,
	},
}
