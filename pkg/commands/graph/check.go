package graph

import (
	"fmt"

	"github.com/project-causica/causica/pkg/dag"
	"github.com/urfave/cli/v2"
)

var graphCheckCmd = cli.Command{
	Name:      "check",
	Usage:     "Checks an adjacency matrix for cycles",
	UsageText: `causica graph check -f adjacency.yaml`,
	Action:    checkCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "adjacency matrix file, rows of 0/1 values",
			Required: true,
		},
	},
}

func checkCmd(c *cli.Context) error {
	m, err := dag.Load(c.String("file"))
	if err != nil {
		return err
	}

	if !m.IsDAG() {
		return fmt.Errorf("%s has cycles, acyclicity penalty %f", c.String("file"), m.Penalty())
	}

	fmt.Printf("%s is acyclic, %d nodes, %.0f edges\n", c.String("file"), m.Dim(), m.EdgeCount())
	return nil
}
