package graph

import (
	"fmt"

	"github.com/project-causica/causica/pkg/dag"
	"github.com/urfave/cli/v2"
)

var graphDagsCmd = cli.Command{
	Name:      "dags",
	Usage:     "Enumerates the DAGs a partially directed graph admits",
	UsageText: `causica graph dags -f cpdag.yaml --samples 100`,
	Action:    dagsCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "adjacency matrix file, bidirected entries mark undetermined edges",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "samples",
			Usage: "cap on the number of orientations to try",
			Value: 100,
		},
	},
}

func dagsCmd(c *cli.Context) error {
	m, err := dag.Load(c.String("file"))
	if err != nil {
		return err
	}

	mats, err := dag.EnumerateDAGs(m, c.Int("samples"))
	if err != nil {
		return err
	}

	unique, weights, err := dag.Dedupe(mats)
	if err != nil {
		return err
	}

	fmt.Printf("%d DAGs\n", len(unique))
	for i, u := range unique {
		out, err := u.Marshal()
		if err != nil {
			return err
		}
		fmt.Printf("--- weight %.3f\n%s", weights[i], string(out))
	}
	return nil
}
