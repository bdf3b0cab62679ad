package graph

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/project-causica/causica/pkg/dag"
	"github.com/urfave/cli/v2"
)

var graphInterveneCmd = cli.Command{
	Name:      "intervene",
	Usage:     "Cuts the incoming edges of the intervened nodes",
	UsageText: `causica graph intervene -f adjacency.yaml --nodes 0,2 -o intervened.yaml`,
	Action:    interveneCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "adjacency matrix file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "nodes",
			Usage:    "comma separated node indices to intervene on",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file",
		},
	},
}

func interveneCmd(c *cli.Context) error {
	m, err := dag.Load(c.String("file"))
	if err != nil {
		return err
	}

	idxs, err := parseNodes(c.String("nodes"), m.Dim())
	if err != nil {
		return err
	}

	intervened := m.Intervene(idxs, true)

	out, err := intervened.Marshal()
	if err != nil {
		return err
	}

	outputPath := c.String("output")
	if outputPath != "" {
		return ioutil.WriteFile(outputPath, out, 0666)
	}
	fmt.Println(string(out))
	return nil
}

func parseNodes(s string, dim int) ([]int, error) {
	var idxs []int
	for _, part := range strings.Split(s, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid node index %q", part)
		}
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("node index %d is out of range for a graph of %d nodes", idx, dim)
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}
