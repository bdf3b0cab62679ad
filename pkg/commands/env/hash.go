package env

import (
	"fmt"

	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/urfave/cli/v2"
)

var envHashCmd = cli.Command{
	Name:      "hash",
	Usage:     "Prints the cache key of an environment manifest",
	UsageText: `causica env hash -f environment.yml`,
	Action:    hashCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "environment manifest file to hash",
			Required: true,
		},
	},
}

func hashCmd(c *cli.Context) error {
	hash, err := condaenv.HashFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("cannot read file %s", err)
	}

	fmt.Println(hash)
	return nil
}
