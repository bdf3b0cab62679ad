package env

import (
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/fatih/color"
	"github.com/project-causica/causica/pkg/registry"
	"github.com/urfave/cli/v2"
)

var envResolveCmd = cli.Command{
	Name:      "resolve",
	Usage:     "Verifies every pin of an environment manifest against its source",
	UsageText: `causica env resolve -f environment.yml`,
	Action:    resolveCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "environment manifest file to resolve",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "conda-url",
			Usage: "base url of an anaconda.org compatible channel host",
		},
		&cli.StringFlag{
			Name:  "pypi-url",
			Usage: "base url of the python package index",
		},
		&cli.BoolFlag{
			Name:  "skip-git",
			Usage: "leave VCS requirements unverified",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "overall timeout of the registry lookups",
			Value: 5 * time.Minute,
		},
	},
}

func resolveCmd(c *cli.Context) error {
	manifest, err := ioutil.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("cannot read file %s", err)
	}

	resolver := registry.NewResolver(c.String("conda-url"), c.String("pypi-url"))
	resolver.SkipGit = c.Bool("skip-git")

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	result, err := resolver.Resolve(ctx, manifest)
	if err != nil {
		return err
	}

	printResult(result)

	if !result.Resolved() {
		return fmt.Errorf("%s has unresolvable dependencies", c.String("file"))
	}

	fmt.Printf("%s resolves, cache key %s\n", result.EnvName, result.Key)
	return nil
}

func printResult(result *registry.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, res := range result.Resolutions {
		if res.Resolved {
			fmt.Printf("%s %s %s\n", green("ok"), res.Spec, gray(res.Detail))
		} else {
			fmt.Printf("%s %s %s\n", red("FAIL"), res.Spec, res.Detail)
		}
	}
}
