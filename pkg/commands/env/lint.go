package env

import (
	"fmt"
	"io/ioutil"

	"github.com/fatih/color"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/project-causica/causica/pkg/lint"
	"github.com/urfave/cli/v2"
)

var envLintCmd = cli.Command{
	Name:      "lint",
	Usage:     "Lints a conda environment manifest",
	UsageText: `causica env lint -f environment.yml`,
	Action:    lintCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "environment manifest file to lint",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "policy",
			Aliases: []string{"p"},
			Usage:   "policy file with the allowed channels and pin rules",
		},
	},
}

func lintCmd(c *cli.Context) error {
	manifest, err := ioutil.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("cannot read file %s", err)
	}

	policy := condaenv.DefaultPolicy()
	if c.String("policy") != "" {
		policy, err = condaenv.LoadPolicy(c.String("policy"))
		if err != nil {
			return fmt.Errorf("cannot load policy %s", err)
		}
	}

	findings, err := condaenv.Lint(manifest, policy)
	if err != nil {
		return err
	}

	printFindings(findings)

	if lint.HasErrors(findings) {
		return fmt.Errorf("%s has errors", c.String("file"))
	}
	return nil
}

func printFindings(findings []lint.Finding) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, f := range findings {
		switch f.Severity {
		case lint.SeverityError:
			fmt.Printf("%s [%s] %s\n", red("ERROR"), f.Rule, f.Message)
		default:
			fmt.Printf("%s [%s] %s\n", yellow("WARN"), f.Rule, f.Message)
		}
	}
}
