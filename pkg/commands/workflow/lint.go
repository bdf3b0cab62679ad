package workflow

import (
	"fmt"
	"io/ioutil"

	"github.com/fatih/color"
	"github.com/project-causica/causica/pkg/lint"
	"github.com/project-causica/causica/pkg/workflow"
	"github.com/urfave/cli/v2"
)

var workflowLintCmd = cli.Command{
	Name:      "lint",
	Usage:     "Lints a CI workflow file",
	UsageText: `causica workflow lint -f .github/workflows/ci-build.yml --root .`,
	Action:    lintCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "workflow file to lint",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "repository root, enables the hashed file existence checks",
		},
	},
}

func lintCmd(c *cli.Context) error {
	data, err := ioutil.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("cannot read file %s", err)
	}

	findings, err := workflow.Lint(data, c.String("root"))
	if err != nil {
		return err
	}

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

	if lint.HasErrors(findings) {
		return fmt.Errorf("%s has errors", c.String("file"))
	}
	return nil
}
