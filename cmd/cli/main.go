package main

import (
	"fmt"
	"os"

	"github.com/enescakir/emoji"
	"github.com/project-causica/causica/pkg/commands/env"
	"github.com/project-causica/causica/pkg/commands/graph"
	"github.com/project-causica/causica/pkg/commands/workflow"
	"github.com/project-causica/causica/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                 "causica",
		Version:              version.String(),
		Usage:                "keeps conda environments, CI workflows and causal graphs honest",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			&env.Command,
			&workflow.Command,
			&graph.Command,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji.CrossMark, err.Error())
		os.Exit(1)
	}
}
