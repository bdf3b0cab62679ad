package env

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/urfave/cli/v2"
)

var envTemplateCmd = cli.Command{
	Name:  "template",
	Usage: "Templates an environment manifest",
	UsageText: `causica env template \
    -f environment.tpl.yml \
    -o environment.yml \
    --vars ci.env`,
	Action: templateCmd,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Required: true,
			Usage:    "environment manifest file to template",
		},
		&cli.StringFlag{
			Name:    "vars",
			Aliases: []string{"v"},
			Usage:   "an .env file for template variables",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file",
		},
	},
}

func templateCmd(c *cli.Context) error {
	varsPath := c.String("vars")
	vars := map[string]string{}
	if varsPath != "" {
		varsContent, err := ioutil.ReadFile(varsPath)
		if err != nil {
			return fmt.Errorf("cannot read vars file: %s", err.Error())
		}

		vars, err = godotenv.Parse(strings.NewReader(string(varsContent)))
		if err != nil {
			return fmt.Errorf("cannot parse vars: %s", err.Error())
		}
	}

	for _, v := range os.Environ() {
		pair := strings.SplitN(v, "=", 2)
		if _, exists := vars[pair[0]]; !exists {
			vars[pair[0]] = pair[1]
		}
	}

	fileContent, err := ioutil.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("cannot read file: %s", err.Error())
	}

	env, err := condaenv.Parse(fileContent)
	if err != nil {
		return fmt.Errorf("cannot parse manifest: %s", err.Error())
	}

	err = env.ResolveVars(vars)
	if err != nil {
		return fmt.Errorf("cannot resolve manifest vars %s", err.Error())
	}

	templated, err := env.Marshal()
	if err != nil {
		return err
	}

	outputPath := c.String("output")
	if outputPath != "" {
		err := ioutil.WriteFile(outputPath, templated, 0666)
		if err != nil {
			return fmt.Errorf("cannot write output file %s", err)
		}
	} else {
		fmt.Println(string(templated))
	}

	return nil
}
