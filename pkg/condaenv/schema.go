package condaenv

import (
	"fmt"

	"github.com/project-causica/causica/pkg/lint"
	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

const manifestSchema = `
{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "dependencies"],
  "additionalProperties": false,
  "properties": {
    "name": {
      "type": "string",
      "minLength": 1,
      "pattern": "^[A-Za-z0-9][A-Za-z0-9._-]*$"
    },
    "channels": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "dependencies": {
      "type": "array",
      "minItems": 1,
      "items": {
        "oneOf": [
          {"type": "string", "minLength": 1},
          {
            "type": "object",
            "required": ["pip"],
            "additionalProperties": false,
            "properties": {
              "pip": {
                "type": "array",
                "items": {"type": "string", "minLength": 1}
              }
            }
          }
        ]
      }
    }
  }
}
`

// ValidateSchema checks the manifest shape against the embedded JSON schema
func ValidateSchema(manifestYAML []byte) ([]lint.Finding, error) {
	manifestJSON, err := yaml.YAMLToJSON(manifestYAML)
	if err != nil {
		return nil, fmt.Errorf("cannot convert manifest to json: %s", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	documentLoader := gojsonschema.NewBytesLoader(manifestJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("cannot validate json schema %s", err)
	}

	var findings []lint.Finding
	for _, desc := range result.Errors() {
		findings = append(findings, lint.Errorf("schema", "%s", desc))
	}
	return findings, nil
}
