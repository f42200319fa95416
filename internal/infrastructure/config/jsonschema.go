package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// JSONSchema returns the configuration's JSON schema, indented.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Every key has a default, so none is required.
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/bnema/popframe/config.schema.json"
	schema.Title = "popframe configuration"
	schema.Description = "Hover preview frame placement, timing, logging and preview host settings"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
