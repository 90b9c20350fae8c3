package userstests

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// loadSchema reads one of the embedded response schemas. The name may be given with or
// without its .json extension, as the feature files refer to them either way.
func loadSchema(name string) (*jsonschema.Resolved, error) {
	file := "schemas/" + strings.TrimSuffix(name, ".json") + ".json"
	data, err := schemaFiles.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}
	return resolved, nil
}

// checkSchema validates a response body against a named schema: "user" for an array of user
// records, "error" for an error envelope.
func checkSchema(name string, body []byte) error {
	schema, err := loadSchema(name)
	if err != nil {
		return err
	}
	var instance interface{}
	if err := json.Unmarshal(body, &instance); err != nil {
		return fmt.Errorf("response is not JSON: %s", string(body))
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("response does not match the %q schema: %w", name, err)
	}
	return nil
}
