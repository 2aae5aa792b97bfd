package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of a config file.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

// AttributesSchema returns the JSON schema of a recognizer's attributes.
func AttributesSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&RecognizerAttributes{})
}

// SchemaJSON renders the config and attribute schemas as one indented JSON document.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(map[string]*jsonschema.Schema{
		"config":     Schema(),
		"attributes": AttributesSchema(),
	}, "", "  ")
}
