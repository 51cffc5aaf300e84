package storage

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlWorkflowFile mirrors Workflow's externally-editable fields in a form
// suited to hand-written YAML workflow files: Data is raw YAML rather than
// a JSON blob, so a user can author a workflow without ever touching JSON.
type yamlWorkflowFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Data        interface{} `yaml:"data"`
}

// EncodeYAML renders a workflow's name, description, and node/edge data as
// a YAML document, for export to a workflow file.
func EncodeYAML(name, description string, data json.RawMessage) ([]byte, error) {
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decoding workflow data: %w", err)
	}
	return yaml.Marshal(yamlWorkflowFile{Name: name, Description: description, Data: decoded})
}

// DecodeYAML parses a YAML workflow file into the name/description/data
// triple Save expects, re-encoding Data back to JSON since the rest of the
// engine is JSON-native.
func DecodeYAML(doc []byte) (name, description string, data json.RawMessage, err error) {
	var file yamlWorkflowFile
	if err := yaml.Unmarshal(doc, &file); err != nil {
		return "", "", nil, fmt.Errorf("parsing workflow YAML: %w", err)
	}
	raw, err := json.Marshal(file.Data)
	if err != nil {
		return "", "", nil, fmt.Errorf("re-encoding workflow data: %w", err)
	}
	return file.Name, file.Description, raw, nil
}
