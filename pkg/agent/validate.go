package agent

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// toJSONSchemaDoc converts a ToolParameters spec into the plain
// map-of-interfaces shape jsonschema/v6 compiles from.
func toJSONSchemaDoc(p types.ToolParameters) map[string]interface{} {
	props := make(map[string]interface{}, len(p.Properties))
	for name, spec := range p.Properties {
		prop := map[string]interface{}{"type": spec.Type}
		if spec.Description != "" {
			prop["description"] = spec.Description
		}
		props[name] = prop
	}

	doc := map[string]interface{}{
		"type":       orDefault(p.Type, "object"),
		"properties": props,
	}
	if len(p.Required) > 0 {
		required := make([]interface{}, len(p.Required))
		for i, r := range p.Required {
			required[i] = r
		}
		doc["required"] = required
	}
	return doc
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// validateArguments checks parsed tool-call arguments against a tool's
// declared parameter schema. The resource name "tool-args.json" is synthetic
// and local to this single validation call.
func validateArguments(params types.ToolParameters, args map[string]interface{}) error {
	doc := toJSONSchemaDoc(params)

	c := jsonschema.NewCompiler()
	if err := c.AddResource("tool-args.json", doc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("tool-args.json")
	if err != nil {
		return fmt.Errorf("compile tool schema: %w", err)
	}

	if err := schema.Validate(toRawMap(args)); err != nil {
		return fmt.Errorf("tool arguments invalid: %w", err)
	}
	return nil
}

// toRawMap converts a map[string]interface{} to any for jsonschema.Validate,
// which expects the decoded-JSON shape (map[string]any, []any, etc.) rather
// than a concrete map type.
func toRawMap(m map[string]interface{}) interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
