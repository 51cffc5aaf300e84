package agent

import (
	"strings"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// isResourceHandle reports whether a target handle name marks its edge as a
// tool/resource attachment rather than a data input, per the naming
// convention: any handle whose name contains "resource".
func isResourceHandle(handle string) bool {
	return strings.Contains(strings.ToLower(handle), "resource")
}

// toolName synthesizes the invocation name an LLM sees for a tool node:
// "<type>_<id-with-dashes-replaced-by-underscores>".
func toolName(nodeType types.NodeType, nodeID string) string {
	return string(nodeType) + "_" + strings.ReplaceAll(nodeID, "-", "_")
}

// synthesizeSchema builds a ToolSchema for a tool node, with type-specific
// parameter shapes matching what that node type's executor actually reads
// out of its inputs.
func synthesizeSchema(node types.Node) types.ToolSchema {
	name := toolName(node.Type, node.ID)

	var params types.ToolParameters
	switch node.Type {
	case types.NodeTypeImageGeneration:
		params = types.ToolParameters{
			Type: "object",
			Properties: map[string]types.PropertySpec{
				"prompt": {Type: "string", Description: "Image generation prompt"},
				"style":  {Type: "string", Description: "Optional style hint"},
			},
			Required: []string{"prompt"},
		}
	case types.NodeTypePython:
		params = types.ToolParameters{
			Type: "object",
			Properties: map[string]types.PropertySpec{
				"inputs": {Type: "object", Description: "Arguments injected into the script as `inputs`"},
			},
		}
	case types.NodeTypeHTTPRequest:
		params = types.ToolParameters{
			Type: "object",
			Properties: map[string]types.PropertySpec{
				"body":        {Type: "object", Description: "Request body"},
				"queryParams": {Type: "object", Description: "Query string parameters"},
			},
		}
	case types.NodeTypeTextToSpeech:
		params = types.ToolParameters{
			Type: "object",
			Properties: map[string]types.PropertySpec{
				"text":  {Type: "string", Description: "Text to synthesize"},
				"voice": {Type: "string", Description: "Voice identifier"},
			},
			Required: []string{"text"},
		}
	case types.NodeTypeCodeExecutor:
		params = types.ToolParameters{
			Type: "object",
			Properties: map[string]types.PropertySpec{
				"inputs": {Type: "object", Description: "Value bound as `inputs` in the expression"},
			},
		}
	default:
		params = types.ToolParameters{
			Type:       "object",
			Properties: map[string]types.PropertySpec{},
		}
	}

	return types.ToolSchema{
		Name:        name,
		Description: "Invoke node " + node.ID + " (" + string(node.Type) + ")",
		Parameters:  params,
		NodeID:      node.ID,
		NodeType:    node.Type,
	}
}
