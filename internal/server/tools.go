package server

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool names exposed over MCP. They are part of the wire contract: clients
// configure them by name, so renaming one is a breaking change.
const (
	ToolGenerateDiagramFile   = "generate_mermaid_diagram_file"
	ToolGenerateDiagramStream = "generate_mermaid_diagram_stream"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools.
//
// Both tools take the same rendering inputs (code, theme, backgroundColor)
// and differ only in delivery: _file writes a PNG into a caller-supplied
// folder and returns its path, _stream returns the PNG bytes inline as
// image content.
func GetToolDefinitions() []Tool {
	codeProperty := map[string]any{
		"type":        "string",
		"description": "Mermaid diagram code to render, e.g. \"graph TD; A-->B\"",
	}
	themeProperty := map[string]any{
		"type":        "string",
		"description": "Mermaid theme: default, forest, dark or neutral",
		"default":     "default",
	}
	backgroundProperty := map[string]any{
		"type":        "string",
		"description": "Background color such as \"white\", \"transparent\" or \"#F0F0F0\"",
	}

	return []Tool{
		{
			Name: ToolGenerateDiagramFile,
			Description: "Generate a PNG image from Mermaid diagram code and save it to a file. " +
				"The folder must already exist; a .png extension is appended to the name when missing. " +
				"Returns the absolute path of the written image.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code": codeProperty,
					"folder": map[string]any{
						"type":        "string",
						"description": "Path to an existing directory the image is written into",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "File name for the image inside the folder",
					},
					"theme":           themeProperty,
					"backgroundColor": backgroundProperty,
				},
				"required": []string{"code", "folder", "name"},
			},
		},
		{
			Name: ToolGenerateDiagramStream,
			Description: "Generate a PNG image from Mermaid diagram code and return it directly " +
				"as image content instead of saving it to a file.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code":            codeProperty,
					"theme":           themeProperty,
					"backgroundColor": backgroundProperty,
				},
				"required": []string{"code"},
			},
		},
	}
}

// compileSchema converts a schema map into the SDK's jsonschema form by
// round-tripping it through JSON.
func compileSchema(def map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}

	schema := new(jsonschema.Schema)
	if err := schema.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return schema, nil
}
