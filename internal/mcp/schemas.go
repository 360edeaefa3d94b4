package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// importProtocolTool returns the tool definition for import_protocol
func importProtocolTool() mcp.Tool {
	return mcp.Tool{
		Name:        "import_protocol",
		Description: "Import a crystallization protocol specification by fuzzy natural-language query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text query, e.g. 'crystallization protocol 2.1'",
				},
			},
			Required: []string{"query"},
		},
	}
}

// importCodexTool returns the tool definition for import_codex
func importCodexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "import_codex",
		Description: "Import a codex document by fuzzy natural-language query (domain vocabulary terms boost matching)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text query, e.g. 'temporal 3.0' or 'awareness transmission'",
				},
			},
			Required: []string{"query"},
		},
	}
}

// exportCrystalTool returns the tool definition for export_crystal
func exportCrystalTool() mcp.Tool {
	return mcp.Tool{
		Name:        "export_crystal",
		Description: "Persist content as a new immutable crystal under a generated ID",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional display title for the crystal",
				},
				"spec_version": map[string]interface{}{
					"type":        "string",
					"description": "Crystallization spec version to stamp on the record",
					"default":     "3.0",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Content to crystallize. When omitted, context auto-detection is attempted",
				},
			},
		},
	}
}

// importCrystalTool returns the tool definition for import_crystal
func importCrystalTool() mcp.Tool {
	return mcp.Tool{
		Name:        "import_crystal",
		Description: "Retrieve a stored crystal by its exact ID",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"crystal_id": map[string]interface{}{
					"type":        "string",
					"description": "Crystal ID returned by export_crystal",
				},
				"spec_version": map[string]interface{}{
					"type":        "string",
					"description": "Informational only; retrieval is by ID",
				},
			},
			Required: []string{"crystal_id"},
		},
	}
}

// listCrystalsTool returns the tool definition for list_crystals
func listCrystalsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_crystals",
		Description: "Enumerate all stored crystals with their metadata",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
