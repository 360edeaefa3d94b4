package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/MRIIOT/crystal-mcp-server-public/internal/crystal"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/library"
	"github.com/MRIIOT/crystal-mcp-server-public/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodePathEscape    = -32001 // Resolved path escaped the server root
)

// handleImportProtocol handles the import_protocol tool invocation
func (s *Server) handleImportProtocol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.importDocument(ctx, s.protocols, request)
}

// handleImportCodex handles the import_codex tool invocation
func (s *Server) handleImportCodex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.importDocument(ctx, s.codices, request)
}

// importDocument runs the shared fuzzy-import flow for both document
// classes. No-match is a normal result carrying score and suggestions;
// only path escapes and unexpected I/O fail the call.
func (s *Server) importDocument(ctx context.Context, lib *library.Library, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	result, content, err := lib.Query(ctx, query)
	if err != nil {
		return nil, classifyError(err, "document query failed")
	}

	class := lib.Class().Name
	if !result.Matched {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"matched":     false,
			"class":       class,
			"query":       query,
			"score":       result.Score,
			"suggestions": result.Suggestions,
			"message":     fmt.Sprintf("No %s document matched %q. Try one of the suggestions.", class, query),
		})), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"matched": true,
		"class":   class,
		"file":    result.Match,
		"score":   result.Score,
		"content": content,
	})), nil
}

// handleExportCrystal handles the export_crystal tool invocation
func (s *Server) handleExportCrystal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req := crystal.CreateRequest{
		Title:       getStringDefault(args, "title", ""),
		SpecVersion: getStringDefault(args, "spec_version", crystal.DefaultSpecVersion),
		Content:     getStringDefault(args, "content", ""),
	}

	created, err := s.crystals.Create(ctx, req)
	if errors.Is(err, types.ErrNoContent) {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"exported": false,
			"error":    "no_content_available",
			"message": "No content was provided and context auto-detection found nothing to crystallize. " +
				"Pass content explicitly, or integrate a context scanner that can surface recent artifacts.",
		})), nil
	}
	if err != nil {
		return nil, classifyError(err, "crystal export failed")
	}

	location, err := s.crystals.Path(created.ID)
	if err != nil {
		return nil, classifyError(err, "crystal export failed")
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"exported":      true,
		"id":            created.ID,
		"location":      location,
		"title":         created.Title,
		"spec_version":  created.SpecVersion,
		"created_at":    created.CreatedAt,
		"auto_detected": created.AutoDetected,
	})), nil
}

// handleImportCrystal handles the import_crystal tool invocation
func (s *Server) handleImportCrystal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["crystal_id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "crystal_id parameter is required", map[string]interface{}{
			"param":  "crystal_id",
			"reason": "missing or empty",
		})
	}

	c, err := s.crystals.Get(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		// Pair the miss with an enumeration of real IDs so the caller
		// can retry with corrected input.
		ids, idsErr := s.crystals.IDs(ctx)
		if idsErr != nil {
			s.logger.Warn("failed to enumerate crystal IDs", zap.Error(idsErr))
			ids = nil
		}
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"found":         false,
			"crystal_id":    id,
			"available_ids": ids,
			"message":       fmt.Sprintf("No crystal exists with ID %q. See available_ids for stored crystals.", id),
		})), nil
	}
	if err != nil {
		return nil, classifyError(err, "crystal import failed")
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"found":         true,
		"id":            c.ID,
		"title":         c.Title,
		"spec_version":  c.SpecVersion,
		"created_at":    c.CreatedAt,
		"auto_detected": c.AutoDetected,
		"content":       c.Content,
	})), nil
}

// handleListCrystals handles the list_crystals tool invocation
func (s *Server) handleListCrystals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := s.crystals.List(ctx)
	if err != nil {
		return nil, classifyError(err, "crystal listing failed")
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count":    len(summaries),
		"crystals": summaries,
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// classifyError converts core errors that must abort the operation into
// MCP errors. Path escapes get their own code; everything else reaching
// here is an unexpected I/O failure.
func classifyError(err error, message string) error {
	code := ErrorCodeInternalError
	if errors.Is(err, types.ErrPathEscape) {
		code = ErrorCodePathEscape
	}
	return newMCPError(code, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}
