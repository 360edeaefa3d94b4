package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/MRIIOT/crystal-mcp-server-public/internal/config"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/crystal"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/library"
	"github.com/MRIIOT/crystal-mcp-server-public/internal/matcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "crystal-mcp-server"
	// ServerVersion is the current server version
	ServerVersion = "3.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	protocols *library.Library
	codices   *library.Library
	crystals  *crystal.Store
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance. The home directory tree
// (protocols/, codex/, crystals/) is bootstrapped idempotently.
func NewServer(cfg *config.Config, scanner crystal.ContextScanner, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(cfg.Home, 0755); err != nil {
		return nil, fmt.Errorf("failed to create server home: %w", err)
	}

	protocols, err := newLibrary(cfg.Home, cfg.ProtocolDir, matcher.SpecClass, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize protocol library: %w", err)
	}

	codices, err := newLibrary(cfg.Home, cfg.CodexDir, matcher.CodexClass, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize codex library: %w", err)
	}

	crystals, err := crystal.NewStore(cfg.Home, cfg.StoreDir, scanner, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize crystal store: %w", err)
	}

	// WithRecovery is the supervision boundary around tool dispatch:
	// a panicking handler fails its own call, not the server.
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcp:       mcpServer,
		protocols: protocols,
		codices:   codices,
		crystals:  crystals,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// newLibrary resolves a class directory inside home, creates it if
// needed, and opens a Library over it
func newLibrary(home, dir string, class matcher.Class, logger *zap.Logger) (*library.Library, error) {
	resolved, err := library.ContainedPath(home, dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(resolved, 0755); err != nil {
		return nil, err
	}
	return library.New(home, dir, class, logger)
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(importProtocolTool(), s.handleImportProtocol)
	s.mcp.AddTool(importCodexTool(), s.handleImportCodex)
	s.mcp.AddTool(exportCrystalTool(), s.handleExportCrystal)
	s.mcp.AddTool(importCrystalTool(), s.handleImportCrystal)
	s.mcp.AddTool(listCrystalsTool(), s.handleListCrystals)
}
