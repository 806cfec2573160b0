// Package mcp exposes the memory bridge and operator core over the Model
// Context Protocol so MCP-capable clients can drive cycles and read layers.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/omnibridge/omnibridge/internal/archive"
	"github.com/omnibridge/omnibridge/internal/operator"
)

// Server bundles the operator core and the archive store behind MCP tools.
type Server struct {
	core  *operator.Core
	store *archive.Store
	root  string
}

// NewServer creates the MCP server wiring. store may be nil when the
// workspace has no archive database yet.
func NewServer(core *operator.Core, store *archive.Store, root string) *Server {
	return &Server{core: core, store: store, root: root}
}

// MCPServer builds the underlying protocol server with all tools registered.
func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"omnibridge",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("fetch_layer",
		mcp.WithDescription("Fetch entries from a memory layer, optionally only those added after a cursor."),
		mcp.WithString("layer", mcp.Required(), mcp.Description("Layer name, e.g. legal_evidence")),
		mcp.WithNumber("since", mcp.Description("Cursor from a previous fetch; omit for all entries")),
	), s.handleFetchLayer)

	srv.AddTool(mcp.NewTool("run_cycle",
		mcp.WithDescription("Run one ingestion and fusion cycle and return the audit report."),
	), s.handleRunCycle)

	srv.AddTool(mcp.NewTool("system_status",
		mcp.WithDescription("Summarise layer fill levels and archived cycle history."),
	), s.handleSystemStatus)

	srv.AddTool(mcp.NewTool("describe_catalog",
		mcp.WithDescription("List the capability functions published by the bridge."),
	), s.handleDescribeCatalog)

	return srv
}

// Serve runs the MCP server on stdio until the client disconnects.
func (s *Server) Serve(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}
