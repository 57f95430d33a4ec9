// Package mcpserver exposes the questionnaire to MCP clients over stdio.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"neopir/internal/audit"
	"neopir/internal/inventory"
)

// New builds an MCP server with the questionnaire tools registered.
// logger receives warnings and must not write to stdout.
func New(inv *inventory.Inventory, auditLog *audit.Logger, logger *slog.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"neopir",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	itemsTool := NewItemsTool(inv)
	s.AddTool(itemsTool.Definition(), itemsTool.Handle)

	scoreTool := NewScoreTool(inv, auditLog, logger)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `neopir administers a 60-item Big Five questionnaire.
Call neopir_items to get the statements, collect an answer from 1 (strongly disagree)
to 5 (strongly agree) for each, then call neopir_score with the answers as a JSON object.`
