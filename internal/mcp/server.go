// ABOUTME: MCP server setup for the fitness store.
// ABOUTME: Wraps the MCP server with store and catalog access.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/fittrack/internal/catalog"
	"github.com/harperreed/fittrack/internal/store"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	store     *store.Store
	catalog   *catalog.Catalog
	userID    string
}

// NewServer creates a new MCP server scoped to the given user.
func NewServer(st *store.Store, userID string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fittrack",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     st,
		catalog:   catalog.New(st),
		userID:    userID,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
