// Package mcp provides the Model Context Protocol server exposing the
// Weaviate exploration tools.
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/atlasgraph/weaviate-atlas/internal/explore"
	"github.com/atlasgraph/weaviate-atlas/internal/schema"
	"github.com/atlasgraph/weaviate-atlas/internal/version"
)

// Server wraps the MCP server with the query engine and its collaborators.
type Server struct {
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	engine     *explore.Engine
	resolver   *explore.Resolver
	cache      *schema.Cache
	logger     *slog.Logger
}

// Config contains MCP server configuration.
type Config struct {
	// Name is the server name advertised to clients.
	Name string
	// Version is the server version.
	Version string
	// BasePath is the URL base path for the HTTP transport.
	BasePath string
}

// DefaultConfig returns default MCP server configuration.
func DefaultConfig() Config {
	return Config{
		Name:     "weaviate-atlas",
		Version:  version.Get().Version,
		BasePath: "/mcp",
	}
}

// NewServer creates the MCP server and registers all tools and resources.
func NewServer(engine *explore.Engine, resolver *explore.Resolver, cache *schema.Cache, cfg Config, logger *slog.Logger) *Server {
	s := &Server{
		engine:   engine,
		resolver: resolver,
		cache:    cache,
		logger:   logger.With("component", "mcp"),
	}

	s.mcpServer = server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithResourceCapabilities(false, true),
		server.WithToolCapabilities(true),
	)

	s.registerResources()
	s.registerTools()

	s.httpServer = server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateful(true),
		server.WithHeartbeatInterval(30*time.Second),
		server.WithEndpointPath(cfg.BasePath),
	)

	s.logger.Info("MCP server created",
		"name", cfg.Name,
		"version", cfg.Version,
		"base_path", cfg.BasePath,
	)

	return s
}

// ServeStdio serves MCP over stdin/stdout. Blocks until the stream closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Handler returns the HTTP handler for the StreamableHTTP transport.
func (s *Server) Handler() http.Handler {
	return s.httpServer
}

// Shutdown stops the HTTP transport, if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("MCP server shutdown error", "error", err)
		return err
	}
	s.logger.Info("MCP server stopped")
	return nil
}
