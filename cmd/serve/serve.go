package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasgraph/weaviate-atlas/internal/config"
	"github.com/atlasgraph/weaviate-atlas/internal/explore"
	"github.com/atlasgraph/weaviate-atlas/internal/mcp"
	"github.com/atlasgraph/weaviate-atlas/internal/schema"
	"github.com/atlasgraph/weaviate-atlas/internal/version"
	"github.com/atlasgraph/weaviate-atlas/internal/weaviate"
)

const shutdownTimeout = 10 * time.Second

var transportFlag string

// ServeCmd runs the MCP server in foreground mode.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: "Run the MCP server.\n\n" +
		"Serves the exploration tools over stdio (the default, for MCP clients that " +
		"spawn the server as a subprocess) or over Streamable HTTP when the transport " +
		"is set to http. The server stays in the foreground until the stream closes " +
		"or a SIGINT/SIGTERM arrives.",
	Example: `  # Serve over stdio (default)
  weaviate-atlas serve

  # Serve over HTTP on the configured bind address and port
  weaviate-atlas serve --transport http`,
	PreRunE: validateServe,
	RunE:    runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&transportFlag, "transport", "",
		`transport to serve on: "stdio" or "http" (overrides config)`)
}

func validateServe(cmd *cobra.Command, args []string) error {
	if transportFlag != "" && transportFlag != "stdio" && transportFlag != "http" {
		return fmt.Errorf("invalid transport %q; must be stdio or http", transportFlag)
	}

	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config; %w", err)
	}

	logger := slog.Default()

	transport := cfg.Server.Transport
	if transportFlag != "" {
		transport = transportFlag
	}

	client, err := weaviate.NewClient(cfg.Weaviate, logger)
	if err != nil {
		return fmt.Errorf("failed to create weaviate client; %w", err)
	}

	cache := schema.NewCache(client, time.Duration(cfg.Schema.CacheTTLSeconds)*time.Second, logger)
	resolver := explore.NewResolver(cache, time.Duration(cfg.Schema.ResolverTTLSeconds)*time.Second, logger)
	engine := explore.NewEngine(client, cache, explore.OriginShape{
		Collection: cfg.Origin.Collection,
		NameField:  cfg.Origin.NameField,
		PrimaryRef: cfg.Origin.PrimaryRef,
		NestedRef:  cfg.Origin.NestedRef,
		DeepRef:    cfg.Origin.DeepRef,
	}, logger)

	srv := mcp.NewServer(engine, resolver, cache, mcp.Config{
		Name:     cfg.Server.Name,
		Version:  version.Get().Version,
		BasePath: cfg.Server.BasePath,
	}, logger)

	switch transport {
	case "http":
		return serveHTTP(cfg, srv, logger)
	default:
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("stdio server error; %w", err)
		}
		return nil
	}
}

func serveHTTP(cfg *config.Config, srv *mcp.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(cfg.Server.HTTPBind, strconv.Itoa(cfg.Server.HTTPPort))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over HTTP", "addr", addr, "base_path", cfg.Server.BasePath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error; %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP transport shutdown error", "error", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown error; %w", err)
	}

	logger.Info("server stopped")
	return nil
}
