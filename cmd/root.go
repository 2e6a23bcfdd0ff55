package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasgraph/weaviate-atlas/cmd/collections"
	"github.com/atlasgraph/weaviate-atlas/cmd/serve"
	"github.com/atlasgraph/weaviate-atlas/cmd/version"
	"github.com/atlasgraph/weaviate-atlas/internal/config"
	"github.com/atlasgraph/weaviate-atlas/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

var atlasCmd = &cobra.Command{
	Use:   "weaviate-atlas",
	Short: "An MCP server for exploring a Weaviate instance",
	Long: "Weaviate Atlas exposes a Weaviate instance to LLM agents through the Model Context Protocol.\n\n" +
		"Agents can run hybrid (vector + keyword) searches over any collection, follow typed " +
		"cross-references between collections one hop at a time, and receive structured reports " +
		"that advertise unexplored fields and links for further exploration.\n\n",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = logging.NewManager()

	atlasCmd.AddCommand(serve.ServeCmd)
	atlasCmd.AddCommand(collections.CollectionsCmd)
	atlasCmd.AddCommand(version.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := config.Init(); err != nil {
		return err
	}

	// Upgrade logging after config is available
	logFile := config.GetPath("log_file")
	levelStr := config.GetString("log_level")
	level, ok := logging.ParseLevel(levelStr)
	if !ok {
		level = logging.DefaultLevel
		if levelStr != "" {
			logger.Warn("invalid log level configured, using default", "configured", levelStr, "default", "info")
		}
	}

	if err := logManager.Upgrade(logFile, level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		// Don't return error - continue with bootstrap mode
	}

	// Subcommands log through the default logger.
	slog.SetDefault(logManager.Logger())

	return nil
}

func Execute() error {
	atlasCmd.SilenceErrors = true
	atlasCmd.SilenceUsage = true

	// Ensure logging is properly closed on exit
	defer func() { _ = logManager.Close() }()

	err := atlasCmd.Execute()

	if err != nil {
		cmd, _, _ := atlasCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = atlasCmd
		}

		fmt.Printf("Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Printf("\n")
			cmd.SetOut(os.Stdout)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
