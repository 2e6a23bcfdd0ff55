// Package collections implements the collections command for inspecting
// the live Weaviate schema from the terminal.
package collections

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasgraph/weaviate-atlas/internal/config"
	"github.com/atlasgraph/weaviate-atlas/internal/schema"
	"github.com/atlasgraph/weaviate-atlas/internal/weaviate"
)

// Flag variables for the collections command.
var (
	collectionsJSON bool
)

// CollectionsCmd lists the collections of the configured Weaviate instance.
var CollectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List the collections of the configured Weaviate instance",
	Long: "List the collections of the configured Weaviate instance.\n\n" +
		"Shows each collection with its properties, whether hybrid search is " +
		"available, and the cross-reference links it participates in. " +
		"Use --json for machine-readable output.",
	Example: `  # List collections
  weaviate-atlas collections

  # List collections as JSON
  weaviate-atlas collections --json`,
	Args:    cobra.NoArgs,
	PreRunE: validateCollections,
	RunE:    runCollections,
}

func init() {
	CollectionsCmd.Flags().BoolVar(&collectionsJSON, "json", false,
		"Output collections as JSON")
}

func validateCollections(cmd *cobra.Command, args []string) error {
	// All validation passed - errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

type collectionReport struct {
	Name       string                 `json:"name"`
	Properties []string               `json:"properties"`
	Hybrid     bool                   `json:"hybridEligible"`
	LinksOut   []schema.ReferenceEdge `json:"linksOut,omitempty"`
	LinksIn    []schema.IncomingRef   `json:"linksIn,omitempty"`
}

func runCollections(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config; %w", err)
	}

	logger := slog.Default()

	client, err := weaviate.NewClient(cfg.Weaviate, logger)
	if err != nil {
		return fmt.Errorf("failed to create weaviate client; %w", err)
	}

	cache := schema.NewCache(client, time.Duration(cfg.Schema.CacheTTLSeconds)*time.Second, logger)
	snap, err := cache.Get(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to fetch schema; %w", err)
	}

	reports := make([]collectionReport, 0, len(snap.Classes))
	for _, class := range snap.Classes {
		reports = append(reports, collectionReport{
			Name:       class.Name,
			Properties: class.PropertyNames(),
			Hybrid:     class.HybridEligible(),
			LinksOut:   schema.OutgoingRefs(snap, class.Name),
			LinksIn:    schema.IncomingRefs(snap, class.Name),
		})
	}

	if collectionsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Fprintln(out, "No collections found.")
		return nil
	}

	fmt.Fprintf(out, "Collections (%d):\n\n", len(reports))
	for _, report := range reports {
		printCollection(out, report)
	}

	return nil
}

func printCollection(out io.Writer, report collectionReport) {
	hybrid := "keyword-only"
	if report.Hybrid {
		hybrid = "hybrid"
	}
	fmt.Fprintf(out, "  %s (%s)\n", report.Name, hybrid)
	fmt.Fprintf(out, "    Properties: %s\n", strings.Join(report.Properties, ", "))

	for _, edge := range report.LinksOut {
		fmt.Fprintf(out, "    Link out: %s -> %s\n", edge.Property, strings.Join(edge.Targets, " | "))
	}
	for _, ref := range report.LinksIn {
		fmt.Fprintf(out, "    Link in: %s.%s\n", ref.FromClass, ref.Property)
	}

	fmt.Fprintln(out)
}
