package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atlasgraph/weaviate-atlas/internal/explore"
	"github.com/atlasgraph/weaviate-atlas/internal/schema"
)

const (
	toolHybridSearch     = "hybrid-search"
	toolExploreOrigin    = "explore-origin"
	toolFollowReferences = "follow-references"

	defaultLimit = 10
	maxLimit     = 50
)

func (s *Server) registerTools() {
	hybridSearch := mcp.NewTool(
		toolHybridSearch,
		mcp.WithTitleAnnotation("Hybrid Search"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDescription("Hybrid (vector + keyword) search over one Weaviate collection, projecting the requested properties."),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Free-text search query."),
		),
		mcp.WithString(
			"collection",
			mcp.Description("Collection to search. Defaults to the first available collection."),
		),
		mcp.WithArray(
			"targetProperties",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Properties to return for each match. Must exist on the collection."),
		),
		mcp.WithNumber(
			"limit",
			mcp.Min(1),
			mcp.Max(maxLimit),
			mcp.DefaultNumber(defaultLimit),
			mcp.Description("Maximum number of matches."),
		),
		mcp.WithSchemaAdditionalProperties(false),
	)
	s.mcpServer.AddTool(hybridSearch, s.handleHybridSearch)

	exploreOrigin := mcp.NewTool(
		toolExploreOrigin,
		mcp.WithTitleAnnotation("Explore Origin"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDescription("Search the origin collection and follow its built-in references two levels deep, reporting linked entities and further explorable links."),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Free-text search query."),
		),
		mcp.WithNumber(
			"limit",
			mcp.Min(1),
			mcp.Max(maxLimit),
			mcp.DefaultNumber(defaultLimit),
			mcp.Description("Maximum number of matches."),
		),
		mcp.WithSchemaAdditionalProperties(false),
	)
	s.mcpServer.AddTool(exploreOrigin, s.handleExploreOrigin)

	followReferences := mcp.NewTool(
		toolFollowReferences,
		mcp.WithTitleAnnotation("Follow References"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDescription("Search a collection and follow one reference property to its linked objects, one hop."),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Free-text search query."),
		),
		mcp.WithString(
			"collection",
			mcp.Description("Collection to search. Defaults to the first available collection."),
		),
		mcp.WithString(
			"referenceProperty",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Reference property to follow from each match."),
		),
		mcp.WithArray(
			"targetProperties",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Properties to return on the base objects. Must exist on the collection."),
		),
		mcp.WithArray(
			"referenceFields",
			mcp.WithStringItems(),
			mcp.Description("Properties to project on the referenced objects. Defaults to name."),
		),
		mcp.WithNumber(
			"limit",
			mcp.Min(1),
			mcp.Max(maxLimit),
			mcp.DefaultNumber(defaultLimit),
			mcp.Description("Maximum number of matches."),
		),
		mcp.WithSchemaAdditionalProperties(false),
	)
	s.mcpServer.AddTool(followReferences, s.handleFollowReferences)
}

func (s *Server) handleHybridSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	query = strings.TrimSpace(query)

	props := request.GetStringSlice("targetProperties", nil)
	if len(props) == 0 {
		return mcp.NewToolResultError("targetProperties requires at least one property"), nil
	}
	limit := clampInt(request.GetInt("limit", defaultLimit), 1, maxLimit)

	collection, err := s.resolver.Resolve(ctx, request.GetString("collection", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	class, err := s.classFor(ctx, collection)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validateProperties(class, props); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.engine.Search(ctx, collection, query, props, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultStructured(result.Response, renderSearchText(collection, query, result)), nil
}

func (s *Server) handleExploreOrigin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := clampInt(request.GetInt("limit", defaultLimit), 1, maxLimit)

	report, err := s.engine.QueryOrigin(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultStructured(report, report.Render()), nil
}

func (s *Server) handleFollowReferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	refProperty, err := request.RequireString("referenceProperty")
	if err != nil || strings.TrimSpace(refProperty) == "" {
		return mcp.NewToolResultError("referenceProperty is required"), nil
	}
	props := request.GetStringSlice("targetProperties", nil)
	if len(props) == 0 {
		return mcp.NewToolResultError("targetProperties requires at least one property"), nil
	}
	limit := clampInt(request.GetInt("limit", defaultLimit), 1, maxLimit)

	collection, err := s.resolver.Resolve(ctx, request.GetString("collection", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	class, err := s.classFor(ctx, collection)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validateProperties(class, props); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// referenceProperty is deliberately not validated: an unknown reference
	// still gets a best-effort fragment-less projection.

	report, err := s.engine.QueryWithRefs(ctx, explore.WithRefsRequest{
		Collection:        collection,
		Query:             strings.TrimSpace(query),
		ReferenceProperty: strings.TrimSpace(refProperty),
		Fields:            props,
		ReferenceFields:   request.GetStringSlice("referenceFields", nil),
		Limit:             limit,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultStructured(report, report.Render()), nil
}

// classFor fetches the resolved collection's class from the cached schema.
func (s *Server) classFor(ctx context.Context, collection string) (schema.ClassSchema, error) {
	snap, err := s.cache.Get(ctx, false)
	if err != nil {
		return schema.ClassSchema{}, err
	}
	class, ok := snap.Class(collection)
	if !ok {
		return schema.ClassSchema{}, fmt.Errorf("collection %q is not in the current schema", collection)
	}
	return class, nil
}

// validateProperties rejects any requested property the class does not
// declare, listing the full allowed set so the caller can correct the call.
func validateProperties(class schema.ClassSchema, props []string) error {
	allowed := class.PropertyNames()
	declared := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		declared[name] = struct{}{}
	}
	for _, prop := range props {
		if _, ok := declared[prop]; !ok {
			return fmt.Errorf("property %q is not defined on %q; allowed properties: %s",
				prop, class.Name, strings.Join(allowed, ", "))
		}
	}
	return nil
}

func renderSearchText(collection, query string, result *explore.SearchResult) string {
	var b strings.Builder
	if len(result.Rows) == 0 {
		fmt.Fprintf(&b, "No matches in %q for %q.", collection, query)
	} else {
		fmt.Fprintf(&b, "%d match(es) in %q for %q:", len(result.Rows), collection, query)
		for _, row := range result.Rows {
			b.WriteString("\n- ")
			parts := make([]string, 0, len(result.Spec.Fields))
			for _, field := range result.Spec.Fields {
				if value, ok := row[field]; ok {
					parts = append(parts, fmt.Sprintf("%s: %v", field, value))
				}
			}
			b.WriteString(strings.Join(parts, " | "))
		}
	}
	if !result.Spec.Hybrid {
		b.WriteString("\nWarning: hybrid search skipped (no vectorizer or module config); keyword-only results.")
	}
	return b.String()
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
