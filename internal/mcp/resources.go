package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atlasgraph/weaviate-atlas/internal/schema"
)

// ResourceURICollections exposes the live collections and their reference
// edges as a JSON resource.
const ResourceURICollections = "weaviate-atlas://collections"

type collectionInfo struct {
	Name       string                 `json:"name"`
	Properties []string               `json:"properties"`
	Hybrid     bool                   `json:"hybridEligible"`
	LinksOut   []schema.ReferenceEdge `json:"linksOut,omitempty"`
	LinksIn    []schema.IncomingRef   `json:"linksIn,omitempty"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(
			ResourceURICollections,
			"Weaviate Collections",
			mcp.WithResourceDescription("Live collections with their properties and one-hop reference links."),
			mcp.WithMIMEType("application/json"),
		),
		s.handleCollectionsResource,
	)
}

func (s *Server) handleCollectionsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := s.cache.Get(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("read collections: %w", err)
	}

	infos := make([]collectionInfo, 0, len(snap.Classes))
	for _, class := range snap.Classes {
		infos = append(infos, collectionInfo{
			Name:       class.Name,
			Properties: class.PropertyNames(),
			Hybrid:     class.HybridEligible(),
			LinksOut:   schema.OutgoingRefs(snap, class.Name),
			LinksIn:    schema.IncomingRefs(snap, class.Name),
		})
	}

	payload, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode collections: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}, nil
}
