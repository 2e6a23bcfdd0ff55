package explore

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"
)

// SearchResult is the outcome of one plain (non-traversal) query: the raw
// store response for structured consumers plus the unwrapped rows and the
// spec that produced them.
type SearchResult struct {
	Spec     QuerySpec
	Response *models.GraphQLResponse
	Rows     []map[string]any
}

// Search runs one plain hybrid query over a collection, projecting exactly
// the requested fields. Fields must be pre-validated against the class by
// the caller. Schema failure degrades to keyword-only retrieval; store
// failure surfaces as ErrQueryFailed.
func (e *Engine) Search(ctx context.Context, collection, query string, fields []string, limit int) (*SearchResult, error) {
	snap := e.snapshot(ctx)
	spec := BuildQuery(collection, query, fields, limit, classPtr(snap, collection), e.logger)

	resp, err := e.store.Search(ctx, spec.searchRequest(spec.flatFields()))
	if err != nil {
		return nil, wrapQueryError(err)
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}

	return &SearchResult{
		Spec:     spec,
		Response: resp,
		Rows:     objectsFor(resp, collection),
	}, nil
}
