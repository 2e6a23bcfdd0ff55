// Package explore implements the query construction, reference traversal,
// and result summarization engine on top of the schema cache and the store.
package explore

import (
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/atlasgraph/weaviate-atlas/internal/schema"
	"github.com/atlasgraph/weaviate-atlas/internal/weaviate"
)

// QuerySpec is one assembled query against a collection. It carries the
// hybrid-eligibility decision so the summarizer can surface a warning when
// hybrid ranking was skipped.
type QuerySpec struct {
	Collection string
	Query      string
	Fields     []string
	Limit      int
	Hybrid     bool
}

// BuildQuery assembles a query spec for collection. Fields are deduplicated
// preserving first-occurrence order. The hybrid clause is attached only when
// the class declares a usable vectorizer or module config; class may be nil
// when no schema is known, which disables hybrid. A limit of zero or less
// defers to the store's default. Every query in this package goes through
// this one construction path.
func BuildQuery(collection, query string, fields []string, limit int, class *schema.ClassSchema, logger *slog.Logger) QuerySpec {
	spec := QuerySpec{
		Collection: collection,
		Query:      query,
		Fields:     dedupFields(fields),
	}
	if limit > 0 {
		spec.Limit = limit
	}
	if class != nil && class.HybridEligible() {
		spec.Hybrid = true
	} else {
		logger.Warn("hybrid search skipped, falling back to keyword-only retrieval",
			"collection", collection)
	}
	return spec
}

// dedupFields removes duplicates preserving the order of first occurrence.
func dedupFields(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// searchRequest converts the spec into a store request with the given
// selection set. The selection set is built by the caller because traversals
// add reference blocks beyond the flat field list.
func (s QuerySpec) searchRequest(fields []graphql.Field) weaviate.SearchRequest {
	return weaviate.SearchRequest{
		Class:  s.Collection,
		Fields: fields,
		Query:  s.Query,
		Hybrid: s.Hybrid,
		Limit:  s.Limit,
	}
}

// flatFields maps the deduplicated field names onto a selection set.
func (s QuerySpec) flatFields() []graphql.Field {
	fields := make([]graphql.Field, 0, len(s.Fields))
	for _, name := range s.Fields {
		fields = append(fields, graphql.Field{Name: name})
	}
	return fields
}
