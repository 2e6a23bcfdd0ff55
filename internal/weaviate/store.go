// Package weaviate wraps the Weaviate Go client with retry, error
// classification, and the narrow surface the rest of the application needs.
package weaviate

import (
	"context"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// SearchRequest describes a single GraphQL Get query against one class.
type SearchRequest struct {
	// Class is the Weaviate class (collection) to query.
	Class string

	// Fields is the GraphQL selection set.
	Fields []graphql.Field

	// Query is the user's search text. Used only when Hybrid is true.
	Query string

	// Hybrid enables hybrid (BM25 + vector) ranking. When false the query
	// is a plain Get, which works on classes without a vectorizer.
	Hybrid bool

	// Limit caps the number of returned objects. Zero means no limit clause.
	Limit int
}

// Store is the read-only Weaviate surface used by the schema cache and the
// query engine. Implementations must be safe for concurrent use.
type Store interface {
	// LiveSchema fetches all class definitions from the upstream instance.
	LiveSchema(ctx context.Context) ([]*models.Class, error)

	// ClassSchema fetches a single class definition by exact name.
	// Returns ErrClassNotFound if the class does not exist.
	ClassSchema(ctx context.Context, name string) (*models.Class, error)

	// Search runs a GraphQL Get query and returns the raw response.
	// GraphQL-level errors are left in the response for the caller to
	// interpret; transport failures are returned as wrapped sentinels.
	Search(ctx context.Context, req SearchRequest) (*models.GraphQLResponse, error)
}
