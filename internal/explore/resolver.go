package explore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/atlasgraph/weaviate-atlas/internal/schema"
	"github.com/atlasgraph/weaviate-atlas/internal/weaviate"
)

// Resolver maps an optional caller-supplied collection name onto a live
// collection. It keeps its own short-TTL name cache on top of the schema
// cache so repeated tool calls do not hit upstream.
type Resolver struct {
	cache  *schema.Cache
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	names     []string
	fetchedAt time.Time
}

// NewResolver builds a resolver with its own name-cache TTL.
func NewResolver(cache *schema.Cache, ttl time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "resolver"),
	}
}

// Resolve returns the collection to query. An empty requested name resolves
// to the first available collection. An unknown name triggers exactly one
// forced schema refresh (to tolerate schema changes made after the cache was
// populated) before failing with the full list of known collections.
func (r *Resolver) Resolve(ctx context.Context, requested string) (string, error) {
	names, err := r.Collections(ctx)
	if err != nil {
		return "", err
	}

	if requested == "" {
		if len(names) == 0 {
			return "", fmt.Errorf("%w: no collections exist", weaviate.ErrClassNotFound)
		}
		r.logger.Debug("defaulting to first collection", "collection", names[0])
		return names[0], nil
	}

	if contains(names, requested) {
		return requested, nil
	}

	// The name may have been created after the cache was populated; refresh
	// once before giving up.
	r.logger.Debug("collection not in cached schema, forcing refresh", "collection", requested)
	names, err = r.refresh(ctx)
	if err != nil {
		return "", err
	}
	if contains(names, requested) {
		return requested, nil
	}

	return "", fmt.Errorf("%w: %q (known collections: %s)",
		weaviate.ErrClassNotFound, requested, strings.Join(names, ", "))
}

// Collections returns the live collection names, served from the resolver's
// own cache within its TTL.
func (r *Resolver) Collections(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	if r.names != nil && time.Since(r.fetchedAt) < r.ttl {
		names := r.names
		r.mu.Unlock()
		return names, nil
	}
	r.mu.Unlock()

	return r.fetch(ctx, false)
}

// refresh forces the underlying schema cache to refetch.
func (r *Resolver) refresh(ctx context.Context) ([]string, error) {
	return r.fetch(ctx, true)
}

func (r *Resolver) fetch(ctx context.Context, force bool) ([]string, error) {
	snap, err := r.cache.Get(ctx, force)
	if err != nil {
		return nil, err
	}
	names := snap.ClassNames()

	r.mu.Lock()
	r.names = names
	r.fetchedAt = time.Now()
	r.mu.Unlock()

	return names, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
