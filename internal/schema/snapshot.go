package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/atlasgraph/weaviate-atlas/internal/weaviate"
)

// Cache is a time-bounded snapshot of the upstream schema. Reads are
// lock-free; a refresh replaces the snapshot pointer atomically so readers
// never observe a partially updated schema. Concurrent refreshes are
// coalesced into a single upstream fetch.
type Cache struct {
	store   weaviate.Store
	ttl     time.Duration
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
	group   singleflight.Group
}

// NewCache builds a schema cache over the given store. ttl bounds how long
// a snapshot is served without refetching.
func NewCache(store weaviate.Store, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "schema_cache"),
	}
}

// Get returns the current snapshot, refreshing it from upstream when forced
// or when the cached one is older than the TTL. Returns
// weaviate.ErrUnavailable (wrapped) when the store cannot be reached;
// callers that only need best-effort schema must absorb that and continue
// without one.
func (c *Cache) Get(ctx context.Context, force bool) (*Snapshot, error) {
	if !force {
		if snap := c.current.Load(); snap != nil && time.Since(snap.FetchedAt) < c.ttl {
			return snap, nil
		}
	}
	return c.refresh(ctx)
}

// refresh fetches the full schema, replacing the cached snapshot. Concurrent
// callers share one upstream fetch.
func (c *Cache) refresh(ctx context.Context) (*Snapshot, error) {
	v, err, shared := c.group.Do("schema", func() (any, error) {
		classes, err := c.store.LiveSchema(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh schema: %w", err)
		}
		snap := &Snapshot{
			Classes:   FromModels(classes),
			FetchedAt: time.Now(),
		}
		c.current.Store(snap)
		c.logger.Debug("schema refreshed", "classes", len(snap.Classes))
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("schema refresh coalesced")
	}
	return v.(*Snapshot), nil
}

// Class fetches one class definition directly from upstream, bypassing the
// snapshot. Returns weaviate.ErrClassNotFound (wrapped) when the class does
// not exist.
func (c *Cache) Class(ctx context.Context, name string) (ClassSchema, error) {
	mc, err := c.store.ClassSchema(ctx, name)
	if err != nil {
		return ClassSchema{}, err
	}
	if mc == nil {
		return ClassSchema{}, fmt.Errorf("%w: %s", weaviate.ErrClassNotFound, name)
	}
	return classFromModel(mc), nil
}
