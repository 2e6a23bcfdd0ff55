package weaviate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	wvt "github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/atlasgraph/weaviate-atlas/internal/config"
)

const (
	maxRetryBackoff = 5 * time.Second
	retryJitter     = 0.25
)

// Client implements Store on top of the official Weaviate Go client,
// adding per-request timeouts and retry with exponential backoff.
type Client struct {
	api     *wvt.Client
	logger  *slog.Logger
	retries int
	backoff time.Duration
	timeout time.Duration
}

// NewClient builds a Client from the application config. It does not
// contact the server; the first request does.
func NewClient(cfg config.WeaviateConfig, logger *slog.Logger) (*Client, error) {
	wcfg := wvt.Config{
		Host:   cfg.Host,
		Scheme: cfg.Scheme,
	}
	if key := cfg.ResolveAPIKey(); key != "" {
		wcfg.AuthConfig = auth.ApiKey{Value: key}
	}

	api, err := wvt.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	return &Client{
		api:     api,
		logger:  logger.With("component", "weaviate_store"),
		retries: cfg.RetryAttempts,
		backoff: time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// LiveSchema fetches every class definition from the upstream instance.
func (c *Client) LiveSchema(ctx context.Context) ([]*models.Class, error) {
	var classes []*models.Class
	err := c.do(ctx, "schema_dump", func(ctx context.Context) error {
		dump, err := c.api.Schema().Getter().Do(ctx)
		if err != nil {
			return err
		}
		classes = dump.Classes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// ClassSchema fetches one class definition by exact name.
func (c *Client) ClassSchema(ctx context.Context, name string) (*models.Class, error) {
	var class *models.Class
	err := c.do(ctx, "class_get", func(ctx context.Context) error {
		got, err := c.api.Schema().ClassGetter().WithClassName(name).Do(ctx)
		if err != nil {
			return err
		}
		class = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

// Search runs a GraphQL Get query described by req.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*models.GraphQLResponse, error) {
	c.logger.Debug("running search",
		"class", req.Class,
		"hybrid", req.Hybrid,
		"limit", req.Limit,
		"fields", fieldNames(req.Fields))

	var resp *models.GraphQLResponse
	err := c.do(ctx, "graphql_get", func(ctx context.Context) error {
		builder := c.api.GraphQL().Get().
			WithClassName(req.Class).
			WithFields(req.Fields...)
		if req.Hybrid {
			hybrid := c.api.GraphQL().HybridArgumentBuilder().WithQuery(req.Query)
			builder = builder.WithHybrid(hybrid)
		}
		if req.Limit > 0 {
			builder = builder.WithLimit(req.Limit)
		}
		got, err := builder.Do(ctx)
		if err != nil {
			return err
		}
		resp = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// do executes fn with a per-attempt timeout and retries transient failures
// with exponential backoff plus jitter.
func (c *Client) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("retrying weaviate request",
				"op", op,
				"attempt", attempt,
				"backoff_ms", backoff.Milliseconds())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if c.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
	}

	wrapped := wrapUpstreamError(lastErr)
	c.logger.Warn("weaviate request failed", "op", op, "error", wrapped)
	return wrapped
}

// calculateBackoff returns exponential backoff with jitter for an attempt.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.backoff * time.Duration(1<<attempt)
	if backoff > maxRetryBackoff {
		backoff = maxRetryBackoff
	}

	jitterRange := float64(backoff) * retryJitter
	jitter := (rand.Float64()*2 - 1) * jitterRange
	backoff = time.Duration(float64(backoff) + jitter)

	if backoff < 0 {
		backoff = c.backoff
	}
	return backoff
}

var _ Store = (*Client)(nil)

// fieldNames is a debugging helper that flattens a selection set.
func fieldNames(fields []graphql.Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}
