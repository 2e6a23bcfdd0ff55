package weaviate

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/fault"
)

var (
	// ErrUnavailable is returned when Weaviate is not reachable.
	ErrUnavailable = errors.New("weaviate is not available")

	// ErrConnectionTimeout is returned when a request to Weaviate times out.
	ErrConnectionTimeout = errors.New("weaviate connection timeout")

	// ErrClassNotFound is returned when a class does not exist upstream.
	ErrClassNotFound = errors.New("class not found")
)

// isRetryable determines if an error is worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancelled - not retryable
	if errors.Is(err, context.Canceled) {
		return false
	}

	// Timeout - retryable
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Connection errors (OpError) - retryable (server might be starting/restarting)
	// Check this first since net.OpError implements net.Error
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// Other network errors - retryable if timeout
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	// Server-side failures are retryable; client errors (4xx) are not
	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode >= 500 || clientErr.StatusCode == 0
	}

	// Default: not retryable (likely application error)
	return false
}

// wrapUpstreamError maps low-level failures onto the package sentinels so
// callers can classify them with errors.Is.
func wrapUpstreamError(err error) error {
	if err == nil {
		return nil
	}

	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) {
		switch {
		case clientErr.StatusCode == 404:
			return fmt.Errorf("%w: %v", ErrClassNotFound, err)
		case clientErr.StatusCode >= 500 || clientErr.StatusCode == 0:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConnectionTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrConnectionTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return fmt.Errorf("weaviate error: %w", err)
}
