package crawl

import (
	"context"
	"time"

	"github.com/docmill/docmill"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*docmill.FetchResult, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries:
// 2 retries with linear backoff (1s, 2s).
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// FetchWithRetry attempts a fetch with bounded retries. Only
// network-class failures (timeout, connection) retry; a non-success
// HTTP status is terminal for the attempt. The logger, if provided, is
// called per retry.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (*docmill.FetchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastRes *docmill.FetchResult
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastRes, lastErr = res, err

		if !docmill.IsRetryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastRes, lastErr
}
