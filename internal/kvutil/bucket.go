// Package kvutil provides helpers for NATS JetStream KeyValue buckets.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultAttempts is the number of attempts EnsureBucket makes when none is given.
const DefaultAttempts = 3

// EnsureBucket returns the KV bucket named by config, creating it if needed.
//
// Every subsample invocation publishes its manifest to the same bucket, so two
// CLI runs started together (for example one per seed from a shell loop) both
// find the bucket missing and both try to create it. The loser sees
// jetstream.ErrBucketExists and opens the bucket the winner created. Any other
// failure is retried after 10ms, 20ms, 40ms, ...
//
// Parameters:
//   - ctx: Bounds every attempt and the waits between them
//   - js: JetStream context
//   - config: KV bucket configuration
//   - attempts: Maximum number of attempts (DefaultAttempts if <= 0)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket
//   - error: Last failure after all attempts, or the context error
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "subsample-runs",
//	    History: 5,
//	}, 3)
func EnsureBucket(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig, attempts int) (jetstream.KeyValue, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			if err := sleepCtx(ctx, backoff(attempt)); err != nil {
				return nil, fmt.Errorf("bucket %s: %w (last error: %w)", config.Bucket, err, lastErr)
			}
		}

		kv, err := createOrOpen(ctx, js, config)
		if err == nil {
			return kv, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("bucket %s: %w (last error: %w)", config.Bucket, ctx.Err(), lastErr)
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w", config.Bucket, attempts, lastErr)
}

func createOrOpen(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	kv, err := js.CreateKeyValue(ctx, config)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketExists) {
		return nil, err
	}

	kv, err = js.KeyValue(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket exists but failed to open: %w", err)
	}

	return kv, nil
}

// backoff returns the wait before the given attempt (attempt >= 1).
func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by the caller
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
