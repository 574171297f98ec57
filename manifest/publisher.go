package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/subsample/internal/kvutil"
	"github.com/arloliu/subsample/internal/logging"
	"github.com/arloliu/subsample/types"
)

// Key layout of the run bucket.
const (
	runKeyPrefix = "runs"
	latestKey    = "latest"
)

// DefaultBucket is the KV bucket used when none is configured.
const DefaultBucket = "subsample-runs"

// ErrNotFound is returned when a run is not present in the bucket.
var ErrNotFound = errors.New("manifest not found")

// Publisher publishes run manifests.
type Publisher interface {
	Publish(ctx context.Context, m *Manifest) error
}

// KVPublisher stores manifests in a NATS JetStream KV bucket.
//
// Each run is stored as JSON under "runs.<runId>"; "latest" holds the ID of
// the most recently published run.
type KVPublisher struct {
	kv     jetstream.KeyValue
	logger types.Logger
}

var _ Publisher = (*KVPublisher)(nil)

// NewKVPublisher creates a publisher over an existing bucket.
//
// Parameters:
//   - kv: NATS KV bucket
//   - logger: Logger (no-op if nil)
//
// Returns:
//   - *KVPublisher: Publisher ready to use
func NewKVPublisher(kv jetstream.KeyValue, logger types.Logger) *KVPublisher {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &KVPublisher{kv: kv, logger: logger}
}

// OpenKVPublisher creates or opens bucket and returns a publisher over it.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - bucket: Bucket name (DefaultBucket if empty)
//   - logger: Logger (no-op if nil)
//
// Returns:
//   - *KVPublisher: Publisher ready to use
//   - error: Bucket creation failure
//
// Example:
//
//	nc, _ := nats.Connect(url)
//	js, _ := jetstream.New(nc)
//	pub, err := manifest.OpenKVPublisher(ctx, js, "subsample-runs", logger)
//	if err != nil { return err }
//	err = pub.Publish(ctx, m)
func OpenKVPublisher(ctx context.Context, js jetstream.JetStream, bucket string, logger types.Logger) (*KVPublisher, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "subsample run manifests",
		History:     5,
	}, 3)
	if err != nil {
		return nil, err
	}

	return NewKVPublisher(kv, logger), nil
}

// KV returns the underlying bucket.
func (p *KVPublisher) KV() jetstream.KeyValue {
	return p.kv
}

// Publish stores m and marks it as the latest run.
func (p *KVPublisher) Publish(ctx context.Context, m *Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	key := kvutil.Key(runKeyPrefix, m.RunID)
	start := time.Now()
	rev, err := p.kv.Put(ctx, key, data)
	if err != nil {
		return fmt.Errorf("failed to publish manifest %s: %w", m.RunID, err)
	}
	if _, err := p.kv.PutString(ctx, latestKey, m.RunID); err != nil {
		return fmt.Errorf("failed to update latest run: %w", err)
	}

	p.logger.Info("manifest published",
		"bucket", p.kv.Bucket(),
		"key", key,
		"revision", rev,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Get returns the manifest of runID.
func (p *KVPublisher) Get(ctx context.Context, runID string) (*Manifest, error) {
	entry, err := p.kv.Get(ctx, kvutil.Key(runKeyPrefix, runID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: run %s", ErrNotFound, runID)
		}

		return nil, fmt.Errorf("failed to get manifest %s: %w", runID, err)
	}

	var m Manifest
	if err := json.Unmarshal(entry.Value(), &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", runID, err)
	}

	return &m, nil
}

// Latest returns the most recently published manifest.
func (p *KVPublisher) Latest(ctx context.Context) (*Manifest, error) {
	entry, err := p.kv.Get(ctx, latestKey)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: no runs published", ErrNotFound)
		}

		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	return p.Get(ctx, string(entry.Value()))
}
