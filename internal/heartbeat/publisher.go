package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/subsample/internal/kvutil"
	"github.com/arloliu/subsample/internal/logging"
	"github.com/arloliu/subsample/types"
)

// Common errors for heartbeat operations.
var (
	ErrNotStarted     = errors.New("publisher not started")
	ErrAlreadyStarted = errors.New("publisher already started")
	ErrNoRunID        = errors.New("run ID not set")
)

// DefaultPrefix is the key prefix for run heartbeats.
const DefaultPrefix = "running"

// Status is the value stored under a run's heartbeat key.
type Status struct {
	RunID     string    `json:"runId"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Publisher publishes periodic run heartbeats to NATS KV.
//
// A Publisher serves a single run: once stopped it cannot be restarted.
type Publisher struct {
	kv       jetstream.KeyValue
	prefix   string
	interval time.Duration
	logger   types.Logger

	mu        sync.Mutex
	runID     string
	stage     string
	startedAt time.Time
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	ticker    *time.Ticker
}

// New creates a new heartbeat publisher.
//
// Parameters:
//   - kv: JetStream KV bucket for heartbeat storage
//   - prefix: Key prefix for heartbeat keys (default: DefaultPrefix)
//   - interval: Heartbeat interval
//   - logger: Logger for publish failures (nil discards)
//
// Returns:
//   - *Publisher: New heartbeat publisher instance
func New(kv jetstream.KeyValue, prefix string, interval time.Duration, logger types.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Publisher{
		kv:       kv,
		prefix:   prefix,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins publishing heartbeats for runID in the background.
//
// Publishes the first heartbeat immediately, then at regular intervals.
// Continues until Stop() is called.
//
// Parameters:
//   - ctx: Context for the initial publish
//   - runID: Identifier of the run
//
// Returns:
//   - error: ErrAlreadyStarted if already running, ErrNoRunID if runID is empty
func (p *Publisher) Start(ctx context.Context, runID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	if runID == "" {
		return ErrNoRunID
	}

	p.runID = runID
	p.startedAt = time.Now().UTC()
	p.stage = "starting"

	if err := p.publish(ctx, p.status()); err != nil {
		return fmt.Errorf("failed to publish initial heartbeat: %w", err)
	}

	p.started = true
	p.ticker = time.NewTicker(p.interval)

	go p.publishLoop()

	return nil
}

// SetStage records the current stage; it is published with the next heartbeat.
func (p *Publisher) SetStage(stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage = stage
}

// Stop stops the heartbeat publisher and deletes the heartbeat entry from KV.
//
// Blocks until the publisher goroutine exits and cleanup completes.
//
// Returns:
//   - error: ErrNotStarted if not running, or cleanup error if delete fails
func (p *Publisher) Stop() error {
	p.mu.Lock()

	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}

	p.ticker.Stop()
	close(p.stopCh)
	p.started = false

	p.mu.Unlock()

	<-p.doneCh

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.kv.Delete(ctx, p.key()); err != nil {
		return fmt.Errorf("stopped but failed to delete heartbeat: %w", err)
	}

	return nil
}

func (p *Publisher) publishLoop() {
	defer close(p.doneCh)

	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			p.mu.Lock()
			status := p.status()
			p.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := p.publish(ctx, status)
			cancel()

			if err != nil {
				p.logger.Warn("heartbeat publish failed", "runId", status.RunID, "error", err)
			}
		}
	}
}

// status must be called with mu held.
func (p *Publisher) status() Status {
	return Status{
		RunID:     p.runID,
		Stage:     p.stage,
		StartedAt: p.startedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, s Status) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if _, err := p.kv.Put(ctx, kvutil.Key(p.prefix, s.RunID), data); err != nil {
		return fmt.Errorf("failed to publish heartbeat for %s: %w", s.RunID, err)
	}

	return nil
}

func (p *Publisher) key() string {
	return kvutil.Key(p.prefix, p.runID)
}

// Read returns the heartbeat status of runID.
//
// Returns:
//   - Status: Last published status
//   - error: jetstream.ErrKeyNotFound (wrapped) when the run is not in progress
func Read(ctx context.Context, kv jetstream.KeyValue, prefix, runID string) (Status, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	entry, err := kv.Get(ctx, kvutil.Key(prefix, runID))
	if err != nil {
		return Status{}, fmt.Errorf("failed to read heartbeat for %s: %w", runID, err)
	}

	var s Status
	if err := json.Unmarshal(entry.Value(), &s); err != nil {
		return Status{}, fmt.Errorf("failed to decode heartbeat for %s: %w", runID, err)
	}

	return s, nil
}

// RunID returns the run being reported.
func (p *Publisher) RunID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.runID
}

// IsStarted returns whether the publisher is currently running.
//
// Returns:
//   - bool: true if started, false otherwise
func (p *Publisher) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started
}
