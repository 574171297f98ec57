package subsample

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/subsample/manifest"
)

// Option configures a Runner with optional dependencies.
type Option func(*runnerOptions)

// runnerOptions holds optional Runner configuration.
type runnerOptions struct {
	source    TableSource
	strategy  DrawStrategy
	publisher manifest.Publisher
	heartbeat *heartbeatOptions
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
}

// WithSource sets the table source.
//
// Parameters:
//   - src: TableSource implementation (default: source.Directory over InputDirectory)
//
// Returns:
//   - Option: Functional option for NewRunner
//
// Example:
//
//	src := source.NewStatic(map[string]string{"papers": "/archive/papers.parquet"})
//	runner, err := subsample.NewRunner(&cfg, subsample.WithSource(src))
func WithSource(src TableSource) Option {
	return func(o *runnerOptions) {
		o.source = src
	}
}

// WithStrategy sets the draw strategy, overriding Config.Strategy.
//
// Parameters:
//   - s: DrawStrategy implementation
//
// Returns:
//   - Option: Functional option for NewRunner
func WithStrategy(s DrawStrategy) Option {
	return func(o *runnerOptions) {
		o.strategy = s
	}
}

// WithPublisher publishes the run manifest after a successful run.
//
// Parameters:
//   - p: Publisher such as manifest.KVPublisher
//
// Returns:
//   - Option: Functional option for NewRunner
func WithPublisher(p manifest.Publisher) Option {
	return func(o *runnerOptions) {
		o.publisher = p
	}
}

type heartbeatOptions struct {
	kv       jetstream.KeyValue
	interval time.Duration
}

// WithHeartbeat publishes run progress to kv while Run is in progress.
//
// The entry "running.<runId>" holds the current stage and is refreshed every
// interval; it is deleted when Run returns. Heartbeat failures are logged and
// never fail the run.
//
// Parameters:
//   - kv: KV bucket, typically the manifest bucket (see manifest.KVPublisher.KV)
//   - interval: Refresh interval (default: 5s if <= 0)
//
// Returns:
//   - Option: Functional option for NewRunner
func WithHeartbeat(kv jetstream.KeyValue, interval time.Duration) Option {
	return func(o *runnerOptions) {
		if interval <= 0 {
			interval = 5 * time.Second
		}
		o.heartbeat = &heartbeatOptions{kv: kv, interval: interval}
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewRunner
//
// Example:
//
//	hooks := &subsample.Hooks{
//	    OnWarning: func(ctx context.Context, err error) error {
//	        alerts.Send(err.Error())
//	        return nil
//	    },
//	}
//	runner, err := subsample.NewRunner(&cfg, subsample.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *runnerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewRunner
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *runnerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewRunner
func WithLogger(logger Logger) Option {
	return func(o *runnerOptions) {
		o.logger = logger
	}
}
