package partitioner

import (
	"github.com/parquet-go/parquet-go/compress"

	"github.com/arloliu/subsample/internal/hooks"
	"github.com/arloliu/subsample/table"
	"github.com/arloliu/subsample/types"
)

// DefaultIDColumn is the identifier column used when none is configured.
const DefaultIDColumn = "paper_id"

// Opener opens an input table for streaming.
type Opener func(path string, opts ...table.ReaderOption) (*table.Reader, error)

// Option configures a Partitioner.
type Option func(*options)

type options struct {
	idColumn  string
	batchSize int
	codec     compress.Codec
	opener    Opener
	logger    types.Logger
	metrics   types.PartitionerMetrics
	hooks     types.Hooks
}

// WithIDColumn sets the identifier column used for routing.
func WithIDColumn(name string) Option {
	return func(o *options) {
		if name != "" {
			o.idColumn = name
		}
	}
}

// WithBatchSize sets the number of rows read per batch.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithCompression sets the codec of the output files.
func WithCompression(codec compress.Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithOpener replaces the function used to open input tables.
func WithOpener(open Opener) Option {
	return func(o *options) {
		if open != nil {
			o.opener = open
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger types.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets a metrics collector.
func WithMetrics(m types.PartitionerMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithHooks sets lifecycle hooks. Nil callbacks are replaced with no-ops.
func WithHooks(h *types.Hooks) Option {
	return func(o *options) {
		o.hooks = hooks.Fill(h)
	}
}
