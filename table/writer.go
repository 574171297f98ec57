package table

import (
	"errors"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/arloliu/subsample/types"
)

// WriterOption configures a WriterSet.
type WriterOption func(*writerConfig)

type writerConfig struct {
	codec    compress.Codec
	metadata []KeyValue
}

// WithCompression sets the codec of every output file. The default is gzip.
func WithCompression(codec compress.Codec) WriterOption {
	return func(c *writerConfig) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithKeyValueMetadata copies key/value metadata into every output file footer.
func WithKeyValueMetadata(kv []KeyValue) WriterOption {
	return func(c *writerConfig) {
		c.metadata = append(c.metadata, kv...)
	}
}

// WriterSet owns one Parquet writer per partition for a single table pass.
//
// All writers share the input schema. Close finalizes every file exactly once,
// so a deferred Close leaves valid (possibly partial) outputs on every exit path.
type WriterSet struct {
	paths   []string
	files   []*os.File
	writers []*parquet.Writer
	written []int64
	closed  bool
}

// OpenWriterSet creates the n output files for base.
//
// Parameters:
//   - base: Output base path; partition i is written to PartitionPath(base, i)
//   - n: Number of partitions
//   - schema: Schema of every output file
//   - opts: Compression and metadata options
//
// Returns:
//   - *WriterSet: Open writers
//   - error: ErrSinkWrite when any file cannot be created; files already created are closed
//
// Example:
//
//	ws, err := table.OpenWriterSet("out/mentions.parquet", 2, r.Schema(),
//	    table.WithCompression(codec))
//	if err != nil { return err }
//	defer ws.Close()
func OpenWriterSet(base string, n int, schema *parquet.Schema, opts ...WriterOption) (*WriterSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: partition count must be positive, got %d", types.ErrInvalidConfiguration, n)
	}

	cfg := writerConfig{codec: &parquet.Gzip}
	for _, opt := range opts {
		opt(&cfg)
	}

	writerOpts := []parquet.WriterOption{schema, parquet.Compression(cfg.codec)}
	for _, kv := range cfg.metadata {
		writerOpts = append(writerOpts, parquet.KeyValueMetadata(kv.Key, kv.Value))
	}

	ws := &WriterSet{
		paths:   PartitionPaths(base, n),
		files:   make([]*os.File, 0, n),
		writers: make([]*parquet.Writer, 0, n),
		written: make([]int64, n),
	}

	for _, path := range ws.paths {
		f, err := os.Create(path)
		if err != nil {
			err = fmt.Errorf("%w: create %s: %w", types.ErrSinkWrite, path, err)

			return nil, errors.Join(err, ws.Close())
		}
		ws.files = append(ws.files, f)
		ws.writers = append(ws.writers, parquet.NewWriter(f, writerOpts...))
	}

	return ws, nil
}

// Len returns the number of partitions.
func (ws *WriterSet) Len() int {
	return len(ws.paths)
}

// Paths returns the output paths, index-aligned with partitions.
func (ws *WriterSet) Paths() []string {
	return ws.paths
}

// Written returns the number of rows written to each partition so far.
func (ws *WriterSet) Written() []int64 {
	out := make([]int64, len(ws.written))
	copy(out, ws.written)

	return out
}

// Write appends rows to partition i.
//
// Returns:
//   - error: ErrWriterClosed after Close, ErrPartitionOutOfRange for a bad index,
//     ErrSinkWrite when the writer fails
func (ws *WriterSet) Write(i int, rows []parquet.Row) error {
	if ws.closed {
		return types.ErrWriterClosed
	}
	if i < 0 || i >= len(ws.writers) {
		return fmt.Errorf("%w: %d not in [0, %d)", types.ErrPartitionOutOfRange, i, len(ws.writers))
	}
	if len(rows) == 0 {
		return nil
	}

	n, err := ws.writers[i].WriteRows(rows)
	ws.written[i] += int64(n)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrSinkWrite, ws.paths[i], err)
	}

	return nil
}

// Close flushes and closes every writer and file. Only the first call has effect.
//
// Every writer is closed even if an earlier one fails; all failures are joined.
func (ws *WriterSet) Close() error {
	if ws.closed {
		return nil
	}
	ws.closed = true

	var errs []error
	for i, f := range ws.files {
		if i < len(ws.writers) {
			if err := ws.writers[i].Close(); err != nil {
				errs = append(errs, fmt.Errorf("%w: finalize %s: %w", types.ErrSinkWrite, ws.paths[i], err))
			}
		}
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close %s: %w", types.ErrSinkWrite, ws.paths[i], err))
		}
	}

	return errors.Join(errs...)
}
