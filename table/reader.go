package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/arloliu/subsample/types"
)

// DefaultBatchSize is the number of rows requested per batch.
const DefaultBatchSize = 1 << 20

// maxEmptyReads bounds consecutive ReadRows calls that return no rows and no error.
const maxEmptyReads = 100

// KeyValue is one entry of a file's key/value metadata.
type KeyValue struct {
	Key   string
	Value string
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithBatchSize sets the maximum number of rows returned by Next.
// Non-positive values are ignored.
func WithBatchSize(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithMetadata sets the key/value metadata reported by Metadata.
func WithMetadata(kv []KeyValue) ReaderOption {
	return func(r *Reader) {
		r.metadata = kv
	}
}

// WithPath sets the path reported by Path.
func WithPath(path string) ReaderOption {
	return func(r *Reader) {
		r.path = path
	}
}

// WithCloser registers a resource released by Close.
func WithCloser(c io.Closer) ReaderOption {
	return func(r *Reader) {
		r.closers = append(r.closers, c)
	}
}

// Reader streams a table as a sequence of row batches.
//
// The sequence is lazy, single pass and not restartable. Rows returned by Next
// stay valid only until the following call to Next.
type Reader struct {
	path      string
	rows      parquet.RowReader
	schema    *parquet.Schema
	metadata  []KeyValue
	numRows   int64
	batchSize int
	buf       []parquet.Row
	offset    int64
	done      bool
	closers   []io.Closer
	closed    bool
}

// NewReader creates a Reader over any row source.
//
// Parameters:
//   - rows: Source of rows conforming to schema
//   - schema: Table schema
//   - opts: Optional batch size, metadata and closers
//
// Returns:
//   - *Reader: Reader positioned at the first row
func NewReader(rows parquet.RowReader, schema *parquet.Schema, opts ...ReaderOption) *Reader {
	r := &Reader{
		rows:      rows,
		schema:    schema,
		numRows:   -1,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Open opens a Parquet file for streaming.
//
// Only the footer is read here; row data is read batch by batch by Next.
//
// Returns:
//   - *Reader: Reader positioned at the first row
//   - error: os.ErrNotExist (wrapped) when the file is missing, ErrSourceRead otherwise
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", types.ErrSourceRead, err)
	}

	r, err := openFile(f, opts)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	return r, nil
}

func openFile(f *os.File, opts []ReaderOption) (*Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", types.ErrSourceRead, f.Name(), err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrSourceRead, f.Name(), err)
	}

	var metadata []KeyValue
	for _, kv := range pf.Metadata().KeyValueMetadata {
		metadata = append(metadata, KeyValue{Key: kv.Key, Value: kv.Value})
	}

	pr := parquet.NewReader(pf)
	opts = append([]ReaderOption{WithPath(f.Name()), WithMetadata(metadata), WithCloser(pr), WithCloser(f)}, opts...)

	r := NewReader(pr, pf.Schema(), opts...)
	r.numRows = pf.NumRows()

	return r, nil
}

// Path returns the file path, or "" for readers not backed by a file.
func (r *Reader) Path() string {
	return r.path
}

// Schema returns the table schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.schema
}

// Metadata returns the file's key/value metadata.
func (r *Reader) Metadata() []KeyValue {
	return r.metadata
}

// NumRows returns the row count from the file footer, or -1 when unknown.
func (r *Reader) NumRows() int64 {
	return r.numRows
}

// Offset returns the number of rows returned so far, which is the zero-based
// position of the next batch's first row.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Next returns the next batch of at most the configured batch size.
//
// Parameters:
//   - ctx: Checked before each read; cancellation returns ctx.Err()
//
// Returns:
//   - []parquet.Row: Non-empty batch
//   - error: io.EOF when exhausted, ErrSourceRead on read failure or when the
//     row source stops making progress (wraps io.ErrNoProgress)
func (r *Reader) Next(ctx context.Context) ([]parquet.Row, error) {
	if r.done || r.closed {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.buf == nil {
		r.buf = make([]parquet.Row, r.batchSize)
	}

	for range maxEmptyReads {
		n, err := r.rows.ReadRows(r.buf)
		r.offset += int64(n)
		if err != nil && !errors.Is(err, io.EOF) {
			r.done = true

			return nil, fmt.Errorf("%w: %w", types.ErrSourceRead, err)
		}
		if errors.Is(err, io.EOF) {
			r.done = true
		}
		if n > 0 {
			return r.buf[:n], nil
		}
		if r.done {
			return nil, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	r.done = true

	return nil, fmt.Errorf("%w: %d consecutive empty reads: %w", types.ErrSourceRead, maxEmptyReads, io.ErrNoProgress)
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
