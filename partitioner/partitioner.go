package partitioner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/arloliu/subsample/internal/hooks"
	"github.com/arloliu/subsample/internal/logging"
	"github.com/arloliu/subsample/internal/metrics"
	"github.com/arloliu/subsample/registry"
	"github.com/arloliu/subsample/table"
	"github.com/arloliu/subsample/types"
)

// Partitioner routes table rows into one output file per registry partition.
//
// The registry is only read, so one Partitioner (or several sharing a
// registry) may run passes for different tables concurrently.
type Partitioner struct {
	reg  *registry.Registry
	opts options
}

// New creates a partitioner for a frozen registry.
//
// Parameters:
//   - reg: Registry built by the assigner; must be frozen
//   - opts: Optional configuration
//
// Returns:
//   - *Partitioner: Partitioner ready to run passes
//   - error: ErrInvalidConfiguration if reg is nil or still writable
//
// Example:
//
//	p, err := partitioner.New(reg,
//	    partitioner.WithIDColumn("paper_id"),
//	    partitioner.WithLogger(logger),
//	)
//	if err != nil { return err }
//	summary, err := p.Partition(ctx, "mentions", "in/mentions.parquet", "out/mentions.parquet")
func New(reg *registry.Registry, opts ...Option) (*Partitioner, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: registry is required", types.ErrInvalidConfiguration)
	}
	if !reg.Frozen() {
		return nil, fmt.Errorf("%w: registry must be frozen before partitioning", types.ErrInvalidConfiguration)
	}

	o := options{
		idColumn:  DefaultIDColumn,
		batchSize: table.DefaultBatchSize,
		codec:     &parquet.Gzip,
		opener:    table.Open,
		logger:    logging.NewNop(),
		metrics:   metrics.NewNop(),
		hooks:     hooks.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Partitioner{reg: reg, opts: o}, nil
}

// Partition streams one table into its per-partition output files.
//
// A missing input is not an error: the pass is skipped, a warning wrapping
// ErrMissingOptionalInput is logged and passed to the OnWarning hook, and the
// summary is returned with Skipped set and no outputs created.
//
// Parameters:
//   - ctx: Cancellation is checked between batches
//   - tableName: Logical table name used in logs, metrics and errors
//   - inputPath: Input file path
//   - outputBasePath: Base path; partition i is written to table.PartitionPath(outputBasePath, i)
//
// Returns:
//   - types.TableSummary: Outcome of the pass; partially filled on error
//   - error: *types.TableError wrapping ErrSchemaMismatch, ErrSourceRead or
//     ErrSinkWrite, joined with any error from closing the outputs
func (p *Partitioner) Partition(ctx context.Context, tableName, inputPath, outputBasePath string) (summary types.TableSummary, err error) {
	start := time.Now()
	summary = types.TableSummary{Table: tableName, Input: inputPath}

	defer func() {
		p.opts.metrics.RecordTableDuration(tableName, time.Since(start).Seconds(), err == nil)
		if err == nil {
			if herr := p.opts.hooks.OnTablePartitioned(ctx, summary); herr != nil {
				p.opts.logger.Warn("table partitioned hook failed", "table", tableName, "error", herr)
			}
		}
	}()

	r, err := p.opts.opener(inputPath, table.WithBatchSize(p.opts.batchSize))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.skip(ctx, &summary)

			return summary, nil
		}

		return summary, types.NewTableError(tableName, inputPath, -1, err)
	}
	defer r.Close()

	idCol, err := table.IDColumn(r.Schema(), p.opts.idColumn)
	if err != nil {
		return summary, types.NewTableError(tableName, inputPath, -1, err)
	}

	ws, err := table.OpenWriterSet(outputBasePath, p.reg.Len(), r.Schema(),
		table.WithCompression(p.opts.codec),
		table.WithKeyValueMetadata(r.Metadata()),
	)
	if err != nil {
		return summary, types.NewTableError(tableName, inputPath, -1, err)
	}
	summary.Outputs = ws.Paths()

	defer func() {
		if cerr := ws.Close(); cerr != nil {
			err = errors.Join(err, types.NewTableError(tableName, inputPath, -1, cerr))
		}
		summary.RowsWritten = ws.Written()
	}()

	p.opts.logger.Debug("partitioning table",
		"table", tableName,
		"input", inputPath,
		"rows", r.NumRows(),
		"partitions", p.reg.Len(),
	)

	if err := p.route(ctx, tableName, r, idCol, ws, &summary); err != nil {
		return summary, types.NewTableError(tableName, inputPath, summary.RowsRead, err)
	}

	p.opts.logger.Info("table partitioned",
		"table", tableName,
		"rows", summary.RowsRead,
		"written", ws.Written(),
		"dropped", summary.RowsDropped,
	)

	return summary, nil
}

// route streams r into ws. Per-partition buffers are flushed at every batch
// boundary, so rows never outlive the batch they were read in.
func (p *Partitioner) route(ctx context.Context, tableName string, r *table.Reader, idCol table.Column, ws *table.WriterSet, summary *types.TableSummary) error {
	buckets := make([][]parquet.Row, p.reg.Len())

	for {
		rows, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		for i := range buckets {
			buckets[i] = buckets[i][:0]
		}

		dropped := 0
		for _, row := range rows {
			id, ok := idCol.Int64(row)
			if !ok {
				dropped++

				continue
			}
			i, ok := p.reg.Lookup(id)
			if !ok {
				dropped++

				continue
			}
			buckets[i] = append(buckets[i], row)
		}

		for i, bucket := range buckets {
			if err := ws.Write(i, bucket); err != nil {
				return err
			}
			if len(bucket) > 0 {
				p.opts.metrics.RecordRowsWritten(tableName, i, len(bucket))
			}
		}

		summary.RowsRead += int64(len(rows))
		summary.RowsDropped += int64(dropped)
		p.opts.metrics.RecordRowsRead(tableName, len(rows))
		p.opts.metrics.RecordRowsDropped(tableName, dropped)
	}
}

// Skip records a pass over a table known to have no input, without opening
// anything. It reports the same warning, metric and hooks as a Partition call
// whose input is missing.
//
// Parameters:
//   - ctx: Passed to the hooks
//   - tableName: Logical table name
//   - inputPath: Path the source resolved, or empty if none
//
// Returns:
//   - types.TableSummary: Summary with Skipped and Warning set
func (p *Partitioner) Skip(ctx context.Context, tableName, inputPath string) types.TableSummary {
	summary := types.TableSummary{Table: tableName, Input: inputPath}
	p.skip(ctx, &summary)

	if herr := p.opts.hooks.OnTablePartitioned(ctx, summary); herr != nil {
		p.opts.logger.Warn("table partitioned hook failed", "table", tableName, "error", herr)
	}

	return summary
}

func (p *Partitioner) skip(ctx context.Context, summary *types.TableSummary) {
	warn := types.MissingInputError(summary.Table, summary.Input)

	summary.Skipped = true
	summary.Warning = warn.Error()

	p.opts.logger.Warn("input missing, skipping table", "table", summary.Table, "input", summary.Input)
	p.opts.metrics.RecordTableSkipped(summary.Table)

	if herr := p.opts.hooks.OnWarning(ctx, warn); herr != nil {
		p.opts.logger.Warn("warning hook failed", "table", summary.Table, "error", herr)
	}
}
