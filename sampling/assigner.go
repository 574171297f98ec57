package sampling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/subsample/registry"
	"github.com/arloliu/subsample/table"
	"github.com/arloliu/subsample/types"
)

// Stats summarizes one Assign call.
type Stats struct {
	RowsScanned int64 // Rows read from the primary table
	Qualifying  int64 // Rows whose flag was true
	Unsampled   int64 // Qualifiers that joined no partition
	Sizes       []int // Members per partition
	Digest      uint64
}

// Assigner builds the partition registry from the primary table.
//
// An Assigner holds no generator state between calls: every Assign starts a
// fresh drawer from the configured strategy and seed, so repeated calls over
// the same input give identical registries.
type Assigner struct {
	Config

	thresholds []float64
	stats      Stats
}

// NewAssigner creates an assigner with validated configuration.
//
// Parameters:
//   - cfg: Assigner configuration (Fractions must be set)
//
// Returns:
//   - *Assigner: Assigner ready to scan
//   - error: ErrInvalidConfiguration (wrapped) if the partition spec is invalid
//
// Example:
//
//	a, err := sampling.NewAssigner(&sampling.Config{
//	    Fractions: []float64{0.01, 0.05},
//	    Seed:      42,
//	    Logger:    logger,
//	})
//	if err != nil {
//	    return err
//	}
//	reg, err := a.Assign(ctx, reader)
func NewAssigner(cfg *Config) (*Assigner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.SetDefaults()

	thresholds, err := Thresholds(cfg.Fractions)
	if err != nil {
		return nil, err
	}

	return &Assigner{
		Config:     *cfg,
		thresholds: thresholds,
	}, nil
}

// Thresholds returns the cumulative thresholds derived from the partition spec.
func (a *Assigner) Thresholds() []float64 {
	out := make([]float64, len(a.thresholds))
	copy(out, a.thresholds)

	return out
}

// Stats returns the statistics of the last successful Assign.
func (a *Assigner) Stats() Stats {
	return a.stats
}

// Assign scans the primary table and returns the frozen partition registry.
//
// Rows are visited in reader order. A row qualifies when its flag column is
// true; null flags count as false. Each qualifier draws exactly one value. Rows
// with a null identifier are counted but never assigned, and still consume a
// draw when flagged so that later rows keep their positions in the sequence.
//
// Parameters:
//   - ctx: Cancellation is checked between batches
//   - r: Primary table reader; consumed but not closed
//
// Returns:
//   - *registry.Registry: Frozen registry with one set per fraction
//   - error: ErrSchemaMismatch or ErrSourceRead wrapped in *types.TableError; no
//     registry is returned on error
func (a *Assigner) Assign(ctx context.Context, r *table.Reader) (*registry.Registry, error) {
	start := time.Now()

	idCol, err := table.IDColumn(r.Schema(), a.IDColumn)
	if err != nil {
		return nil, types.NewTableError(a.Table, r.Path(), -1, err)
	}
	flagCol, err := table.FlagColumn(r.Schema(), a.FlagColumn)
	if err != nil {
		return nil, types.NewTableError(a.Table, r.Path(), -1, err)
	}

	reg, err := registry.New(len(a.thresholds))
	if err != nil {
		return nil, err
	}

	drawer := a.Strategy.NewDrawer(a.Seed)
	stats := Stats{}
	nullIDs := int64(0)

	for {
		offset := r.Offset()
		rows, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, types.NewTableError(a.Table, r.Path(), offset, err)
		}

		stats.RowsScanned += int64(len(rows))
		for _, row := range rows {
			if !flagCol.Bool(row) {
				continue
			}
			stats.Qualifying++

			id, ok := idCol.Int64(row)
			u := drawer.Draw(id)
			if !ok {
				nullIDs++
				stats.Unsampled++

				continue
			}

			i := Bucket(u, a.thresholds)
			if i < 0 {
				stats.Unsampled++

				continue
			}
			if err := reg.Add(i, id); err != nil {
				return nil, err
			}
		}

		a.Logger.Debug("primary batch assigned", "table", a.Table, "offset", offset, "rows", len(rows))
	}

	reg.Freeze()
	stats.Sizes = reg.Sizes()
	stats.Digest = reg.Digest()
	a.stats = stats

	if nullIDs > 0 {
		a.Logger.Warn("qualifying rows with null identifier skipped", "table", a.Table, "rows", nullIDs)
	}

	a.Metrics.RecordPrimaryScan(stats.RowsScanned, stats.Qualifying)
	for i, size := range stats.Sizes {
		a.Metrics.RecordPartitionSize(i, size)
	}
	a.Metrics.RecordAssignDuration(time.Since(start).Seconds())

	a.Logger.Info("partition assignment complete",
		"table", a.Table,
		"strategy", a.Strategy.Name(),
		"seed", a.Seed,
		"rows", stats.RowsScanned,
		"qualifying", stats.Qualifying,
		"unsampled", stats.Unsampled,
		"sizes", stats.Sizes,
		"digest", fmt.Sprintf("%016x", stats.Digest),
	)

	return reg, nil
}
