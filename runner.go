package subsample

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go/compress"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/subsample/internal/heartbeat"
	"github.com/arloliu/subsample/internal/hooks"
	"github.com/arloliu/subsample/internal/logging"
	"github.com/arloliu/subsample/internal/metrics"
	"github.com/arloliu/subsample/manifest"
	"github.com/arloliu/subsample/partitioner"
	"github.com/arloliu/subsample/registry"
	"github.com/arloliu/subsample/sampling"
	"github.com/arloliu/subsample/source"
	"github.com/arloliu/subsample/strategy"
	"github.com/arloliu/subsample/table"
	"github.com/arloliu/subsample/types"
)

// Result is the outcome of a successful run.
type Result struct {
	// Manifest records the run. It is written to disk when Config.Manifest.Enabled.
	Manifest *manifest.Manifest

	// Registry holds the frozen partition membership.
	Registry *registry.Registry

	// Tables holds one summary per table: the primary first, then dependents in
	// configuration order.
	Tables []TableSummary

	// Warnings holds non-fatal conditions, such as skipped dependent tables.
	Warnings []error
}

// Runner executes subsampling runs.
//
// A Runner is immutable after NewRunner; Run may be called repeatedly and
// each call starts from a fresh draw sequence.
type Runner struct {
	cfg       Config
	source    TableSource
	strategy  DrawStrategy
	codec     compress.Codec
	publisher manifest.Publisher
	heartbeat *heartbeatOptions
	hooks     Hooks
	metrics   MetricsCollector
	logger    Logger
}

// NewRunner creates a runner with validated configuration.
//
// Parameters:
//   - cfg: Run configuration (missing values are filled with defaults)
//   - opts: Optional dependencies (source, strategy, publisher, hooks, metrics, logger)
//
// Returns:
//   - *Runner: Runner ready to use
//   - error: ErrInvalidConfiguration (wrapped) for an invalid configuration
//
// Example:
//
//	cfg := subsample.DefaultConfig()
//	cfg.InputDirectory = "/data/full"
//	cfg.OutputDirectory = "/data/sample"
//	runner, err := subsample.NewRunner(&cfg, subsample.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewRunner(cfg *Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfiguration)
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &runnerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	drawStrategy := options.strategy
	if drawStrategy == nil {
		s, err := strategy.Parse(cfg.Strategy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		drawStrategy = s
	}

	tableSource := options.source
	if tableSource == nil {
		tableSource = source.NewDirectory(cfg.InputDirectory, cfg.Extension)
	}

	codec, err := table.ParseCompression(cfg.Compression, cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:       *cfg,
		source:    tableSource,
		strategy:  drawStrategy,
		codec:     codec,
		publisher: options.publisher,
		heartbeat: options.heartbeat,
		hooks:     hooks.Fill(options.hooks),
		metrics:   metricsCollector,
		logger:    loggerInstance,
	}, nil
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run executes one subsampling run.
//
// The primary table is scanned to build the registry, then partitioned itself,
// then every dependent table is partitioned (up to Config.Concurrency at once).
// Output writers are always closed before Run returns, so outputs of a failed
// run are valid but possibly partial files.
//
// Parameters:
//   - ctx: Cancellation aborts the run between batches
//
// Returns:
//   - *Result: Registry, per-table summaries, warnings and manifest
//   - error: ErrMissingPrimaryInput, ErrSchemaMismatch, ErrSourceRead or
//     ErrSinkWrite, wrapped with table context
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	m := manifest.New()

	r.logger.Info("starting subsample run",
		"runId", m.RunID,
		"seed", r.cfg.Seed,
		"fractions", r.cfg.PartitionFractions,
		"strategy", r.strategy.Name(),
		"output", r.cfg.OutputDirectory,
	)

	progress := r.startHeartbeat(ctx, m.RunID)
	defer r.stopHeartbeat(progress)

	primary := r.cfg.Tables.Primary
	loc, err := r.source.Locate(ctx, primary.Name)
	if err != nil {
		return nil, tableError(primary.Name, loc.Path, err)
	}
	if !loc.Exists {
		return nil, tableError(primary.Name, loc.Path, ErrMissingPrimaryInput)
	}

	if err := os.MkdirAll(r.cfg.OutputDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %w", ErrSinkWrite, err)
	}

	setStage(progress, "assign")
	reg, stats, err := r.assign(ctx, primary, loc.Path)
	if err != nil {
		return nil, err
	}

	if herr := r.hooks.OnRegistryBuilt(ctx, reg.Sizes()); herr != nil {
		r.logger.Warn("registry built hook failed", "error", herr)
	}

	setStage(progress, "partition:"+primary.Name)
	primarySummary, err := r.partition(ctx, reg, primary, loc.Path)
	if err != nil {
		return nil, err
	}
	if primarySummary.Skipped {
		return nil, tableError(primary.Name, loc.Path, ErrMissingPrimaryInput)
	}

	setStage(progress, "dependents")
	dependents, err := r.partitionDependents(ctx, reg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Registry: reg,
		Tables:   append([]TableSummary{primarySummary}, dependents...),
	}
	for _, s := range result.Tables {
		if s.Skipped {
			result.Warnings = append(result.Warnings, types.MissingInputError(s.Table, s.Input))
		}
	}

	r.fillManifest(m, reg, stats, result)
	result.Manifest = m

	setStage(progress, "manifest")
	if r.cfg.Manifest.Enabled {
		path := filepath.Join(r.cfg.OutputDirectory, r.cfg.Manifest.FileName)
		if err := manifest.Write(path, m); err != nil {
			return result, fmt.Errorf("%w: %w", ErrSinkWrite, err)
		}
		r.logger.Debug("manifest written", "path", path)
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, m); err != nil {
			warn := fmt.Errorf("manifest publication failed: %w", err)
			result.Warnings = append(result.Warnings, warn)
			r.logger.Warn("manifest publication failed", "runId", m.RunID, "error", err)
			if herr := r.hooks.OnWarning(ctx, warn); herr != nil {
				r.logger.Warn("warning hook failed", "error", herr)
			}
		}
	}

	r.logger.Info("subsample run complete",
		"runId", m.RunID,
		"tables", len(result.Tables),
		"warnings", len(result.Warnings),
		"digest", m.Digest,
		"duration", time.Since(start),
	)

	return result, nil
}

func (r *Runner) startHeartbeat(ctx context.Context, runID string) *heartbeat.Publisher {
	if r.heartbeat == nil || r.heartbeat.kv == nil {
		return nil
	}

	p := heartbeat.New(r.heartbeat.kv, heartbeat.DefaultPrefix, r.heartbeat.interval, r.logger)
	if err := p.Start(ctx, runID); err != nil {
		r.logger.Warn("heartbeat disabled for this run", "runId", runID, "error", err)
		return nil
	}

	return p
}

func (r *Runner) stopHeartbeat(p *heartbeat.Publisher) {
	if p == nil {
		return
	}
	if err := p.Stop(); err != nil {
		r.logger.Warn("failed to stop heartbeat", "runId", p.RunID(), "error", err)
	}
}

func setStage(p *heartbeat.Publisher, stage string) {
	if p != nil {
		p.SetStage(stage)
	}
}

func tableError(tableName, path string, err error) error {
	return types.NewTableError(tableName, path, -1, err)
}

func (r *Runner) assign(ctx context.Context, primary TableSpec, path string) (*registry.Registry, sampling.Stats, error) {
	assigner, err := sampling.NewAssigner(&sampling.Config{
		Fractions:  r.cfg.PartitionFractions,
		Seed:       r.cfg.Seed,
		Strategy:   r.strategy,
		Table:      primary.Name,
		IDColumn:   primary.IDColumn,
		FlagColumn: primary.FlagColumn,
		Metrics:    r.metrics,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, sampling.Stats{}, err
	}

	reader, err := table.Open(path, table.WithBatchSize(r.cfg.BatchSize))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = ErrMissingPrimaryInput
		}

		return nil, sampling.Stats{}, tableError(primary.Name, path, err)
	}
	defer reader.Close()

	reg, err := assigner.Assign(ctx, reader)
	if err != nil {
		return nil, sampling.Stats{}, err
	}

	return reg, assigner.Stats(), nil
}

func (r *Runner) newPartitioner(reg *registry.Registry, spec TableSpec) (*partitioner.Partitioner, error) {
	return partitioner.New(reg,
		partitioner.WithIDColumn(spec.IDColumn),
		partitioner.WithBatchSize(r.cfg.BatchSize),
		partitioner.WithCompression(r.codec),
		partitioner.WithLogger(r.logger),
		partitioner.WithMetrics(r.metrics),
		partitioner.WithHooks(&r.hooks),
	)
}

func (r *Runner) outputBase(name string) string {
	ext := r.cfg.Extension
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return filepath.Join(r.cfg.OutputDirectory, name+ext)
}

func (r *Runner) partition(ctx context.Context, reg *registry.Registry, spec TableSpec, path string) (TableSummary, error) {
	p, err := r.newPartitioner(reg, spec)
	if err != nil {
		return TableSummary{Table: spec.Name, Input: path}, err
	}

	return p.Partition(ctx, spec.Name, path, r.outputBase(spec.Name))
}

// partitionDependents runs the dependent passes, up to Concurrency at a time.
// The first failure cancels the passes still running; each pass closes its
// own writers before returning.
func (r *Runner) partitionDependents(ctx context.Context, reg *registry.Registry) ([]TableSummary, error) {
	deps := r.cfg.Tables.Dependents
	results := xsync.NewMap[string, TableSummary]()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, spec := range deps {
		g.Go(func() error {
			loc, err := r.source.Locate(gctx, spec.Name)
			if err != nil {
				return tableError(spec.Name, loc.Path, err)
			}

			if !loc.Exists {
				p, err := r.newPartitioner(reg, spec)
				if err != nil {
					return tableError(spec.Name, loc.Path, err)
				}
				results.Store(spec.Name, p.Skip(gctx, spec.Name, loc.Path))

				return nil
			}

			summary, err := r.partition(gctx, reg, spec, loc.Path)
			results.Store(spec.Name, summary)

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]TableSummary, 0, len(deps))
	for _, spec := range deps {
		if s, ok := results.Load(spec.Name); ok {
			summaries = append(summaries, s)
		}
	}

	return summaries, nil
}

func (r *Runner) fillManifest(m *manifest.Manifest, reg *registry.Registry, stats sampling.Stats, result *Result) {
	thresholds, _ := sampling.Thresholds(r.cfg.PartitionFractions)

	m.Seed = r.cfg.Seed
	m.Fractions = r.cfg.PartitionFractions
	m.Thresholds = thresholds
	m.Strategy = r.strategy.Name()
	m.Compression = r.cfg.Compression
	m.Digest = manifest.FormatDigest(reg.Digest())
	m.Sizes = reg.Sizes()
	m.Primary = manifest.Primary{
		Table:       r.cfg.Tables.Primary.Name,
		RowsScanned: stats.RowsScanned,
		Qualifying:  stats.Qualifying,
		Unsampled:   stats.Unsampled,
	}
	m.Tables = result.Tables
	for _, w := range result.Warnings {
		m.Warnings = append(m.Warnings, w.Error())
	}
}
