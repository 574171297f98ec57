// Package subsample produces reproducible, stratified subsamples of linked
// columnar tables.
//
// A dataset has one primary table with a row per entity and a boolean flag
// marking entities that have child records, plus dependent tables whose rows
// reference the entity identifier. A run selects disjoint, seeded random
// subsets of the flagged entities at the configured fractions and re-emits
// every table filtered to each subset, keeping schemas and rows intact. Tables
// are streamed in bounded batches and never loaded whole.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/arloliu/subsample"
//
//	cfg := subsample.DefaultConfig()
//	cfg.InputDirectory = "/data/full"
//	cfg.OutputDirectory = "/data/sample"
//
//	runner, err := subsample.NewRunner(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    log.Println("warning:", w)
//	}
//
// With fractions [0.01, 0.05] the run writes papers_0.parquet (about 1% of
// the flagged papers), papers_1.parquet (a disjoint 5%), and the matching rows
// of every dependent table into mentions_0.parquet, mentions_1.parquet, and so on.
//
// # Key Features
//
//   - Deterministic: equal seed and input give equal partitions; the default
//     MT19937 strategy reproduces Python's random.random() sequence
//   - Streaming: memory is bounded by the batch size, not the table size
//   - Disjoint: an entity belongs to at most one partition
//   - Faithful: output files keep the input schema, metadata and row order
//   - Tolerant: a missing dependent table is a warning, a missing primary table an error
//
// # Architecture
//
// A run has two phases:
//
//	primary scan (sampling.Assigner) → registry → table passes (partitioner.Partitioner)
//
// The primary scan draws one value per flagged entity and places it in the
// first partition whose cumulative threshold exceeds the draw. Table passes
// then route each row to the partition holding its identifier. Dependent
// passes may run concurrently; they share the frozen registry read-only.
//
// # Advanced Usage
//
// Custom strategy, table source and manifest publication:
//
//	import (
//	    "github.com/arloliu/subsample"
//	    "github.com/arloliu/subsample/manifest"
//	    "github.com/arloliu/subsample/source"
//	    "github.com/arloliu/subsample/strategy"
//	)
//
//	pub, _ := manifest.OpenKVPublisher(ctx, js, "subsample-runs", logger)
//
//	runner, err := subsample.NewRunner(&cfg,
//	    subsample.WithStrategy(strategy.NewHash()),
//	    subsample.WithSource(source.NewStatic(paths)),
//	    subsample.WithPublisher(pub),
//	    subsample.WithHeartbeat(pub.KV(), 5*time.Second),
//	    subsample.WithLogger(logger),
//	)
//
// See the examples/ directory for complete working examples.
package subsample
