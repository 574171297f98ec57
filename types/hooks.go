package types

import "context"

// Hooks defines callbacks for run lifecycle events.
//
// All hooks are optional and called synchronously from the goroutine that
// produced the event. Hooks for different tables may run concurrently when
// dependent tables are partitioned in parallel.
//
// Hook errors are logged but never fail the run.
//
// Example:
//
//	hooks := &subsample.Hooks{
//	    OnTablePartitioned: func(ctx context.Context, s subsample.TableSummary) error {
//	        log.Printf("%s: %d rows kept", s.Table, s.TotalWritten())
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnRegistryBuilt is called once the primary scan has produced the registry.
	// sizes holds the number of identifiers per partition.
	OnRegistryBuilt func(ctx context.Context, sizes []int) error

	// OnTablePartitioned is called after each table pass, including skipped ones.
	OnTablePartitioned func(ctx context.Context, summary TableSummary) error

	// OnWarning is called for non-fatal conditions such as a missing optional input.
	OnWarning func(ctx context.Context, err error) error
}
