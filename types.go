package subsample

import "github.com/arloliu/subsample/types"

// Re-export types from the types package.
//
// Internal packages depend on types rather than on the root package, which
// keeps the import graph acyclic while users can still write subsample.Logger,
// subsample.TableSummary and so on.
type (
	TableSpec    = types.TableSpec
	TableSummary = types.TableSummary
	TableError   = types.TableError
	Location     = types.Location
)

// Re-export interfaces from the types package for convenience.
type (
	TableSource      = types.TableSource
	DrawStrategy     = types.DrawStrategy
	Drawer           = types.Drawer
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)
