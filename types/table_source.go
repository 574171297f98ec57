package types

import "context"

// Location is where a logical table's input lives.
type Location struct {
	// Path is the input file path.
	Path string

	// Exists reports whether the file is present.
	Exists bool
}

// TableSource resolves logical table names to input files.
//
// Implementations can map names onto various backends:
//   - Directory: <dir>/<name><ext> on the local filesystem
//   - Static: fixed name → path map for testing
//
// The Runner calls Locate once per table before its pass begins.
type TableSource interface {
	// Locate returns the input location for a logical table.
	//
	// A missing file is not an error: implementations report it with Exists=false
	// and leave the decision (skip or fail) to the caller.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - table: Logical table name
	//
	// Returns:
	//   - Location: Input path and existence
	//   - error: Lookup failure other than "not found"
	Locate(ctx context.Context, table string) (Location, error)
}
