package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the subsample library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Run, Registry, Writer)
//   - Use consistent messages across similar error types

// Run errors - the error taxonomy surfaced to callers.
var (
	// ErrInvalidConfiguration is returned for malformed fractions, an empty partition
	// spec, or any other configuration rejected before I/O begins.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSourceRead is returned when streaming a table fails mid-pass.
	ErrSourceRead = errors.New("source read failed")

	// ErrSchemaMismatch is returned when a required column is absent or has the wrong type.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrMissingOptionalInput marks a dependent table whose file does not exist.
	// It is non-fatal and only ever reported as a warning.
	ErrMissingOptionalInput = errors.New("optional input missing")

	// ErrMissingPrimaryInput is returned when the primary table file does not exist.
	ErrMissingPrimaryInput = errors.New("primary input missing")
)

// Registry errors - PartitionSetRegistry misuse.
var (
	// ErrRegistryFrozen is returned when adding to a registry after Freeze.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrPartitionOutOfRange is returned for a partition index outside [0, N).
	ErrPartitionOutOfRange = errors.New("partition index out of range")

	// ErrNotDisjoint is returned by registry validation when an identifier
	// appears in more than one partition.
	ErrNotDisjoint = errors.New("partitions are not disjoint")
)

// Writer errors - output file handling.
var (
	// ErrWriterClosed is returned when writing to an already finalized writer set.
	ErrWriterClosed = errors.New("writer is already closed")

	// ErrSinkWrite is returned when writing rows to an output file fails.
	ErrSinkWrite = errors.New("failed to write output")
)

// TableError attaches table context to a pass failure.
//
// Row is the zero-based offset of the first row of the batch being processed when
// the failure occurred, or -1 when the failure is not tied to a row position.
type TableError struct {
	Table string
	Path  string
	Row   int64
	Err   error
}

// Error implements the error interface.
func (e *TableError) Error() string {
	where := "table " + e.Table
	if e.Path != "" {
		where += " (" + e.Path + ")"
	}
	if e.Row >= 0 {
		return fmt.Sprintf("%s at row %d: %v", where, e.Row, e.Err)
	}

	return fmt.Sprintf("%s: %v", where, e.Err)
}

// Unwrap returns the underlying error so errors.Is matches the sentinels.
func (e *TableError) Unwrap() error {
	return e.Err
}

// NewTableError wraps err with table context.
//
// Parameters:
//   - table: Logical table name
//   - path: File path of the table
//   - row: Row offset, or -1 if unknown
//   - err: Underlying error
//
// Returns:
//   - error: *TableError, or nil when err is nil
func NewTableError(table, path string, row int64, err error) error {
	if err == nil {
		return nil
	}

	return &TableError{Table: table, Path: path, Row: row, Err: err}
}

// MissingInputError reports a table skipped because its input does not exist.
// path is empty when the table source did not resolve the table at all.
func MissingInputError(table, path string) error {
	if path == "" {
		return fmt.Errorf("%w: table %s: no input located", ErrMissingOptionalInput, table)
	}

	return fmt.Errorf("%w: table %s: %s not found", ErrMissingOptionalInput, table, path)
}
