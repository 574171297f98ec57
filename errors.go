package subsample

import "github.com/arloliu/subsample/types"

// Re-export sentinel errors from the types package.
//
// Callers can match run failures with errors.Is against these values, and
// extract table and row context with errors.As into *TableError.
var (
	// ErrInvalidConfiguration is returned for a rejected configuration, before any I/O.
	ErrInvalidConfiguration = types.ErrInvalidConfiguration

	// ErrSourceRead is returned when streaming a table fails.
	ErrSourceRead = types.ErrSourceRead

	// ErrSchemaMismatch is returned when a required column is absent or mistyped.
	ErrSchemaMismatch = types.ErrSchemaMismatch

	// ErrMissingOptionalInput marks a skipped dependent table. Only reported as a warning.
	ErrMissingOptionalInput = types.ErrMissingOptionalInput

	// ErrMissingPrimaryInput is returned when the primary table does not exist.
	ErrMissingPrimaryInput = types.ErrMissingPrimaryInput

	// ErrRegistryFrozen is returned when adding to a frozen registry.
	ErrRegistryFrozen = types.ErrRegistryFrozen

	// ErrPartitionOutOfRange is returned for a partition index outside [0, N).
	ErrPartitionOutOfRange = types.ErrPartitionOutOfRange

	// ErrNotDisjoint is returned when registry validation finds a shared identifier.
	ErrNotDisjoint = types.ErrNotDisjoint

	// ErrWriterClosed is returned when writing to a closed writer set.
	ErrWriterClosed = types.ErrWriterClosed

	// ErrSinkWrite is returned when writing an output file fails.
	ErrSinkWrite = types.ErrSinkWrite
)
