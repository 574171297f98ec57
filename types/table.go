package types

// TableSpec names a logical table and the columns used to route its rows.
type TableSpec struct {
	// Name is the logical table name; the input file is Name + extension.
	Name string `yaml:"name"`

	// IDColumn is the integer entity identifier column (e.g., "paper_id").
	IDColumn string `yaml:"idColumn"`

	// FlagColumn is the boolean "has dependents" column. Only meaningful for the
	// primary table; rows whose flag is not true are never sampled.
	FlagColumn string `yaml:"flagColumn,omitempty"`
}

// TableSummary describes the outcome of one table's partitioning pass.
type TableSummary struct {
	// Table is the logical table name.
	Table string `yaml:"table" json:"table"`

	// Input is the input file path.
	Input string `yaml:"input" json:"input"`

	// Skipped is true when the input did not exist and no outputs were produced.
	Skipped bool `yaml:"skipped" json:"skipped"`

	// Outputs holds one file path per partition, index-aligned with the registry.
	Outputs []string `yaml:"outputs,omitempty" json:"outputs,omitempty"`

	// RowsRead is the number of input rows consumed.
	RowsRead int64 `yaml:"rowsRead" json:"rowsRead"`

	// RowsWritten is the number of rows written per partition.
	RowsWritten []int64 `yaml:"rowsWritten,omitempty" json:"rowsWritten,omitempty"`

	// RowsDropped is the number of rows whose identifier matched no partition.
	RowsDropped int64 `yaml:"rowsDropped" json:"rowsDropped"`

	// Warning holds the non-fatal condition reported for this table, if any.
	Warning string `yaml:"warning,omitempty" json:"warning,omitempty"`
}

// TotalWritten returns the sum of rows written across all partitions.
func (s TableSummary) TotalWritten() int64 {
	var total int64
	for _, n := range s.RowsWritten {
		total += n
	}

	return total
}
