package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from concurrent table passes and must be thread-safe.
//
// This interface composes smaller, component-focused interfaces.
type MetricsCollector interface {
	AssignerMetrics
	PartitionerMetrics
}

// AssignerMetrics defines metrics for the primary-table scan.
type AssignerMetrics interface {
	// RecordPrimaryScan records rows scanned and rows that qualified for sampling.
	RecordPrimaryScan(scanned, qualifying int64)

	// RecordPartitionSize sets the identifier count of a partition (gauge metric).
	RecordPartitionSize(partition int, size int)

	// RecordAssignDuration records the time taken to build the registry.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordAssignDuration(duration float64)
}

// PartitionerMetrics defines metrics for table partitioning passes.
type PartitionerMetrics interface {
	// RecordRowsRead records rows consumed from a table.
	RecordRowsRead(table string, rows int)

	// RecordRowsWritten records rows written to one partition of a table.
	RecordRowsWritten(table string, partition int, rows int)

	// RecordRowsDropped records rows that matched no partition.
	RecordRowsDropped(table string, rows int)

	// RecordTableDuration records the duration of a table pass.
	//
	// Parameters:
	//   - table: Logical table name
	//   - duration: Time taken in seconds
	//   - success: true if the pass completed without error
	RecordTableDuration(table string, duration float64, success bool)

	// RecordTableSkipped records a pass skipped because its input was missing.
	RecordTableSkipped(table string)
}
