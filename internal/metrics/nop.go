// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/subsample/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// AssignerMetrics implementation

// RecordPrimaryScan discards the scan counters.
func (n *NopMetrics) RecordPrimaryScan(_ /* scanned */, _ /* qualifying */ int64) {}

// RecordPartitionSize discards the partition size gauge.
func (n *NopMetrics) RecordPartitionSize(_ /* partition */ int, _ /* size */ int) {}

// RecordAssignDuration discards the assignment duration.
func (n *NopMetrics) RecordAssignDuration(_ /* duration */ float64) {}

// PartitionerMetrics implementation

// RecordRowsRead discards the read counter.
func (n *NopMetrics) RecordRowsRead(_ /* table */ string, _ /* rows */ int) {}

// RecordRowsWritten discards the write counter.
func (n *NopMetrics) RecordRowsWritten(_ /* table */ string, _ /* partition */ int, _ /* rows */ int) {}

// RecordRowsDropped discards the drop counter.
func (n *NopMetrics) RecordRowsDropped(_ /* table */ string, _ /* rows */ int) {}

// RecordTableDuration discards the pass duration.
func (n *NopMetrics) RecordTableDuration(_ /* table */ string, _ /* duration */ float64, _ /* success */ bool) {
}

// RecordTableSkipped discards the skip counter.
func (n *NopMetrics) RecordTableSkipped(_ /* table */ string) {}
