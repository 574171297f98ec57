package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/subsample/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that constructing
// a PrometheusCollector never panics on duplicate registration.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Assigner metrics
	primaryRows    *prometheus.CounterVec
	partitionSize  *prometheus.GaugeVec
	assignDuration prometheus.Histogram

	// Partitioner metrics
	rowsRead      *prometheus.CounterVec
	rowsWritten   *prometheus.CounterVec
	rowsDropped   *prometheus.CounterVec
	tableDuration *prometheus.HistogramVec
	tablesSkipped *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "subsample" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "subsample"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.primaryRows = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assigner",
			Name:      "primary_rows_total",
			Help:      "Primary table rows scanned by kind (scanned, qualifying).",
		}, []string{"kind"})

		p.partitionSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "assigner",
			Name:      "partition_entities",
			Help:      "Number of entity identifiers assigned to each partition.",
		}, []string{"partition"})

		p.assignDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "assigner",
			Name:      "duration_seconds",
			Help:      "Duration of the primary table scan in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43m
		})

		p.rowsRead = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partitioner",
			Name:      "rows_read_total",
			Help:      "Rows read from input tables.",
		}, []string{"table"})

		p.rowsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partitioner",
			Name:      "rows_written_total",
			Help:      "Rows written to partition outputs.",
		}, []string{"table", "partition"})

		p.rowsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partitioner",
			Name:      "rows_dropped_total",
			Help:      "Rows whose identifier matched no partition.",
		}, []string{"table"})

		p.tableDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "partitioner",
			Name:      "table_duration_seconds",
			Help:      "Duration of table partitioning passes by result (success, failure).",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"table", "result"})

		p.tablesSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partitioner",
			Name:      "tables_skipped_total",
			Help:      "Table passes skipped because the input file was missing.",
		}, []string{"table"})

		p.reg.MustRegister(p.primaryRows)
		p.reg.MustRegister(p.partitionSize)
		p.reg.MustRegister(p.assignDuration)
		p.reg.MustRegister(p.rowsRead)
		p.reg.MustRegister(p.rowsWritten)
		p.reg.MustRegister(p.rowsDropped)
		p.reg.MustRegister(p.tableDuration)
		p.reg.MustRegister(p.tablesSkipped)
	})
}

// AssignerMetrics implementation

// RecordPrimaryScan adds scanned and qualifying row counts.
func (p *PrometheusCollector) RecordPrimaryScan(scanned, qualifying int64) {
	p.ensureRegistered()
	p.primaryRows.WithLabelValues("scanned").Add(float64(scanned))
	p.primaryRows.WithLabelValues("qualifying").Add(float64(qualifying))
}

// RecordPartitionSize sets the entity count gauge for a partition.
func (p *PrometheusCollector) RecordPartitionSize(partition int, size int) {
	p.ensureRegistered()
	p.partitionSize.WithLabelValues(strconv.Itoa(partition)).Set(float64(size))
}

// RecordAssignDuration observes the primary scan duration.
func (p *PrometheusCollector) RecordAssignDuration(duration float64) {
	p.ensureRegistered()
	p.assignDuration.Observe(duration)
}

// PartitionerMetrics implementation

// RecordRowsRead adds rows read from a table.
func (p *PrometheusCollector) RecordRowsRead(table string, rows int) {
	p.ensureRegistered()
	p.rowsRead.WithLabelValues(table).Add(float64(rows))
}

// RecordRowsWritten adds rows written to one partition of a table.
func (p *PrometheusCollector) RecordRowsWritten(table string, partition int, rows int) {
	p.ensureRegistered()
	p.rowsWritten.WithLabelValues(table, strconv.Itoa(partition)).Add(float64(rows))
}

// RecordRowsDropped adds rows that matched no partition.
func (p *PrometheusCollector) RecordRowsDropped(table string, rows int) {
	p.ensureRegistered()
	p.rowsDropped.WithLabelValues(table).Add(float64(rows))
}

// RecordTableDuration observes a table pass duration.
func (p *PrometheusCollector) RecordTableDuration(table string, duration float64, success bool) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.tableDuration.WithLabelValues(table, result).Observe(duration)
}

// RecordTableSkipped increments the skipped pass counter.
func (p *PrometheusCollector) RecordTableSkipped(table string) {
	p.ensureRegistered()
	p.tablesSkipped.WithLabelValues(table).Inc()
}
