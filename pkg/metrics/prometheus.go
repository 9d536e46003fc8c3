package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tasksTotal   *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	batchesTotal *prometheus.CounterVec
	batchSize    *prometheus.HistogramVec
	cacheTotal   *prometheus.CounterVec
	sinkErrors   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tasksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_tasks_total",
				Help: "Total number of scan tasks by terminal result",
			},
			[]string{"strategy", "instrument", "result"},
		),
		taskDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockscan_task_duration_seconds",
				Help:    "Duration of individual scan tasks in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		batchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_batches_total",
				Help: "Total number of scan batches by terminal status",
			},
			[]string{"status"},
		),
		batchSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockscan_batch_outcomes",
				Help:    "Outcome counts per batch",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"kind"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_candle_cache_total",
				Help: "Candle cache lookups by result",
			},
			[]string{"result"},
		),
		sinkErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockscan_sink_errors_total",
				Help: "Sink failures by operation",
			},
			[]string{"operation"},
		),
	}
}

// RecordTask records a task's terminal result.
func (r *Recorder) RecordTask(strategy, instrument, result string) {
	r.tasksTotal.WithLabelValues(strategy, instrument, result).Inc()
}

// RecordTaskDuration records task execution time in seconds.
func (r *Recorder) RecordTaskDuration(strategy string, seconds float64) {
	r.taskDuration.WithLabelValues(strategy).Observe(seconds)
}

// RecordBatch records a completed batch and its outcome counts.
func (r *Recorder) RecordBatch(status string, total, failed int) {
	r.batchesTotal.WithLabelValues(status).Inc()
	r.batchSize.WithLabelValues("total").Observe(float64(total))
	r.batchSize.WithLabelValues("failed").Observe(float64(failed))
}

// RecordCache records a candle cache lookup result.
func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordSinkError records a sink failure.
func (r *Recorder) RecordSinkError(op string) {
	r.sinkErrors.WithLabelValues(op).Inc()
}
