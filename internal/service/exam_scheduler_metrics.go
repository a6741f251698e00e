package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examscheduler"
)

// ExamSchedulerMetrics implements examscheduler.RunMetricsRecorder,
// exposing per-run counters to the same Prometheus registry MetricsService
// owns.
type ExamSchedulerMetrics struct {
	scheduledTotal *prometheus.CounterVec
	failedTotal    *prometheus.CounterVec
	runsTotal      prometheus.Counter
	runSize        prometheus.Histogram
}

// NewExamSchedulerMetrics registers the scheduler's collectors against
// registry.
func NewExamSchedulerMetrics(registry *prometheus.Registry) *ExamSchedulerMetrics {
	m := &ExamSchedulerMetrics{
		scheduledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_schedule_requests_scheduled_total",
			Help: "Total exam requests successfully scheduled, by difficulty",
		}, []string{"difficulty"}),
		failedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_schedule_requests_failed_total",
			Help: "Total exam requests that failed to schedule, by reason",
		}, []string{"reason"}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exam_schedule_runs_total",
			Help: "Total scheduling runs completed",
		}),
		runSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exam_schedule_run_request_count",
			Help:    "Number of requests processed per scheduling run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	registry.MustRegister(m.scheduledTotal, m.failedTotal, m.runsTotal, m.runSize)
	return m
}

// RequestScheduled implements examscheduler.RunMetricsRecorder.
func (m *ExamSchedulerMetrics) RequestScheduled(difficulty examdomain.Difficulty) {
	m.scheduledTotal.WithLabelValues(difficulty.String()).Inc()
}

// RequestFailed implements examscheduler.RunMetricsRecorder.
func (m *ExamSchedulerMetrics) RequestFailed(reason string) {
	m.failedTotal.WithLabelValues(reason).Inc()
}

// RunCompleted implements examscheduler.RunMetricsRecorder.
func (m *ExamSchedulerMetrics) RunCompleted(report examscheduler.RunReport) {
	m.runsTotal.Inc()
	m.runSize.Observe(float64(report.TotalRequests))
}
