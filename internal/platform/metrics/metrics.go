package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SessionGuardOutcomes *prometheus.CounterVec
	Submissions          *prometheus.CounterVec
	SubmissionDuration   prometheus.Histogram
	ConditionToggles     *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New creates and registers all metrics on reg. Pass prometheus.DefaultRegisterer
// in main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionGuardOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_session_guard_total",
			Help: "Dashboard session guard results by outcome",
		}, []string{"outcome"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_inventory_submissions_total",
			Help: "Blood unit submissions by outcome",
		}, []string{"outcome"}),
		SubmissionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodlink_inventory_submission_duration_seconds",
			Help:    "Round trip of a blood unit submission to the backend",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ConditionToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_condition_toggles_total",
			Help: "Medical history checkbox changes by condition and direction",
		}, []string{"condition", "checked"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloodlink_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// IncGuardOutcome records one session guard run.
func (m *Metrics) IncGuardOutcome(outcome string) {
	m.SessionGuardOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveSubmission records a finished submission attempt.
// Call with time.Now() taken before the request was issued.
func (m *Metrics) ObserveSubmission(outcome string, start time.Time) {
	m.Submissions.WithLabelValues(outcome).Inc()
	m.SubmissionDuration.Observe(time.Since(start).Seconds())
}

// IncSubmission records a submission that ended before reaching the backend.
func (m *Metrics) IncSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// IncConditionToggle records one checkbox change.
func (m *Metrics) IncConditionToggle(conditionID string, checked bool) {
	m.ConditionToggles.WithLabelValues(conditionID, strconv.FormatBool(checked)).Inc()
}

// ObserveHTTPRequest records request latency.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, start time.Time) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
