package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline outcomes.
const (
	OutcomeAnswered  = "answered"
	OutcomeNoSources = "no_sources"
	OutcomeNoContent = "no_content"
	OutcomeFailed    = "failed"
)

// Pipeline stages.
const (
	StageSearch      = "search"
	StageFetch       = "fetch"
	StageExtract     = "extract"
	StageSummarize   = "summarize"
	StageConsolidate = "consolidate"
)

// Metrics holds the collectors for one registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	PipelineRuns     *prometheus.CounterVec
	StageFailures    *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	ChatReplies      *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PipelineRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanji_pipeline_runs_total",
				Help: "Total number of ask pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		StageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanji_pipeline_stage_failures_total",
				Help: "Total number of absorbed stage failures",
			},
			[]string{"stage"},
		),
		PipelineDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sanji_pipeline_duration_seconds",
				Help:    "Duration of ask pipeline runs in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
			},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanji_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sanji_http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"route"},
		),
		ChatReplies: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sanji_chat_replies_total",
				Help: "Total number of chat replies by responder",
			},
			[]string{"responder"},
		),
	}
}

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(outcome).Inc()
	m.PipelineDuration.Observe(d.Seconds())
}

func (m *Metrics) StageFailed(stage string) {
	if m == nil {
		return
	}
	m.StageFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ChatReplied(responder string) {
	if m == nil {
		return
	}
	m.ChatReplies.WithLabelValues(responder).Inc()
}
