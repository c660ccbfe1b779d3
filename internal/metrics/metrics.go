// Package metrics provides Prometheus metrics for resume scoring and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-scorer/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_scorer"

// scoreBuckets spans the 0-100 percentage range.
var scoreBuckets = prometheus.LinearBuckets(0, 10, 11)

// Recorder owns the scoring and HTTP metrics registered on a single registry.
type Recorder struct {
	registry *prometheus.Registry

	reportsScored   prometheus.Counter
	scoringErrors   *prometheus.CounterVec
	sectionScores   *prometheus.HistogramVec
	emptySections   *prometheus.CounterVec
	totalScores     prometheus.Histogram
	scoringDuration prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder backed by its own registry, so repeated
// construction (for example in tests) never collides with global metrics.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		reportsScored: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_scored_total",
			Help:      "Total number of resumes scored",
		}),
		scoringErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_errors_total",
			Help:      "Total number of resumes that could not be scored, by stage",
		}, []string{"stage"}),
		sectionScores: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "section_score_percent",
			Help:      "Distribution of section scores",
			Buckets:   scoreBuckets,
		}, []string{"category"}),
		emptySections: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_sections_total",
			Help:      "Sections whose header was not found or had no text",
		}, []string{"category"}),
		totalScores: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_score_percent",
			Help:      "Distribution of overall resume scores",
			Buckets:   scoreBuckets,
		}),
		scoringDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time spent extracting and scoring one document",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveReport records the scores of a completed report.
func (r *Recorder) ObserveReport(report *types.ScoreReport, elapsed time.Duration) {
	if r == nil || report == nil {
		return
	}
	r.reportsScored.Inc()
	r.totalScores.Observe(report.Total)
	r.scoringDuration.Observe(elapsed.Seconds())
	for _, s := range report.Sections {
		r.sectionScores.WithLabelValues(string(s.Category)).Observe(s.Score)
		if s.Text == "" {
			r.emptySections.WithLabelValues(string(s.Category)).Inc()
		}
	}
}

// ObserveError counts a failed scoring attempt at the given stage (ingest, score, store).
func (r *Recorder) ObserveError(stage string) {
	if r == nil {
		return
	}
	r.scoringErrors.WithLabelValues(stage).Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

