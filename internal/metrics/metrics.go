// Package metrics exposes Prometheus collectors for quiz activity and the
// HTTP API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics of a process.
type Registry struct {
	QuizzesStarted      *prometheus.CounterVec
	NodesEntered        *prometheus.CounterVec
	FinishersReached    *prometheus.CounterVec
	MalformedReferences *prometheus.CounterVec
	QuizzesEnded        prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates collectors on a private Prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		QuizzesStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tatami_quiz_started_total",
			Help: "Quiz rounds started, by sequence.",
		}, []string{"sequence_id"}),
		NodesEntered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tatami_quiz_nodes_entered_total",
			Help: "Positions entered during quizzes, by sequence.",
		}, []string{"sequence_id"}),
		FinishersReached: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tatami_quiz_finishers_total",
			Help: "Quiz rounds that reached a finisher node, by sequence.",
		}, []string{"sequence_id"}),
		MalformedReferences: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tatami_quiz_malformed_references_total",
			Help: "Edges followed during quizzes whose target node does not exist.",
		}, []string{"sequence_id"}),
		QuizzesEnded: factory.NewCounter(prometheus.CounterOpts{
			Name: "tatami_quiz_ended_total",
			Help: "Quiz sessions switched to view mode.",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tatami_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tatami_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Hooks returns quiz hooks that feed the counters.
func (r *Registry) Hooks() domain.QuizHooks {
	return domain.QuizHooks{
		OnStart: func(_ context.Context, e *domain.QuizEvent) {
			r.QuizzesStarted.WithLabelValues(e.SequenceID).Inc()
		},
		OnNodeEnter: func(_ context.Context, e *domain.QuizEvent) {
			r.NodesEntered.WithLabelValues(e.SequenceID).Inc()
		},
		OnFinisher: func(_ context.Context, e *domain.QuizEvent) {
			r.FinishersReached.WithLabelValues(e.SequenceID).Inc()
		},
		OnMalformedReference: func(_ context.Context, e *domain.QuizEvent) {
			r.MalformedReferences.WithLabelValues(e.SequenceID).Inc()
		},
		OnEnd: func(context.Context, *domain.QuizEvent) {
			r.QuizzesEnded.Inc()
		},
	}
}

// RecordHTTPRequest records one served request.
func (r *Registry) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
