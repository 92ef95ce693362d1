// Package metrics collects and exposes Prometheus metrics for the CRM API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome constants for auth attempt tagging.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Flow constants name the auth path an attempt went through.
const (
	FlowPassword  = "password"
	FlowSignup    = "signup"
	FlowFederated = "federated"
)

// Collector registers and records the service's Prometheus metrics.
type Collector struct {
	reg           *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	authAttempts  *prometheus.CounterVec
	leadsCaptured prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salespro_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salespro_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salespro_auth_attempts_total",
			Help: "Authentication attempts by flow and outcome.",
		}, []string{"flow", "outcome"}),
		leadsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salespro_leads_captured_total",
			Help: "Leads captured through the public lead-gen endpoint.",
		}),
	}

	c.reg.MustRegister(c.httpRequests, c.httpDuration, c.authAttempts, c.leadsCaptured)
	return c
}

// RecordAuthAttempt records one sign-in or sign-up attempt. A nil Collector
// records nothing, so handlers built without metrics stay valid.
func (c *Collector) RecordAuthAttempt(flow, outcome string) {
	if c == nil {
		return
	}
	c.authAttempts.WithLabelValues(flow, outcome).Inc()
}

// RecordLeadCaptured records one successful lead-gen capture.
func (c *Collector) RecordLeadCaptured() {
	if c == nil {
		return
	}
	c.leadsCaptured.Inc()
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Middleware wraps an HTTP handler to record request counts and latency.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.httpRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		c.httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
