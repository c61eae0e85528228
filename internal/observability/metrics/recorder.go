// Package metrics exposes the Prometheus instruments for the storefront.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	domainauth "github.com/target/marketnest/internal/domain/auth"
	obserrors "github.com/target/marketnest/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Resolution outcomes for auth state lookups.
const (
	OutcomeAuthenticated   = "authenticated"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeError           = "error"
	OutcomeTimeout         = "timeout"
	OutcomeCanceled        = "canceled"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "marketnest"

// Recorder owns a private registry so tests and multiple servers never collide.
type Recorder struct {
	registry *prometheus.Registry

	headerRenders   *prometheus.CounterVec
	authResolutions *prometheus.CounterVec
	authFlows       *prometheus.CounterVec
	sessionEvents   *prometheus.CounterVec
	activeStreams   prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// Options configures NewRecorder.
type Options struct {
	Namespace string
	// RuntimeCollectors adds the Go and process collectors.
	RuntimeCollectors bool
}

// NewRecorder registers all instruments on a new registry.
func NewRecorder(opts Options) *Recorder {
	ns := opts.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		headerRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "header",
			Name:      "renders_total",
			Help:      "Header renders by auth slot kind.",
		}, []string{"auth"}),
		authResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "auth",
			Name:      "resolutions_total",
			Help:      "Session to auth state resolutions by outcome.",
		}, []string{"outcome", "error_class"}),
		authFlows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "auth",
			Name:      "flows_total",
			Help:      "Sign-in, sign-up, callback and sign-out steps by result.",
		}, []string{"step", "result"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "auth",
			Name:      "session_events_total",
			Help:      "Published auth change events by kind and result.",
		}, []string{"kind", "result"}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "header",
			Name:      "active_streams",
			Help:      "Open header event streams.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.headerRenders,
		r.authResolutions,
		r.authFlows,
		r.sessionEvents,
		r.activeStreams,
		r.httpRequests,
		r.httpDuration,
	)
	if opts.RuntimeCollectors {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// HeaderRendered counts one header render for the given auth kind.
func (r *Recorder) HeaderRendered(kind domainauth.StateKind) {
	if r == nil {
		return
	}
	r.headerRenders.WithLabelValues(kind.String()).Inc()
}

// AuthResolved counts a session resolution. err is classified only for error outcomes.
func (r *Recorder) AuthResolved(outcome string, err error) {
	if r == nil {
		return
	}
	class := ""
	if err != nil && (outcome == OutcomeError || outcome == OutcomeTimeout) {
		class = obserrors.Classify(err)
	}
	r.authResolutions.WithLabelValues(outcome, class).Inc()
}

// AuthFlow counts one step of an interactive auth flow.
func (r *Recorder) AuthFlow(step string, err error) {
	if r == nil {
		return
	}
	r.authFlows.WithLabelValues(step, resultOf(err)).Inc()
}

// SessionEventPublished counts one published auth event.
func (r *Recorder) SessionEventPublished(kind domainauth.StateKind, err error) {
	if r == nil {
		return
	}
	r.sessionEvents.WithLabelValues(kind.String(), resultOf(err)).Inc()
}

// StreamOpened increments the open stream gauge and returns its matching decrement.
func (r *Recorder) StreamOpened() func() {
	if r == nil {
		return func() {}
	}
	r.activeStreams.Inc()
	return r.activeStreams.Dec
}

// HTTPRequest records one served request.
func (r *Recorder) HTTPRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
