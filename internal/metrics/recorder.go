package metrics

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Recorder counts HTTP requests and prediction failures on a private
// Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	handler  http.Handler
}

// NewRecorder creates a recorder with its own registry, so several recorders
// can coexist in one process.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "predictor_http_requests_total",
			Help: "HTTP requests served, by route pattern and status.",
		}, []string{"route", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "predictor_prediction_errors_total",
			Help: "Failed predictions, by error kind.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.requests, r.failures)
	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return r
}

// ObserveRequest counts one request served on route with status.
func (r *Recorder) ObserveRequest(route string, status int) {
	r.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObserveError counts one failed prediction of the given kind.
func (r *Recorder) ObserveError(kind string) {
	r.failures.WithLabelValues(kind).Inc()
}

// Middleware records the route pattern and status of every request.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.ObserveRequest(route, status)
	})
}

// Handler serves the current counters.
func (r *Recorder) Handler(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// WriteTo renders all counters in the Prometheus text format. Counters that
// were never incremented are omitted.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, mf := range families {
		n, err := expfmt.MetricFamilyToText(w, mf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
