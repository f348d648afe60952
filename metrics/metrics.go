package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wareblock/sdk"
)

// Metrics counts committed contract events and query API traffic on its own registry.
type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	requests *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wareblock",
			Name:      "contract_events_total",
			Help:      "Committed contract events by kind (lc, sb, sr, sw, ...).",
		}, []string{"kind"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wareblock",
			Name:      "api_requests_total",
			Help:      "Query API requests by route and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(m.events, m.requests)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type countingSink struct {
	next   sdk.EventSink
	events *prometheus.CounterVec
}

// EventSink counts every event line by its kind and passes it on to next.
func (m *Metrics) EventSink(next sdk.EventSink) sdk.EventSink {
	return &countingSink{next: next, events: m.events}
}

func (s *countingSink) Log(msg string) {
	kind, _, _ := strings.Cut(msg, "|")
	s.events.WithLabelValues(kind).Inc()
	if s.next != nil {
		s.next.Log(msg)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests by route template rather than raw path.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}
