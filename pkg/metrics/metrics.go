// Package metrics provides Prometheus instrumentation for dukaan.
//
// Wire it once in the server boot:
//
//	r.Use(metrics.Middleware())
//	r.Handle("GET", "/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request latency by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dukaan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dukaan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks requests currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dukaan",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// OrdersPlaced counts successfully placed orders.
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dukaan",
		Subsystem: "shop",
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	})

	// OrderValue observes the total amount of each placed order.
	OrderValue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dukaan",
		Subsystem: "shop",
		Name:      "order_value",
		Help:      "Total amount per placed order.",
		Buckets:   []float64{10, 50, 100, 500, 1_000, 5_000, 10_000},
	})

	// CacheHits / CacheMisses track product-cache effectiveness.
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dukaan",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dukaan",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses.",
	})
)

// DefaultRegistry is the Prometheus registry used by dukaan.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		OrdersPlaced,
		OrderValue,
		CacheHits,
		CacheMisses,
	)
}

// statusWriter captures the response status for labelling.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration, count, and in-flight gauge.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			status := strconv.Itoa(sw.status)
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		})
	}
}

// Handler returns the scrape endpoint for DefaultRegistry.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}
