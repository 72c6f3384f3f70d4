package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Collectors register once per process; every Collector shares them.
var collectorSingleton = sync.OnceValue(func() *Collector {
	return &Collector{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "perfreview",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "perfreview",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for HTTP requests.",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5,
				1, 2.5, 5,
			},
		}, []string{"method", "route"}),
		inFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "perfreview",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being served.",
		}),
	}
})

func New() *Collector {
	return collectorSingleton()
}

// Record observes one finished request. route should be the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) Begin() func() {
	c.inFlight.Inc()
	return c.inFlight.Dec
}

func (c *Collector) Handler() http.Handler {
	return promhttp.Handler()
}
