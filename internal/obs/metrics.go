package obs

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultLatencyBuckets are millisecond boundaries tuned for API handlers.
var DefaultLatencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// HTTPMetrics are the server-side request collectors.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers the collectors on reg (the default registerer when
// nil). Calling it twice with the same registry returns the same collectors.
func NewHTTPMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = DefaultLatencyBuckets
	}
	buckets = slices.Clone(buckets)
	slices.Sort(buckets)

	const subsystem = "http_server"
	m := &HTTPMetrics{}
	m.Requests = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "Requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"}))
	m.Latency = registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_ms",
		Help:      "Request handling time in milliseconds.",
		Buckets:   buckets,
	}, []string{"method", "route"}))
	m.InFlight = registerOrReuse(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "in_flight",
		Help:      "Requests currently being handled.",
	}))
	return m
}

// ParseBucketsCSV reads "5,10,25" style bucket lists. Entries that are not
// positive numbers are skipped.
func ParseBucketsCSV(csv string) []float64 {
	var out []float64
	for _, field := range strings.FieldsFunc(csv, func(r rune) bool { return r == ',' || r == ' ' }) {
		if v, err := strconv.ParseFloat(field, 64); err == nil && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func DurationMillis(d time.Duration) float64 {
	return d.Seconds() * 1000
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		if existing, ok := dup.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(fmt.Errorf("obs: register collector: %w", err))
}
