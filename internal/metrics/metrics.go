package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Orders    *prometheus.CounterVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopcore",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"handler"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "orders_total",
		Help:      "Order lifecycle events by outcome.",
	}, []string{"event"})

	reg.MustRegister(requests, latency, orders)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, Orders: orders}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
