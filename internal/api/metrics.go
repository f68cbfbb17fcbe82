package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 接口调用指标（独立 registry）
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics 创建并注册指标
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paapi_requests_total",
			Help: "Total product advertising API requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paapi_request_duration_seconds",
			Help:    "Product advertising API request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	registry.MustRegister(requests, duration)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: duration,
	}
}

// Observe 记录一次请求
func (m *Metrics) Observe(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}
