package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upsert result labels
const (
	ResultCreated  = "created"
	ResultUpdated  = "updated"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	// HTTPRequestDuration observes request latency per route and status
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// OrderLineUpserts counts add-product operations by outcome
	OrderLineUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_line_upserts_total",
			Help: "Add-product-to-order operations by result",
		},
		[]string{"result"},
	)

	// StockRejections counts requests refused for insufficient stock
	StockRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_rejections_total",
			Help: "Requests rejected because available quantity was too low",
		},
	)

	// EventsPublished counts Kafka events by topic
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_published_total",
			Help: "Events published to Kafka by topic",
		},
		[]string{"topic"},
	)
)
