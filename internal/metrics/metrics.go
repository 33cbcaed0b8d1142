// Package metrics exposes Prometheus collectors for the HTTP API and the
// document upload workflow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "juridico"

// Upload outcomes recorded by RecordUpload.
const (
	OutcomeUploaded = "uploaded"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeRemoved  = "removed"
)

// Registry owns every collector. The zero value is not usable; call New.
type Registry struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal     *prometheus.CounterVec
	uploadBytes      prometheus.Histogram
	ordersCompleted  prometheus.Counter
	ordersCreated    *prometheus.CounterVec
	templateResolved *prometheus.CounterVec
}

func New(service string) *Registry {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: constLabels,
		},
		[]string{"method", "route", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"method", "route"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: constLabels,
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "uploads",
			Name:        "total",
			Help:        "Document uploads by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"},
	)
	uploadBytes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "uploads",
			Name:        "size_bytes",
			Help:        "Size of accepted document uploads.",
			Buckets:     prometheus.ExponentialBuckets(16*1024, 2, 10),
			ConstLabels: constLabels,
		},
	)
	ordersCompleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "orders",
			Name:        "documents_complete_total",
			Help:        "Orders whose required documents were all uploaded.",
			ConstLabels: constLabels,
		},
	)
	ordersCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "orders",
			Name:        "created_total",
			Help:        "Orders created by payment method.",
			ConstLabels: constLabels,
		},
		[]string{"payment_method"},
	)
	templateResolved := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "catalog",
			Name:        "resolutions_total",
			Help:        "Order items by requirement source (template, features, default).",
			ConstLabels: constLabels,
		},
		[]string{"source"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		uploadBytes,
		ordersCompleted,
		ordersCreated,
		templateResolved,
	)

	return &Registry{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		uploadsTotal:     uploadsTotal,
		uploadBytes:      uploadBytes,
		ordersCompleted:  ordersCompleted,
		ordersCreated:    ordersCreated,
		templateResolved: templateResolved,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight gauge. Routes are
// labelled by their gin pattern so path parameters do not explode cardinality.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		r.requestInFlight.Inc()
		defer r.requestInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.requestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (r *Registry) RecordUpload(outcome string, size int64) {
	r.uploadsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeUploaded && size > 0 {
		r.uploadBytes.Observe(float64(size))
	}
}

func (r *Registry) RecordOrderComplete() {
	r.ordersCompleted.Inc()
}

func (r *Registry) RecordOrderCreated(paymentMethod string) {
	if paymentMethod == "" {
		paymentMethod = "unknown"
	}
	r.ordersCreated.WithLabelValues(paymentMethod).Inc()
}

func (r *Registry) RecordResolution(source string) {
	r.templateResolved.WithLabelValues(source).Inc()
}
