package service

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rejection reasons recorded for failed intake attempts.
const (
	RejectHoneypot      = "honeypot"
	RejectValidation    = "validation"
	RejectDuplicate     = "duplicate"
	RejectCourseMissing = "course_not_found"
	RejectInactive      = "course_inactive"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	enrollments        *prometheus.CounterVec
	rejections         *prometheus.CounterVec
	couponResolutions  *prometheus.CounterVec
	paymentLinks       *prometheus.CounterVec
	providerLatency    prometheus.Observer
	notificationErrors prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_cache_latency_seconds",
		Help:    "Latency for catalog cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total catalog cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total catalog cache misses",
	})

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollments_created_total",
		Help: "Enrollments persisted, by course and whether a coupon applied",
	}, []string{"course", "coupon"})

	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_rejections_total",
		Help: "Rejected enrollment submissions by reason",
	}, []string{"reason"})

	couponResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_resolutions_total",
		Help: "Coupon lookups by outcome",
	}, []string{"outcome"})

	paymentLinks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_links_total",
		Help: "Payment link requests by method and outcome",
	}, []string{"method", "outcome"})

	providerLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_provider_latency_seconds",
		Help:    "Latency of payment provider calls",
		Buckets: prometheus.DefBuckets,
	})

	notificationErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Best-effort notifications that failed to publish",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses, enrollments,
		rejections, couponResolutions, paymentLinks, providerLatency, notificationErrors, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		enrollments:        enrollments,
		rejections:         rejections,
		couponResolutions:  couponResolutions,
		paymentLinks:       paymentLinks,
		providerLatency:    providerLatency,
		notificationErrors: notificationErrors,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// TrackQueueDepth exposes the buffered length of a background queue.
func (m *MetricsService) TrackQueueDepth(queue string, depth func() int) {
	if m == nil || depth == nil {
		return
	}
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "background_queue_depth",
		Help:        "Jobs buffered in a background queue",
		ConstLabels: prometheus.Labels{"queue": queue},
	}, func() float64 {
		return float64(depth())
	})
	if err := m.registry.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			panic(err)
		}
	}
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordEnrollment counts a persisted enrollment.
func (m *MetricsService) RecordEnrollment(course string, withCoupon bool) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(course, fmt.Sprintf("%t", withCoupon)).Inc()
}

// RecordRejection counts a rejected submission.
func (m *MetricsService) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// RecordCouponResolution counts coupon outcomes (applied, not_found, inactive, invalid, lookup_failed).
func (m *MetricsService) RecordCouponResolution(outcome string) {
	if m == nil {
		return
	}
	m.couponResolutions.WithLabelValues(outcome).Inc()
}

// RecordPaymentLink counts payment link requests and provider latency.
func (m *MetricsService) RecordPaymentLink(method, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.paymentLinks.WithLabelValues(method, outcome).Inc()
	if duration > 0 {
		m.providerLatency.Observe(duration.Seconds())
	}
}

// RecordNotificationFailure counts a failed best-effort publish.
func (m *MetricsService) RecordNotificationFailure() {
	if m == nil {
		return
	}
	m.notificationErrors.Inc()
}
