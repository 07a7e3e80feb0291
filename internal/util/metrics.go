package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ViewsOpenedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_views_opened_total",
		Help: "Total number of page views opened",
	})

	ViewsEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_views_evicted_total",
		Help: "Total number of idle page views evicted from the view store",
	})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"action"})

	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_submitted_total",
		Help: "Total number of orders accepted by the ordering API",
	})

	OrderSubmissionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_submissions_failed_total",
		Help: "Total number of order submissions that did not produce an order",
	}, []string{"reason"})

	StaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_stale_responses_total",
		Help: "Responses discarded because a newer request for the same slot was issued",
	}, []string{"slot"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Latency of calls to the ordering API",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
