package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	CheckoutFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of checkout attempts rolled back",
	})

	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_created_total",
		Help: "Total number of reservations created",
	})

	ReservationConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_conflicts_total",
		Help: "Total number of reservations rejected by the conflict window",
	})

	ReviewsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_rejected_total",
		Help: "Total number of reviews rejected by eligibility checks",
	})

	LoyaltyPointsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_redeemed_total",
		Help: "Total loyalty points redeemed",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
