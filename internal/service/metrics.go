package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"rewear/internal/domain"
)

var (
	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rewear_redemptions_total", Help: "Point redemptions by result"},
		[]string{"result"},
	)
	swapRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "rewear_swap_requests_total", Help: "Swap requests created"},
	)
	listingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rewear_listings_total", Help: "Listing attempts by result"},
		[]string{"result"},
	)
	moderationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rewear_moderation_actions_total", Help: "Admin moderation actions"},
		[]string{"action"},
	)
	wardrobeSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "rewear_wardrobe_subscribers", Help: "Open wardrobe subscriptions"},
	)
)

func init() {
	prometheus.MustRegister(redemptionsTotal, swapRequestsTotal, listingsTotal, moderationTotal, wardrobeSubscribers)
}

// resultLabel 把领域错误归成有限的几个标签
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
