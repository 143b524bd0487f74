package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout submissions by outcome (created, invalid, empty, failed, busy).
	CheckoutTotal *prometheus.CounterVec
	// OrderFinalAmount observes the final amount of each created order.
	OrderFinalAmount prometheus.Histogram
	// OrderDiscountTotal counts created orders that qualified for the bulk discount.
	OrderDiscountTotal prometheus.Counter
	// CartRejectionsTotal counts cart mutations declined by quantity validation.
	CartRejectionsTotal *prometheus.CounterVec
	// OrderReviewsTotal counts staff review decisions.
	OrderReviewsTotal *prometheus.CounterVec
	// BookingsCreatedTotal counts pickup bookings by initial status.
	BookingsCreatedTotal *prometheus.CounterVec
	// EventsPublishedTotal counts domain event fan-out by sink and result.
	EventsPublishedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers storefront collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Checkout submissions by outcome.",
		}, []string{"result"}))
		OrderFinalAmount = registerOrReuse(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_final_amount",
			Help:      "Final amount of created orders.",
			Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000},
		}))
		OrderDiscountTotal = registerOrReuse(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_discount_applied_total",
			Help:      "Created orders that received the bulk discount.",
		}))
		CartRejectionsTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_rejections_total",
			Help:      "Cart quantity changes declined by validation.",
		}, []string{"reason"}))
		OrderReviewsTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_reviews_total",
			Help:      "Staff order review decisions.",
		}, []string{"decision"}))
		BookingsCreatedTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Pickup bookings created by initial status.",
		}, []string{"status"}))
		EventsPublishedTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain event deliveries by sink and result.",
		}, []string{"sink", "result"}))
	})
}

// Helpers below tolerate collectors that were never registered (tests, tools).

// IncCheckout records a checkout outcome.
func IncCheckout(result string) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(result).Inc()
	}
}

// ObserveOrder records the final amount of a created order.
func ObserveOrder(finalAmount float64, discounted bool) {
	if OrderFinalAmount != nil {
		OrderFinalAmount.Observe(finalAmount)
	}
	if discounted && OrderDiscountTotal != nil {
		OrderDiscountTotal.Inc()
	}
}

// IncCartRejection records a declined cart change.
func IncCartRejection(reason string) {
	if CartRejectionsTotal != nil {
		CartRejectionsTotal.WithLabelValues(reason).Inc()
	}
}

// IncOrderReview records a staff decision.
func IncOrderReview(decision string) {
	if OrderReviewsTotal != nil {
		OrderReviewsTotal.WithLabelValues(decision).Inc()
	}
}

// IncBookingCreated records a new booking.
func IncBookingCreated(status string) {
	if BookingsCreatedTotal != nil {
		BookingsCreatedTotal.WithLabelValues(status).Inc()
	}
}

// IncEventPublished records a fan-out attempt.
func IncEventPublished(sink, result string) {
	if EventsPublishedTotal != nil {
		EventsPublishedTotal.WithLabelValues(sink, result).Inc()
	}
}
