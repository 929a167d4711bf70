package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records gateway order and verification activity.
type PaymentMetrics struct {
	ordersCreated   prometheus.Counter
	verifications   *prometheus.CounterVec
	gatewayDuration prometheus.Histogram
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_orders_created_total",
		Help: "Gateway orders created.",
	})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_verifications_total",
		Help: "Payment verification attempts by outcome.",
	}, []string{"outcome"})
	gatewayDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_gateway_request_seconds",
		Help:    "Duration of outbound gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(ordersCreated, verifications, gatewayDuration)
	return &PaymentMetrics{
		ordersCreated:   ordersCreated,
		verifications:   verifications,
		gatewayDuration: gatewayDuration,
	}
}

// IncOrderCreated increments the created-order counter.
func (p *PaymentMetrics) IncOrderCreated() {
	if p == nil || p.ordersCreated == nil {
		return
	}
	p.ordersCreated.Inc()
}

// IncVerification increments the verification counter for the given outcome.
func (p *PaymentMetrics) IncVerification(outcome string) {
	if p == nil || p.verifications == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	p.verifications.WithLabelValues(outcome).Inc()
}

// ObserveGatewayDuration records how long an outbound gateway call took.
func (p *PaymentMetrics) ObserveGatewayDuration(duration time.Duration) {
	if p == nil || p.gatewayDuration == nil {
		return
	}
	p.gatewayDuration.Observe(duration.Seconds())
}
