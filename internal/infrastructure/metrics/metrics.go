package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment and enrollment counters exposed on /metrics.
var (
	PaymentsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nepcourses_payments_initiated_total",
		Help: "Payment initiation requests by gateway.",
	}, []string{"gateway"})

	PaymentCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nepcourses_payment_callbacks_total",
		Help: "Gateway callbacks by gateway and outcome.",
	}, []string{"gateway", "outcome"})

	EnrollmentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nepcourses_enrollments_created_total",
		Help: "Enrollments created by type.",
	}, []string{"type"})
)
