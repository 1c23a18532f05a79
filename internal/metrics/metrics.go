// Package metrics exposes process-wide Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LoginAttempts counts login attempts by outcome (success, failure).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edumanager",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// OTPSent counts verification emails by purpose and outcome.
	OTPSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edumanager",
		Name:      "otp_sent_total",
		Help:      "Verification codes dispatched by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	// OTPVerified counts code checks by purpose and outcome.
	OTPVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edumanager",
		Name:      "otp_verified_total",
		Help:      "Verification code checks by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edumanager",
		Name:      "bookings_created_total",
		Help:      "Bookings created.",
	})

	BookingsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edumanager",
		Name:      "bookings_deleted_total",
		Help:      "Bookings cancelled.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edumanager",
		Name:      "events_published_total",
		Help:      "Domain events handed to the message queue by outcome.",
	}, []string{"outcome"})
)

// Outcome label values.
const (
	Success = "success"
	Failure = "failure"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
