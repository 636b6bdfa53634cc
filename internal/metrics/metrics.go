package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTP lifecycle
	OTPSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_otp_sent_total",
		Help: "Total number of OTP codes issued.",
	}, []string{"purpose"})
	OTPVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_otp_verify_total",
		Help: "Total number of OTP verification attempts by outcome.",
	}, []string{"result"}) // result: success, expired, invalid, too_many_attempts, not_found
	OTPSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_otp_swept_total",
		Help: "Total number of expired OTP records removed by the sweeper.",
	})
	EmailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_email_failures_total",
		Help: "Total number of emails that could not be delivered.",
	})

	// Sessions
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"status"})
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_token_refresh_total",
		Help: "Total number of refresh-token rotations by outcome.",
	}, []string{"result"})

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	InFlightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "Current number of in-flight HTTP requests.",
	})
)
