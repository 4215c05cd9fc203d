package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_registrations_total", Help: "Registration attempts by result"},
		[]string{"result"},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_logins_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	OTPVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_otp_verifications_total", Help: "OTP verification attempts by result"},
		[]string{"result"},
	)
	MailSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mail_sent_total", Help: "Outgoing OTP mails by transport and result"},
		[]string{"transport", "result"},
	)
	UnverifiedSwept = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_unverified_swept_total", Help: "Expired unverified accounts removed"},
	)
)

var once sync.Once

// MustRegister registers all collectors with the default registry. Safe to
// call more than once (tests build several routers).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal, ReqDuration, InFlight,
			Registrations, Logins, OTPVerifications, MailSent, UnverifiedSwept,
		)
	})
}

// Result maps an error to a short label value.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
