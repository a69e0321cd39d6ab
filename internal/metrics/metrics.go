package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения label result
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultInactive = "inactive"
	ResultError    = "error"
)

// Logins - попытки входа по результату
var Logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aura_auth_logins_total",
		Help: "Total number of login attempts",
	},
	[]string{"result"},
)

// PasswordResets - выпуск (stage=issue) и погашение (stage=redeem) кодов
var PasswordResets = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aura_auth_password_resets_total",
		Help: "Total number of password reset operations",
	},
	[]string{"stage", "result"},
)

// TokenVerifications - проверки bearer токенов в AuthMiddleware
var TokenVerifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aura_auth_token_verifications_total",
		Help: "Total number of bearer token verifications",
	},
	[]string{"result"},
)

var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aura_http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "aura_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// RegisterMetrics регистрирует метрики в реестре. Паникует при повторной
// регистрации (соглашение prometheus).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Logins)
	reg.MustRegister(PasswordResets)
	reg.MustRegister(TokenVerifications)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
}

func RecordLogin(result string) {
	Logins.WithLabelValues(result).Inc()
}

func RecordPasswordReset(stage, result string) {
	PasswordResets.WithLabelValues(stage, result).Inc()
}

func RecordTokenVerification(result string) {
	TokenVerifications.WithLabelValues(result).Inc()
}

// RecordHTTPRequest - route это шаблон маршрута gin (c.FullPath()), а не сырой путь
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
