package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nail_http_requests_total",
			Help: "Requisições HTTP por rota e status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nail_http_request_duration_seconds",
			Help:    "Tempo de resposta HTTP em segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Agendamentos
	AppointmentEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nail_appointment_events_total",
			Help: "Eventos do ciclo de vida dos agendamentos",
		},
		[]string{"event"},
	)

	BookingLockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nail_booking_lock_contention_total",
			Help: "Tentativas de reserva recusadas por lock ocupado",
		},
	)

	// Pagamentos
	PaymentEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nail_payment_events_total",
			Help: "Eventos de pagamento por ação",
		},
		[]string{"action"},
	)

	// Notificações
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nail_notifications_sent_total",
			Help: "Envios de notificação por canal e resultado",
		},
		[]string{"channel", "result"},
	)

	// Worker
	WorkerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nail_worker_runs_total",
			Help: "Execuções das tarefas do worker",
		},
		[]string{"task", "result"},
	)
)

// Middleware records request count and latency labelled by the route
// template, so path params do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
