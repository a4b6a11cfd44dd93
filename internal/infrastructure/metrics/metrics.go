// Package metrics expone las métricas Prometheus del gateway.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pos-dashboard/internal/domain/access"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

// Metrics colectores del proceso, registrados en un registro propio.
type Metrics struct {
	reg *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GateDecisions       *prometheus.CounterVec
	SessionsExpired     prometheus.Counter
	ShiftClosures       *prometheus.CounterVec
	StaleShifts         prometheus.Gauge
}

// New crea y registra los colectores.
func New(namespace string) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gate_decisions_total",
				Help:      "Page gate decisions by outcome",
			},
			[]string{"outcome"},
		),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Sessions ended by a backend 401",
		}),
		ShiftClosures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shift_closures_total",
				Help:      "Shift closures by resulting status",
			},
			[]string{"status"},
		),
		StaleShifts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_open_shifts",
			Help:      "Shifts still open past the stale threshold",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.GateDecisions,
		m.SessionsExpired, m.ShiftClosures, m.StaleShifts,
	)
	return m
}

// Registry registro propio (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Middleware cuenta peticiones y latencia por ruta registrada.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = "undefined"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
}

// ObserveGate registra una decisión del gate.
func (m *Metrics) ObserveGate(o access.Outcome) {
	m.GateDecisions.WithLabelValues(string(o)).Inc()
}

// ObserveExpired registra una sesión expirada (firma de session.Service.OnExpired).
func (m *Metrics) ObserveExpired(string) {
	m.SessionsExpired.Inc()
}

// ObserveClose registra el resultado de un cierre de turno.
func (m *Metrics) ObserveClose(s entity.ShiftStatus) {
	m.ShiftClosures.WithLabelValues(string(s)).Inc()
}

// SetStale actualiza el número de turnos abiertos vencidos.
func (m *Metrics) SetStale(n int) {
	m.StaleShifts.Set(float64(n))
}
