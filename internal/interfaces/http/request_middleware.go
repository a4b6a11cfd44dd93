package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// HeaderRequestID header de correlación de peticiones.
const HeaderRequestID = "X-Request-ID"

// RequestLogger asigna X-Request-ID y registra método, ruta, estado y latencia.
// Nunca registra cookies ni el header Authorization.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("access")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Locals(LocalRequestID, rid)
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
