package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RequestTimeout limita el contexto de cada petición; los repositorios lo respetan
// y un vencimiento termina en StorageError (503).
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequestLogger propaga el request id al contexto de la petición y registra método,
// ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if id, ok := c.Locals("requestid").(string); ok {
			c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), id))
		}
		err := c.Next()
		status := c.Response().StatusCode()
		reqLog := log.Ctx(c.UserContext())
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError || err != nil {
			ev = reqLog.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return err
	}
}
