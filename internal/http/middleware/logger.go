package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"gh300site/internal/logging"
)

// LoggerWithWriter logs each HTTP request as one JSON line on w.
// Fields: request_id, method, path, status, latency (ms), ts.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logging.New(w, loc)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.Log(map[string]any{
			"level":      "info",
			"msg":        "http_request",
			"request_id": GetRequestID(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     statusOf(c, err),
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})

		return err
	}
}

// statusOf is the status the client will see. When a handler returns an
// error the global error handler has not written the response yet.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
