package handler

import (
	"github.com/gofiber/fiber/v2"

	"gh300site/internal/health"
)

// HealthCheck runs every registered check and reports them as JSON.
// It answers 503 when any check is unhealthy.
func HealthCheck(reg *health.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep := reg.Run(c.UserContext())

		status := fiber.StatusOK
		if rep.Status != health.Healthy {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(rep)
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
