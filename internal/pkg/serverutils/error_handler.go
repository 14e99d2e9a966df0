package serverutils

import (
	"net/http"

	"english-tutor-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is installed as fiber.Config.ErrorHandler; controllers just return errors.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, body := Classify(err)

		details := map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"status": status,
			"error":  err.Error(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("HTTP", "Request failed", details)
		} else {
			log.Warn("HTTP", "Request rejected", details)
		}

		return ctx.Status(status).JSON(body)
	}
}
