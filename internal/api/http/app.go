package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-directory/internal/observability"
)

// AppConfig holds fiber server settings.
type AppConfig struct {
	Name      string
	BodyLimit int
}

// NewApp builds the fiber app with the JSON error envelope installed.
func NewApp(cfg AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               cfg.Name,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, metrics),
	})
}
