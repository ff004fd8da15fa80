package http

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-directory/internal/normalize"
	"github.com/spec-kit/shop-directory/internal/observability"
	"github.com/spec-kit/shop-directory/internal/ratelimit"
	apperrors "github.com/spec-kit/shop-directory/pkg/util/errorutil"
)

// MiddlewareConfig configures the global middleware chain.
type MiddlewareConfig struct {
	Timeout          time.Duration
	CORSAllowOrigins string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg MiddlewareConfig) {
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	render := ErrorHandler(logger, metrics)
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				_ = render(c, err)
				err = nil
			}
		}()
		return c.Next()
	}
}

// ErrorHandler renders err in the failure envelope. It is also installed as
// the fiber app's ErrorHandler so framework errors (body limit, routing)
// share the shape.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

		body := fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}
		if len(domainErr.Details) > 0 {
			body["details"] = domainErr.Details
		}
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
				zap.String("path", c.Path()),
				zap.Error(domainErr))
		}
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
			"success": false,
			"message": domainErr.Message,
			"error":   body,
		})
	}
}

// RateLimit throttles a route per caller. The key is the email in the JSON
// body when present, otherwise the client IP.
func RateLimit(limiter *ratelimit.LimiterStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		key := "ip:" + c.IP()
		var probe struct {
			Email string `json:"email"`
		}
		if json.Unmarshal(c.Body(), &probe) == nil {
			if email := normalize.Email(probe.Email); email != "" {
				key = "email:" + email
			}
		}
		if !limiter.Allow(key) {
			return apperrors.NewTooManyRequests("too many requests, slow down")
		}
		return c.Next()
	}
}
