package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-directory/internal/api/http/handlers"
	"github.com/spec-kit/shop-directory/internal/auth"
	"github.com/spec-kit/shop-directory/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountHandler
	Listings       *handlers.ListingHandler
	Dashboard      *handlers.DashboardHandler
	Public         *handlers.PublicHandler
	AuthMiddleware *auth.AuthMiddleware
	AccountLimiter *ratelimit.LimiterStore
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	throttled := RateLimit(cfg.AccountLimiter)
	api.Post("/register", throttled, cfg.Accounts.Register)
	api.Post("/login", throttled, cfg.Accounts.Login)
	api.Get("/users", cfg.Accounts.ListUsers)

	api.Post("/businesses", cfg.Listings.Create)
	api.Get("/businesses", cfg.Listings.List)
	api.Get("/businesses/check/:email", cfg.Listings.CheckOwner)

	dashboard := api.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/business/:email", cfg.Dashboard.GetBusiness)
	dashboard.Put("/business/:id", cfg.Dashboard.UpdateBusiness)
	dashboard.Get("/products/:businessId", cfg.Dashboard.ListProducts)
	dashboard.Post("/products", cfg.Dashboard.CreateProduct)
	dashboard.Put("/products/:id", cfg.Dashboard.UpdateProduct)
	dashboard.Delete("/products/:id", cfg.Dashboard.DeleteProduct)
	dashboard.Get("/stats/:businessId", cfg.Dashboard.Stats)

	public := api.Group("/public")
	public.Get("/business/:id", cfg.Public.GetBusiness)
	public.Get("/products/:businessId", cfg.Public.ListProducts)
	public.Get("/reviews/:businessId", cfg.Public.ListReviews)
	public.Post("/reviews", cfg.Public.CreateReview)
}
