package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/api/http/handlers"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix      string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := app.Group(prefix)
	required := cfg.AuthMiddleware.Required()
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	authGroup := api.Group("/auth")
	limited := cfg.RateLimiter.Handler()
	authGroup.Post("/register", limited, cfg.Auth.Register)
	authGroup.Post("/login", limited, cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.AuthMiddleware.Required(auth.RefreshTokenCookie, auth.AccessTokenCookie), cfg.Auth.Refresh)
	authGroup.Post("/logout", required, cfg.Auth.Logout)

	products := api.Group("/products")
	optional := cfg.AuthMiddleware.Optional()
	products.Post("/", required, cfg.Products.Create)
	products.Get("/", optional, cfg.Products.List)
	products.Get("/:id", optional, cfg.Products.Get)
	products.Patch("/:id", required, cfg.Products.Update)
	products.Delete("/:id", required, cfg.Products.Delete)
	products.Post("/:id/approve", required, adminOnly, cfg.Products.Approve)
	products.Post("/:id/disapprove", required, adminOnly, cfg.Products.Disapprove)

	users := api.Group("/users", required, adminOnly)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Post("/:id/ban", cfg.Users.Ban)
	users.Post("/:id/unban", cfg.Users.Unban)
}
