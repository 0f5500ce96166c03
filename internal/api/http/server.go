package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/observability"
)

// ServerOptions configures the Fiber application.
type ServerOptions struct {
	AppName        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Routes         RouteConfig
}

// NewServer builds the Fiber app with global middlewares and routes attached.
func NewServer(opts ServerOptions) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})
	RegisterMiddlewares(app, logger, opts.Metrics, opts.RequestTimeout)

	routes := opts.Routes
	if routes.Metrics == nil {
		routes.Metrics = opts.Metrics
	}
	RegisterRoutes(app, routes)
	return app
}
