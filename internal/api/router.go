package api

import (
	"context"

	"ritcompass/docs"
	"ritcompass/internal/api/handlers"
	"ritcompass/pkg/auth"
	"ritcompass/pkg/config"
	"ritcompass/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the HTTP app. Request handlers run under contexts derived
// from ctx, so cancelling it aborts in-flight model calls.
func SetupRouter(
	ctx context.Context,
	cfg *config.ServerConfig,
	askHandler *handlers.AskHandler,
	decoder *auth.Decoder,
	gatherer prometheus.Gatherer,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.BaseContext(ctx))
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// Swagger
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API routes
	api := app.Group("/api/v1", middleware.OptionalClaims(decoder, appLogger))

	llm := api.Group("/llm")
	llm.Post("/ask", askHandler.Ask)

	appLogger.Info("Routes registered")
	return app
}
