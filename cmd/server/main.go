package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prapeller/api-auth/pkg/config"
	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/auth/authapi"
	"github.com/prapeller/api-auth/pkg/logx"
)

func main() {
	cfg := config.Load()
	configureLogging()

	logx.Info("starting " + cfg.ProjectName)

	container := NewContainer(cfg)
	defer container.Cleanup()

	app := fiber.New(fiber.Config{
		AppName:               cfg.ProjectName,
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requireRequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-Id",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${header:X-Request-Id}\n",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Get(cfg.Server.DocsURL, apiDocsHandler)

	authapi.RegisterRoutes(app, container.IAM.Handlers, container.IAM.Middleware)

	app.Use(notFoundHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	container.StartBackgroundServices(ctx)

	startServer(app, cfg.Server.Port)
}

// requireRequestID enforces the request header contract: every request
// must carry X-Request-Id, or the edge fails closed with BadRequest —
// spec §6's request header contract, not a convenience default.
func requireRequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-Request-Id") == "" {
			return errx.Validation("missing X-Request-Id header").WithDetail("header", "X-Request-Id")
		}
		return c.Next()
	}
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{"status": "healthy"}

		if err := container.DB.Ping(); err != nil {
			health["status"] = "degraded"
			health["db"] = err.Error()
		} else {
			health["db"] = "healthy"
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func apiDocsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"api_version": "v1",
		"endpoints": fiber.Map{
			"register":            "POST /api/v1/auth/register",
			"login":               "POST /api/v1/auth/login",
			"refresh":             "POST /api/v1/auth/refresh-access-token",
			"verify":              "POST /api/v1/auth/verify-access-token",
			"login_oauth":         "GET /api/v1/auth/login-oauth/:provider",
			"oauth_redirect":      "GET /api/v1/auth/oauth-redirect/:provider",
			"confirm_email":       "GET /api/v1/auth/confirm-email/:registerToken",
			"logout":              "POST /api/v1/auth/logout",
			"logout_all":          "POST /api/v1/auth/logout-all",
			"me":                  "GET /api/v1/me/",
			"me_sessions":         "GET /api/v1/me/sessions",
			"me_sessions_active":  "GET /api/v1/me/sessions-active",
			"me_permissions":      "GET /api/v1/me/permissions",
			"me_update_creds":     "PUT /api/v1/me/update-credentials",
			"me_update_password":  "PUT /api/v1/me/update-password",
		},
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "route not found",
		"path":       c.Path(),
		"request_id": c.Get("X-Request-Id"),
	})
}

func globalErrorHandler(c *fiber.Ctx, err error) error {
	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": c.Get("X-Request-Id"),
	}).Errorf("request error: %v", err)

	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message, "request_id": c.Get("X-Request-Id")})
	}

	if e, ok := err.(*errx.Error); ok {
		resp := fiber.Map{
			"error":      e.Message,
			"code":       e.Code,
			"type":       string(e.Type),
			"request_id": c.Get("X-Request-Id"),
		}
		if len(e.Details) > 0 {
			resp["details"] = e.Details
		}
		return c.Status(e.HTTPStatus).JSON(resp)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "internal server error",
		"request_id": c.Get("X-Request-Id"),
	})
}

func configureLogging() {
	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		logx.SetLevel(logx.LevelDebug)
	case "warn":
		logx.SetLevel(logx.LevelWarn)
	case "error":
		logx.SetLevel(logx.LevelError)
	default:
		logx.SetLevel(logx.LevelInfo)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func startServer(app *fiber.App, port string) {
	go func() {
		logx.Infof("listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("server error: %v", err)
		}
	}()
	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan
	logx.Infof("received signal: %v, shutting down", sig)
	if err := app.ShutdownWithTimeout(30); err != nil {
		logx.Errorf("server forced to shutdown: %v", err)
	}
}
