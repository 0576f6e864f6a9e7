package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/billing"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/token"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	sink := logging.NewDBSink(db.Privileged)
	slog.SetDefault(slog.New(logging.NewFanout(stdout, sink)))

	retentionDone := make(chan struct{})
	logging.StartRetention(db.Privileged, logging.DefaultRetention, retentionDone)

	// Repositories
	accounts := repository.NewAccountRepository(db)
	profiles := repository.NewProfileRepository(db)
	products := repository.NewProductRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)

	// Services
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	stripeClient := billing.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	authService := services.NewAuthService(accounts, profiles, tokens)
	profileService := services.NewProfileService(profiles)
	productService := services.NewProductService(products)
	subscriptionService := services.NewSubscriptionService(subscriptions, products)
	billingService := services.NewBillingService(products, profiles, subscriptions, stripeClient, cfg.FrontendURL)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg.AllowedOrigins()))
	app.Use(middleware.SecureHeaders())

	routes.Setup(app, tokens, profileService, routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUserHandler(profileService),
		Products:      handlers.NewProductHandler(productService),
		Admin:         handlers.NewAdminHandler(profileService, productService),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptionService),
		Stripe:        handlers.NewStripeHandler(billingService),
		Health:        handlers.NewHealthHandler(db),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(retentionDone)
	sink.Stop()
	sentry.Flush(2 * time.Second)

	if err := db.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// customErrorHandler covers errors that escape the handlers: unknown
// routes, body limit, rate limiting and recovered panics.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Detail:    message,
		ErrorCode: kindForStatus(code).String(),
	})
}

func kindForStatus(code int) apperr.Kind {
	switch code {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return apperr.KindBadRequest
	case fiber.StatusUnauthorized:
		return apperr.KindUnauthorized
	case fiber.StatusForbidden:
		return apperr.KindForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperr.KindNotFound
	case fiber.StatusConflict:
		return apperr.KindConflict
	case fiber.StatusServiceUnavailable, fiber.StatusTooManyRequests:
		return apperr.KindUnavailable
	default:
		return apperr.KindInternal
	}
}
