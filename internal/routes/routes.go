package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/token"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Products      *handlers.ProductHandler
	Admin         *handlers.AdminHandler
	Subscriptions *handlers.SubscriptionHandler
	Stripe        *handlers.StripeHandler
	Health        *handlers.HealthHandler
}

func Setup(app *fiber.App, tokens *token.Service, roles middleware.RoleLookup, h Handlers) {
	// Liveness
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.Check)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(rateLimit(60))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth", rateLimit(10))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	protected := middleware.JWTProtected(tokens)

	users := api.Group("/users", protected)
	users.Get("/me", h.Users.Me)
	users.Put("/me", h.Users.UpdateMe)

	products := api.Group("/products")
	products.Get("/", h.Products.List)
	products.Get("/:id", h.Products.Get)

	admin := api.Group("/admin", protected, middleware.AdminRequired(roles))
	admin.Get("/users", h.Admin.ListUsers)
	admin.Post("/products", h.Admin.CreateProduct)
	admin.Put("/products/:id", h.Admin.UpdateProduct)
	admin.Delete("/products/:id", h.Admin.DeleteProduct)

	subs := api.Group("/subscriptions", protected)
	subs.Get("/", h.Subscriptions.List)
	subs.Post("/", h.Subscriptions.Create)
	subs.Patch("/:id", h.Subscriptions.Update)

	// Webhook authenticates by signature, not bearer token.
	stripe := api.Group("/stripe")
	stripe.Post("/create-checkout-session", protected, h.Stripe.CreateCheckoutSession)
	stripe.Post("/webhook", h.Stripe.Webhook)
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
