package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/booking-service/internal/api/http/handlers"
	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/config"
	"github.com/spec-kit/booking-service/internal/observability"
	"github.com/spec-kit/booking-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	ServiceTypes   *handlers.ServiceTypesHandler
	Bookings       *handlers.BookingsHandler
	PasswordReset  *handlers.PasswordResetHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiter        *ratelimit.Limiter
	RateLimit      config.RateLimitConfig
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Paths also match with a trailing slash.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin()

	loginLimit := cfg.Limiter.Middleware("login", cfg.RateLimit.LoginLimit, seconds(cfg.RateLimit.LoginWindowSec))
	resetLimit := cfg.Limiter.Middleware("password_reset_request", cfg.RateLimit.ResetRequestLimit, seconds(cfg.RateLimit.ResetRequestWindowS))

	app.Post("/login", loginLimit, cfg.Auth.Login)
	app.Post("/token/refresh", cfg.Auth.Refresh)
	app.Post("/token/verify", cfg.Auth.Verify)
	app.Post("/signup", cfg.Auth.Signup)
	app.Get("/user/me", authenticated, cfg.Auth.Me)

	app.Post("/password-reset-request", resetLimit, cfg.PasswordReset.Request)
	app.Post("/password-reset-verify", cfg.PasswordReset.Verify)
	app.Post("/password-reset-change", cfg.PasswordReset.Change)

	app.Post("/booking-for-user", cfg.Bookings.CreateForUser)
	app.Get("/booking-for-user", cfg.Bookings.MethodNotAllowed)
	app.Put("/booking-for-user", cfg.Bookings.MethodNotAllowed)
	app.Patch("/booking-for-user", cfg.Bookings.MethodNotAllowed)
	app.Delete("/booking-for-user", cfg.Bookings.MethodNotAllowed)

	app.Get("/admin/dashboard", authenticated, admin, cfg.Bookings.Dashboard)

	app.Get("/service-type", cfg.ServiceTypes.List)
	app.Get("/service-type/:id", cfg.ServiceTypes.Get)
	app.Post("/service-type", authenticated, admin, cfg.ServiceTypes.Create)
	app.Put("/service-type/:id", authenticated, admin, cfg.ServiceTypes.Update)
	app.Patch("/service-type/:id", authenticated, admin, cfg.ServiceTypes.Patch)
	app.Delete("/service-type/:id", authenticated, admin, cfg.ServiceTypes.Delete)

	users := app.Group("/users", authenticated, admin)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Patch("/:id", cfg.Users.Patch)
	users.Delete("/:id", cfg.Users.Delete)

	roles := app.Group("/roles", authenticated, admin)
	roles.Get("/", cfg.Roles.List)
	roles.Post("/", cfg.Roles.Create)
	roles.Get("/:id", cfg.Roles.Get)
	roles.Put("/:id", cfg.Roles.Update)
	roles.Patch("/:id", cfg.Roles.Patch)
	roles.Delete("/:id", cfg.Roles.Delete)

	bookings := app.Group("/bookings", authenticated, admin)
	bookings.Get("/", cfg.Bookings.List)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Put("/:id", cfg.Bookings.Update)
	bookings.Patch("/:id", cfg.Bookings.Patch)
	bookings.Delete("/:id", cfg.Bookings.Delete)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
