package routes

import (
	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

// Register mounts the health check and every API route under /api.
// rateLimit is the per-minute allowance of the public auth endpoints.
func Register(app *fiber.App, ctl *controllers.Controller, auth middleware.Auth, rateLimit int) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := middleware.JWTProtected(auth)
	limited := middleware.RateLimit(rateLimit)

	api := app.Group("/api")
	RegisterAuthRoutes(api, ctl, protected, limited)
	RegisterDashboardRoutes(api, ctl, protected)
	RegisterGoalsRoutes(api, ctl, protected)
	RegisterTaskRoutes(api, ctl, protected)
}
