package routes

import (
	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterDashboardRoutes(api fiber.Router, ctl *controllers.Controller, protected fiber.Handler) {
	dashboard := api.Group("/dashboard", protected)
	dashboard.Get("/stats", ctl.GetDashboardStats)
	dashboard.Get("/goals/:uuid/progress", ctl.GetGoalProgress)
}
