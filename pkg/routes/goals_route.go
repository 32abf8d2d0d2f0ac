package routes

import (
	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterGoalsRoutes(api fiber.Router, ctl *controllers.Controller, protected fiber.Handler) {
	goal := api.Group("/goals", protected)
	goal.Get("/", ctl.GetGoals)
	goal.Post("/", ctl.CreateGoal)
	goal.Get("/:uuid", ctl.GetGoal)
	goal.Put("/:uuid", ctl.UpdateGoal)
	goal.Delete("/:uuid", ctl.DeleteGoal)
	goal.Get("/:uuid/tasks", ctl.GetGoalTasks)
	goal.Post("/:uuid/tasks", ctl.CreateGoalTask)
}
