package routes

import (
	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterTaskRoutes(api fiber.Router, ctl *controllers.Controller, protected fiber.Handler) {
	task := api.Group("/tasks", protected)
	task.Get("/", ctl.GetAllTasks)
	task.Post("/", ctl.CreateTask)
	task.Get("/:uuid", ctl.GetTask)
	task.Put("/:uuid", ctl.UpdateTask)
	task.Delete("/:uuid", ctl.DeleteTask)
	task.Post("/:uuid/complete", ctl.CompleteTask)
	task.Get("/:uuid/completions", ctl.GetTaskCompletions)
}
