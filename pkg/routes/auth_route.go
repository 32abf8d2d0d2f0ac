package routes

import (
	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterAuthRoutes(api fiber.Router, ctl *controllers.Controller, protected, limited fiber.Handler) {
	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", limited, ctl.UserSignUp)
	auth.Post("/login", limited, ctl.UserSignIn)

	// Protected routes
	auth.Get("/user", protected, ctl.GetUser)
	auth.Post("/logout", protected, ctl.UserSignOut)
	auth.Delete("/account", protected, ctl.DeleteAccount)
}
