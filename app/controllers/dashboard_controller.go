package controllers

import (
	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats aggregates the current user's goals and tasks. Nothing is
// cached; every call reads the store.
func (ctl *Controller) GetDashboardStats(c *fiber.Ctx) error {
	userID := middleware.CurrentUser(c).ID

	goals, err := ctl.Goals.ListGoalsByUser(c.UserContext(), userID)
	if err != nil {
		return ctl.internalError(c, "list goals", err)
	}
	tasks, err := ctl.Tasks.ListTasksByUser(c.UserContext(), userID)
	if err != nil {
		return ctl.internalError(c, "list tasks", err)
	}

	return c.Status(fiber.StatusOK).JSON(models.BuildDashboardStats(goals, tasks, ctl.now(), ctl.Location))
}

func (ctl *Controller) GetGoalProgress(c *fiber.Ctx) error {
	goal, err := ctl.lookupGoal(c, "uuid")
	if err != nil {
		return ctl.goalLookupFailed(c, err)
	}

	tasks, err := ctl.Tasks.ListTasksByGoal(c.UserContext(), goal.UserID, goal.ID)
	if err != nil {
		return ctl.internalError(c, "list goal tasks", err)
	}

	return c.Status(fiber.StatusOK).JSON(models.BuildGoalProgress(goal, tasks, ctl.now(), ctl.Location))
}
