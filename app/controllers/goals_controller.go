package controllers

import (
	"errors"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var updateGoalFields = map[string]string{
	"title":  "Title",
	"status": "Status",
}

// lookupGoal loads the current user's goal named by the given route param.
// Unknown, malformed and foreign uuids all yield queries.ErrNotFound.
func (ctl *Controller) lookupGoal(c *fiber.Ctx, param string) (*models.Goal, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return nil, queries.ErrNotFound
	}
	return ctl.Goals.GetGoalByUUID(c.UserContext(), middleware.CurrentUser(c).ID, id)
}

func (ctl *Controller) goalLookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, queries.ErrNotFound) {
		return message(c, fiber.StatusNotFound, msgGoalNotFound)
	}
	return ctl.internalError(c, "get goal", err)
}

func (ctl *Controller) GetGoals(c *fiber.Ctx) error {
	goals, err := ctl.Goals.ListGoalsByUser(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return ctl.internalError(c, "list goals", err)
	}

	resp := make([]models.GoalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, goals[i].Response())
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"goals": resp,
	})
}

func (ctl *Controller) CreateGoal(c *fiber.Ctx) error {
	req := &models.CreateGoalRequest{}
	fields, errs, err := bindOrReject(c, req)
	if fields == nil {
		return err
	}
	if err := ctl.validateAll(errs, req); err != nil {
		return ctl.internalError(c, "validate goal", err)
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	goal := models.NewGoal(middleware.CurrentUser(c).ID, req.Title, req.Description, ctl.now())
	if err := ctl.Goals.CreateGoal(c.UserContext(), goal); err != nil {
		return ctl.internalError(c, "create goal", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msgGoalCreated,
		"goal":    goal.Response(),
	})
}

func (ctl *Controller) GetGoal(c *fiber.Ctx) error {
	goal, err := ctl.lookupGoal(c, "uuid")
	if err != nil {
		return ctl.goalLookupFailed(c, err)
	}

	tasks, err := ctl.Tasks.ListTasksByGoal(c.UserContext(), goal.UserID, goal.ID)
	if err != nil {
		return ctl.internalError(c, "list goal tasks", err)
	}

	now := ctl.now()
	detail := models.GoalDetailResponse{
		GoalResponse: goal.Response(),
		Tasks:        make([]models.TaskResponse, 0, len(tasks)),
	}
	for i := range tasks {
		detail.Tasks = append(detail.Tasks, tasks[i].Response(now))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"goal": detail,
	})
}

// UpdateGoal applies the fields present in the body. A status change keeps
// completed_at in step with it.
func (ctl *Controller) UpdateGoal(c *fiber.Ctx) error {
	goal, err := ctl.lookupGoal(c, "uuid")
	if err != nil {
		return ctl.goalLookupFailed(c, err)
	}

	req := &models.UpdateGoalRequest{}
	fields, errs, err := bindOrReject(c, req)
	if fields == nil {
		return err
	}
	if err := ctl.validatePresent(errs, req, fields, updateGoalFields, nil); err != nil {
		return ctl.internalError(c, "validate goal", err)
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	now := ctl.now()
	if _, ok := fields["title"]; ok {
		goal.Title = req.Title
	}
	if _, ok := fields["description"]; ok {
		goal.Description = req.Description
	}
	if _, ok := fields["status"]; ok {
		goal.SetStatus(req.Status, now)
	}
	goal.UpdatedAt = now

	if err := ctl.Goals.UpdateGoal(c.UserContext(), goal); err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			return message(c, fiber.StatusNotFound, msgGoalNotFound)
		}
		return ctl.internalError(c, "update goal", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": msgGoalUpdated,
		"goal":    goal.Response(),
	})
}

// DeleteGoal removes the goal together with its tasks and their history.
func (ctl *Controller) DeleteGoal(c *fiber.Ctx) error {
	goal, err := ctl.lookupGoal(c, "uuid")
	if err != nil {
		return ctl.goalLookupFailed(c, err)
	}
	if err := ctl.Goals.DeleteGoal(c.UserContext(), goal.UserID, goal.ID); err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			return message(c, fiber.StatusNotFound, msgGoalNotFound)
		}
		return ctl.internalError(c, "delete goal", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
