package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	updateTaskFields = map[string]string{
		"title":           "Title",
		"type":            "Type",
		"recurrence_type": "RecurrenceType",
		"due_date":        "DueDate",
		"status":          "Status",
	}
	// A present type re-checks the fields it makes required.
	updateTaskImplied = map[string][]string{
		"type": {"RecurrenceType", "DueDate"},
	}
)

func (ctl *Controller) lookupTask(c *fiber.Ctx) (*models.Task, error) {
	id, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return nil, queries.ErrNotFound
	}
	return ctl.Tasks.GetTaskByUUID(c.UserContext(), middleware.CurrentUser(c).ID, id)
}

func (ctl *Controller) taskLookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, queries.ErrNotFound) {
		return message(c, fiber.StatusNotFound, msgTaskNotFound)
	}
	return ctl.internalError(c, "get task", err)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (ctl *Controller) parseDueDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := models.ParseDate(s, ctl.Location)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// GetAllTasks lists every task of the current user, newest first, with the
// goal each belongs to.
func (ctl *Controller) GetAllTasks(c *fiber.Ctx) error {
	tasks, err := ctl.Tasks.ListTasksByUser(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return ctl.internalError(c, "list tasks", err)
	}

	now := ctl.now()
	resp := make([]models.TaskWithGoalResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, tasks[i].ResponseWithGoal(now))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"tasks": resp,
	})
}

func (ctl *Controller) GetGoalTasks(c *fiber.Ctx) error {
	goal, err := ctl.lookupGoal(c, "uuid")
	if err != nil {
		return ctl.goalLookupFailed(c, err)
	}

	tasks, err := ctl.Tasks.ListTasksByGoal(c.UserContext(), goal.UserID, goal.ID)
	if err != nil {
		return ctl.internalError(c, "list goal tasks", err)
	}

	now := ctl.now()
	resp := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, tasks[i].Response(now))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"tasks": resp,
	})
}

func (ctl *Controller) bindCreateTask(c *fiber.Ctx) (*models.CreateTaskRequest, fieldErrors, error) {
	req := &models.CreateTaskRequest{}
	fields, errs, err := bindOrReject(c, req)
	if fields == nil {
		return nil, nil, err
	}
	if err := ctl.validateAll(errs, req); err != nil {
		return nil, nil, ctl.internalError(c, "validate task", err)
	}
	return req, errs, nil
}

func (ctl *Controller) newTask(c *fiber.Ctx, req *models.CreateTaskRequest, goal *models.Goal) *models.Task {
	return models.NewTask(
		middleware.CurrentUser(c).ID,
		goal,
		req.Title,
		req.Description,
		req.Type,
		optionalString(req.RecurrenceType),
		ctl.parseDueDate(req.DueDate),
		ctl.now(),
	)
}

// CreateGoalTask adds a task to the goal named in the route.
func (ctl *Controller) CreateGoalTask(c *fiber.Ctx) error {
	goal, err := ctl.lookupGoal(c, "uuid")
	if err != nil {
		return ctl.goalLookupFailed(c, err)
	}

	req, errs, err := ctl.bindCreateTask(c)
	if req == nil {
		return err
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	task := ctl.newTask(c, req, goal)
	if err := ctl.Tasks.CreateTask(c.UserContext(), task); err != nil {
		return ctl.internalError(c, "create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msgTaskCreated,
		"task":    task.Response(ctl.now()),
	})
}

// CreateTask adds a task that optionally links to one of the user's goals
// through goal_uuid.
func (ctl *Controller) CreateTask(c *fiber.Ctx) error {
	req, errs, err := ctl.bindCreateTask(c)
	if req == nil {
		return err
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	var goal *models.Goal
	if req.GoalUUID != "" {
		id, err := uuid.Parse(req.GoalUUID)
		if err == nil {
			goal, err = ctl.Goals.GetGoalByUUID(c.UserContext(), middleware.CurrentUser(c).ID, id)
		} else {
			err = queries.ErrNotFound
		}
		if err != nil {
			if errors.Is(err, queries.ErrNotFound) {
				return message(c, fiber.StatusNotFound, msgLinkedGoalAbsent)
			}
			return ctl.internalError(c, "get linked goal", err)
		}
	}

	task := ctl.newTask(c, req, goal)
	if err := ctl.Tasks.CreateTask(c.UserContext(), task); err != nil {
		return ctl.internalError(c, "create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msgTaskCreated,
		"task":    task.ResponseWithGoal(ctl.now()),
	})
}

func (ctl *Controller) GetTask(c *fiber.Ctx) error {
	task, err := ctl.lookupTask(c)
	if err != nil {
		return ctl.taskLookupFailed(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"task": task.Response(ctl.now()),
	})
}

// UpdateTask applies the fields present in the body. Moving the status to
// completed goes through the same transition as CompleteTask, and moving a
// completed task back to pending reopens it; either transition ignores the
// other fields.
func (ctl *Controller) UpdateTask(c *fiber.Ctx) error {
	task, err := ctl.lookupTask(c)
	if err != nil {
		return ctl.taskLookupFailed(c, err)
	}

	req := &models.UpdateTaskRequest{}
	fields, errs, err := bindOrReject(c, req)
	if fields == nil {
		return err
	}
	if err := ctl.validatePresent(errs, req, fields, updateTaskFields, updateTaskImplied); err != nil {
		return ctl.internalError(c, "validate task", err)
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	now := ctl.now()
	_, statusSent := fields["status"]
	switch {
	case statusSent && req.Status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted:
		completion, err := task.Complete(now, nil)
		if err != nil {
			return message(c, fiber.StatusBadRequest, msgTaskAlreadyDone)
		}
		err = ctl.Tasks.CompleteTask(c.UserContext(), task, completion)
		if err != nil {
			return ctl.taskWriteFailed(c, "complete task", err)
		}
	case statusSent && req.Status == models.TaskStatusPending && task.Status == models.TaskStatusCompleted:
		task.Reopen(now)
		if err := ctl.Tasks.UpdateTask(c.UserContext(), task); err != nil {
			return ctl.taskWriteFailed(c, "reopen task", err)
		}
	default:
		ctl.applyTaskFields(task, req, fields)
		task.UpdatedAt = now
		if err := ctl.Tasks.UpdateTask(c.UserContext(), task); err != nil {
			return ctl.taskWriteFailed(c, "update task", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": msgTaskUpdated,
		"task":    task.Response(now),
	})
}

func (ctl *Controller) applyTaskFields(task *models.Task, req *models.UpdateTaskRequest, fields map[string]json.RawMessage) {
	if _, ok := fields["title"]; ok {
		task.Title = req.Title
	}
	if _, ok := fields["description"]; ok {
		task.Description = req.Description
	}
	if _, ok := fields["type"]; ok {
		task.Type = req.Type
	}
	if _, ok := fields["recurrence_type"]; ok {
		task.RecurrenceType = optionalString(req.RecurrenceType)
	}
	if _, ok := fields["due_date"]; ok {
		task.DueDate = ctl.parseDueDate(req.DueDate)
	}
	if _, ok := fields["status"]; ok {
		task.Status = req.Status
	}
	if task.Type != models.TaskTypeRecurring {
		task.RecurrenceType = nil
	}
}

func (ctl *Controller) taskWriteFailed(c *fiber.Ctx, what string, err error) error {
	if errors.Is(err, queries.ErrNotFound) {
		return message(c, fiber.StatusNotFound, msgTaskNotFound)
	}
	return ctl.internalError(c, what, err)
}

// DeleteTask removes the task and its completion history.
func (ctl *Controller) DeleteTask(c *fiber.Ctx) error {
	task, err := ctl.lookupTask(c)
	if err != nil {
		return ctl.taskLookupFailed(c, err)
	}
	if err := ctl.Tasks.DeleteTask(c.UserContext(), task.UserID, task.ID); err != nil {
		return ctl.taskWriteFailed(c, "delete task", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteTask records a completion with optional notes. Recurring tasks are
// returned already reset to pending.
func (ctl *Controller) CompleteTask(c *fiber.Ctx) error {
	task, err := ctl.lookupTask(c)
	if err != nil {
		return ctl.taskLookupFailed(c, err)
	}
	if task.Status == models.TaskStatusCompleted {
		return message(c, fiber.StatusBadRequest, msgTaskAlreadyDone)
	}

	req := &models.CompleteTaskRequest{}
	fields, errs, err := bindOrReject(c, req)
	if fields == nil {
		return err
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	now := ctl.now()
	completion, err := task.Complete(now, req.Notes)
	if err != nil {
		return message(c, fiber.StatusBadRequest, msgTaskAlreadyDone)
	}
	if err := ctl.Tasks.CompleteTask(c.UserContext(), task, completion); err != nil {
		return ctl.taskWriteFailed(c, "complete task", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": msgTaskCompleted,
		"task":    task.Response(now),
	})
}

// GetTaskCompletions lists the completion history of a task, newest first.
func (ctl *Controller) GetTaskCompletions(c *fiber.Ctx) error {
	task, err := ctl.lookupTask(c)
	if err != nil {
		return ctl.taskLookupFailed(c, err)
	}

	completions, err := ctl.Tasks.ListCompletions(c.UserContext(), task.ID)
	if err != nil {
		return ctl.internalError(c, "list task completions", err)
	}

	resp := make([]models.CompletionResponse, 0, len(completions))
	for _, completion := range completions {
		resp = append(resp, completion.Response())
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"completions": resp,
	})
}
