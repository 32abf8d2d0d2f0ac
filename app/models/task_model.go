package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TaskTypeSimple    = "simple"
	TaskTypeRecurring = "recurring"
	TaskTypeDeadline  = "deadline"

	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"

	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

var ErrTaskAlreadyCompleted = errors.New("task already completed")

type Task struct {
	ID             int64      `json:"-" db:"id"`
	UUID           uuid.UUID  `json:"uuid" db:"uuid"`
	UserID         int64      `json:"-" db:"user_id"`
	GoalID         *int64     `json:"-" db:"goal_id"`
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description" db:"description"`
	Type           string     `json:"type" db:"type"`
	Status         string     `json:"status" db:"status"`
	RecurrenceType *string    `json:"recurrence_type" db:"recurrence_type"`
	DueDate        *time.Time `json:"due_date" db:"due_date"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	LastResetAt    *time.Time `json:"last_reset_at" db:"last_reset_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Joined from goals when the task belongs to one.
	GoalUUID  *uuid.UUID `json:"-" db:"-"`
	GoalTitle *string    `json:"-" db:"-"`
}

// TaskCompletion is an append-only record of one completion event.
type TaskCompletion struct {
	ID          int64     `json:"-" db:"id"`
	TaskID      int64     `json:"-" db:"task_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
	Notes       *string   `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewTask builds a pending task. recurrenceType is only kept for recurring
// tasks.
func NewTask(userID int64, goal *Goal, title string, description *string, taskType string, recurrenceType *string, dueDate *time.Time, now time.Time) *Task {
	t := &Task{
		UUID:        uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Type:        taskType,
		Status:      TaskStatusPending,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if taskType == TaskTypeRecurring {
		t.RecurrenceType = recurrenceType
	}
	if goal != nil {
		t.AttachGoal(goal)
	}
	return t
}

func (t *Task) AttachGoal(g *Goal) {
	id, u, title := g.ID, g.UUID, g.Title
	t.GoalID = &id
	t.GoalUUID = &u
	t.GoalTitle = &title
}

// Complete marks the task completed at now and returns the history record to
// persist. Recurring tasks are re-armed immediately, so their status is
// pending again when Complete returns.
func (t *Task) Complete(now time.Time, notes *string) (*TaskCompletion, error) {
	if t.Status == TaskStatusCompleted {
		return nil, ErrTaskAlreadyCompleted
	}

	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now

	completion := &TaskCompletion{
		TaskID:      t.ID,
		CompletedAt: now,
		Notes:       notes,
		CreatedAt:   now,
	}

	if t.Type == TaskTypeRecurring && t.RecurrenceType != nil {
		t.resetRecurrence(now)
	}
	return completion, nil
}

func (t *Task) resetRecurrence(now time.Time) {
	switch *t.RecurrenceType {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	default:
		return
	}
	t.Status = TaskStatusPending
	t.CompletedAt = nil
	t.LastResetAt = &now
}

// Reopen moves a completed task back to pending. Completion history is left
// untouched.
func (t *Task) Reopen(now time.Time) {
	t.Status = TaskStatusPending
	t.CompletedAt = nil
	t.UpdatedAt = now
}

func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status == TaskStatusPending && t.DueDate.Before(now)
}

// DaysUntilDue is the signed number of whole days from now to the due date,
// truncated toward zero. It is nil without a due date or once completed.
func (t *Task) DaysUntilDue(now time.Time) *int {
	if t.DueDate == nil || t.Status == TaskStatusCompleted {
		return nil
	}
	days := int(t.DueDate.Sub(now).Hours() / 24)
	return &days
}

type CompletionResponse struct {
	CompletedAt string  `json:"completed_at"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"created_at"`
}

func (c TaskCompletion) Response() CompletionResponse {
	return CompletionResponse{
		CompletedAt: FormatTime(c.CompletedAt),
		Notes:       c.Notes,
		CreatedAt:   FormatTime(c.CreatedAt),
	}
}

type CreateTaskRequest struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    *string `json:"description"`
	GoalUUID       string  `json:"goal_uuid"`
	Type           string  `json:"type" validate:"required,oneof=simple recurring deadline"`
	RecurrenceType string  `json:"recurrence_type" validate:"required_if=Type recurring,omitempty,oneof=daily weekly monthly"`
	DueDate        string  `json:"due_date" validate:"required_if=Type deadline,omitempty,date,after_now"`
}

type UpdateTaskRequest struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    *string `json:"description"`
	Type           string  `json:"type" validate:"required,oneof=simple recurring deadline"`
	RecurrenceType string  `json:"recurrence_type" validate:"required_if=Type recurring,omitempty,oneof=daily weekly monthly"`
	DueDate        string  `json:"due_date" validate:"required_if=Type deadline,omitempty,date"`
	Status         string  `json:"status" validate:"required,oneof=pending completed"`
}

type CompleteTaskRequest struct {
	Notes *string `json:"notes"`
}

type TaskResponse struct {
	UUID           uuid.UUID `json:"uuid"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	RecurrenceType *string   `json:"recurrence_type"`
	DueDate        *string   `json:"due_date"`
	CompletedAt    *string   `json:"completed_at"`
	IsOverdue      bool      `json:"is_overdue"`
	DaysUntilDue   *int      `json:"days_until_due"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// TaskWithGoalResponse adds the owning goal, used where tasks from several
// goals are listed together.
type TaskWithGoalResponse struct {
	TaskResponse
	GoalTitle *string    `json:"goal_title"`
	GoalUUID  *uuid.UUID `json:"goal_uuid"`
}

func (t *Task) Response(now time.Time) TaskResponse {
	return TaskResponse{
		UUID:           t.UUID,
		Title:          t.Title,
		Description:    t.Description,
		Type:           t.Type,
		Status:         t.Status,
		RecurrenceType: t.RecurrenceType,
		DueDate:        FormatTimePtr(t.DueDate),
		CompletedAt:    FormatTimePtr(t.CompletedAt),
		IsOverdue:      t.IsOverdue(now),
		DaysUntilDue:   t.DaysUntilDue(now),
		CreatedAt:      FormatTime(t.CreatedAt),
		UpdatedAt:      FormatTime(t.UpdatedAt),
	}
}

func (t *Task) ResponseWithGoal(now time.Time) TaskWithGoalResponse {
	return TaskWithGoalResponse{
		TaskResponse: t.Response(now),
		GoalTitle:    t.GoalTitle,
		GoalUUID:     t.GoalUUID,
	}
}
