package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

type Goal struct {
	ID          int64      `json:"-" db:"id"`
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	UserID      int64      `json:"-" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Filled by queries, never stored.
	TotalTasksCount     int `json:"-" db:"-"`
	CompletedTasksCount int `json:"-" db:"-"`
}

// NewGoal returns an active goal owned by userID with a fresh UUID.
func NewGoal(userID int64, title string, description *string, now time.Time) *Goal {
	return &Goal{
		UUID:        uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStatus changes the status and keeps completed_at in step with it:
// completed_at is set exactly when the goal is completed.
func (g *Goal) SetStatus(status string, now time.Time) {
	g.Status = status
	if status == GoalStatusCompleted {
		g.CompletedAt = &now
	} else {
		g.CompletedAt = nil
	}
}

func (g *Goal) ProgressPercentage() float64 {
	return Percentage(g.CompletedTasksCount, g.TotalTasksCount)
}

// Percentage returns 100*part/total rounded to two decimals, or 0 when total
// is zero.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

type CreateGoalRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateGoalRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"required,oneof=active completed archived"`
}

type GoalResponse struct {
	UUID                uuid.UUID `json:"uuid"`
	Title               string    `json:"title"`
	Description         *string   `json:"description"`
	Status              string    `json:"status"`
	CompletedAt         *string   `json:"completed_at"`
	CreatedAt           string    `json:"created_at"`
	UpdatedAt           string    `json:"updated_at"`
	ProgressPercentage  float64   `json:"progress_percentage"`
	TotalTasksCount     int       `json:"total_tasks_count"`
	CompletedTasksCount int       `json:"completed_tasks_count"`
}

// GoalDetailResponse is the goal shape returned by show, with its tasks.
type GoalDetailResponse struct {
	GoalResponse
	Tasks []TaskResponse `json:"tasks"`
}

func (g *Goal) Response() GoalResponse {
	return GoalResponse{
		UUID:                g.UUID,
		Title:               g.Title,
		Description:         g.Description,
		Status:              g.Status,
		CompletedAt:         FormatTimePtr(g.CompletedAt),
		CreatedAt:           FormatTime(g.CreatedAt),
		UpdatedAt:           FormatTime(g.UpdatedAt),
		ProgressPercentage:  g.ProgressPercentage(),
		TotalTasksCount:     g.TotalTasksCount,
		CompletedTasksCount: g.CompletedTasksCount,
	}
}
