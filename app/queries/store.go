package queries

import (
	"context"
	"errors"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DeleteUser(ctx context.Context, id int64) error
}

type TokenStore interface {
	CreateToken(ctx context.Context, t *models.AccessToken) error
	GetToken(ctx context.Context, tokenID uuid.UUID) (*models.AccessToken, error)
	TouchToken(ctx context.Context, id int64, at time.Time) error
	DeleteToken(ctx context.Context, tokenID uuid.UUID) error
	DeleteTokensByUser(ctx context.Context, userID int64) error
}

// GoalStore reads and writes goals. Every lookup is scoped by the owning
// user; a goal owned by someone else is reported as ErrNotFound.
type GoalStore interface {
	CreateGoal(ctx context.Context, g *models.Goal) error
	ListGoalsByUser(ctx context.Context, userID int64) ([]models.Goal, error)
	GetGoalByUUID(ctx context.Context, userID int64, id uuid.UUID) (*models.Goal, error)
	UpdateGoal(ctx context.Context, g *models.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID int64) error
}

// TaskStore reads and writes tasks, scoped by the owning user like GoalStore.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error)
	ListTasksByGoal(ctx context.Context, userID, goalID int64) ([]models.Task, error)
	GetTaskByUUID(ctx context.Context, userID int64, id uuid.UUID) (*models.Task, error)
	UpdateTask(ctx context.Context, t *models.Task) error
	CompleteTask(ctx context.Context, t *models.Task, c *models.TaskCompletion) error
	ListCompletions(ctx context.Context, taskID int64) ([]models.TaskCompletion, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
