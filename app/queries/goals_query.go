package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/google/uuid"
)

type GoalsQueries struct {
	DB *sql.DB
}

const goalColumns = `g.id, g.uuid, g.user_id, g.title, g.description, g.status, g.completed_at, g.created_at, g.updated_at,
		COUNT(t.id) AS total_tasks_count,
		COUNT(t.id) FILTER (WHERE t.status = 'completed') AS completed_tasks_count`

func scanGoal(row interface{ Scan(...any) error }, g *models.Goal) error {
	return row.Scan(
		&g.ID,
		&g.UUID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Status,
		&g.CompletedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
		&g.TotalTasksCount,
		&g.CompletedTasksCount,
	)
}

func (q *GoalsQueries) CreateGoal(ctx context.Context, g *models.Goal) error {
	query := `INSERT INTO goals (uuid, user_id, title, description, status, completed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.DB.QueryRowContext(ctx, query,
		g.UUID, g.UserID, g.Title, g.Description, g.Status, g.CompletedAt, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (q *GoalsQueries) ListGoalsByUser(ctx context.Context, userID int64) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + `
			  FROM goals g LEFT JOIN tasks t ON t.goal_id = g.id
			  WHERE g.user_id = $1
			  GROUP BY g.id
			  ORDER BY g.id`
	rows, err := q.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := scanGoal(rows, &g); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (q *GoalsQueries) GetGoalByUUID(ctx context.Context, userID int64, id uuid.UUID) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + `
			  FROM goals g LEFT JOIN tasks t ON t.goal_id = g.id
			  WHERE g.user_id = $1 AND g.uuid = $2
			  GROUP BY g.id`
	g := &models.Goal{}
	if err := scanGoal(q.DB.QueryRowContext(ctx, query, userID, id), g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (q *GoalsQueries) UpdateGoal(ctx context.Context, g *models.Goal) error {
	query := `UPDATE goals SET title = $1, description = $2, status = $3, completed_at = $4, updated_at = $5
			  WHERE id = $6 AND user_id = $7`
	res, err := q.DB.ExecContext(ctx, query, g.Title, g.Description, g.Status, g.CompletedAt, g.UpdatedAt, g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return expectAffected(res)
}

// DeleteGoal removes the goal and, through the foreign key, all of its tasks.
func (q *GoalsQueries) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return expectAffected(res)
}
