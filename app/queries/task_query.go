package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/google/uuid"
)

type TaskQueries struct {
	DB *sql.DB
}

const taskSelect = `SELECT t.id, t.uuid, t.user_id, t.goal_id, t.title, t.description, t.type, t.status,
		t.recurrence_type, t.due_date, t.completed_at, t.last_reset_at, t.created_at, t.updated_at,
		g.uuid, g.title
		FROM tasks t LEFT JOIN goals g ON g.id = t.goal_id`

func scanTask(row interface{ Scan(...any) error }, t *models.Task) error {
	return row.Scan(
		&t.ID,
		&t.UUID,
		&t.UserID,
		&t.GoalID,
		&t.Title,
		&t.Description,
		&t.Type,
		&t.Status,
		&t.RecurrenceType,
		&t.DueDate,
		&t.CompletedAt,
		&t.LastResetAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.GoalUUID,
		&t.GoalTitle,
	)
}

func (q *TaskQueries) CreateTask(ctx context.Context, t *models.Task) error {
	query := `INSERT INTO tasks (uuid, user_id, goal_id, title, description, type, status, recurrence_type,
				due_date, completed_at, last_reset_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := q.DB.QueryRowContext(ctx, query,
		t.UUID, t.UserID, t.GoalID, t.Title, t.Description, t.Type, t.Status, t.RecurrenceType,
		t.DueDate, t.CompletedAt, t.LastResetAt, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (q *TaskQueries) ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	return q.listTasks(ctx, taskSelect+` WHERE t.user_id = $1 ORDER BY t.created_at DESC, t.id DESC`, userID)
}

func (q *TaskQueries) ListTasksByGoal(ctx context.Context, userID, goalID int64) ([]models.Task, error) {
	return q.listTasks(ctx, taskSelect+` WHERE t.user_id = $1 AND t.goal_id = $2 ORDER BY t.created_at DESC, t.id DESC`, userID, goalID)
}

func (q *TaskQueries) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (q *TaskQueries) GetTaskByUUID(ctx context.Context, userID int64, id uuid.UUID) (*models.Task, error) {
	t := &models.Task{}
	err := scanTask(q.DB.QueryRowContext(ctx, taskSelect+` WHERE t.user_id = $1 AND t.uuid = $2`, userID, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (q *TaskQueries) UpdateTask(ctx context.Context, t *models.Task) error {
	res, err := updateTask(ctx, q.DB, t)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateTask(ctx context.Context, db execer, t *models.Task) (sql.Result, error) {
	query := `UPDATE tasks SET goal_id = $1, title = $2, description = $3, type = $4, status = $5,
				recurrence_type = $6, due_date = $7, completed_at = $8, last_reset_at = $9, updated_at = $10
			  WHERE id = $11 AND user_id = $12`
	res, err := db.ExecContext(ctx, query,
		t.GoalID, t.Title, t.Description, t.Type, t.Status,
		t.RecurrenceType, t.DueDate, t.CompletedAt, t.LastResetAt, t.UpdatedAt,
		t.ID, t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return res, nil
}

// CompleteTask stores the task's new state and appends the completion record
// in one transaction.
func (q *TaskQueries) CompleteTask(ctx context.Context, t *models.Task, c *models.TaskCompletion) error {
	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete task: %w", err)
	}
	defer tx.Rollback()

	res, err := updateTask(ctx, tx, t)
	if err != nil {
		return err
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	query := `INSERT INTO task_completions (task_id, completed_at, notes, created_at)
			  VALUES ($1, $2, $3, $4) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, t.ID, c.CompletedAt, c.Notes, c.CreatedAt).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert task completion: %w", err)
	}
	c.TaskID = t.ID

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit complete task: %w", err)
	}
	return nil
}

func (q *TaskQueries) ListCompletions(ctx context.Context, taskID int64) ([]models.TaskCompletion, error) {
	query := `SELECT id, task_id, completed_at, notes, created_at
			  FROM task_completions WHERE task_id = $1 ORDER BY completed_at DESC, id DESC`
	rows, err := q.DB.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task completions: %w", err)
	}
	defer rows.Close()

	completions := []models.TaskCompletion{}
	for rows.Next() {
		var c models.TaskCompletion
		if err := rows.Scan(&c.ID, &c.TaskID, &c.CompletedAt, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (q *TaskQueries) DeleteTask(ctx context.Context, userID, taskID int64) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectAffected(res)
}
