package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
)

type UserQueries struct {
	DB *sql.DB
}

func (q *UserQueries) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (uuid, name, email, password, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := q.DB.QueryRowContext(ctx, query,
		u.UUID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (q *UserQueries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, uuid, name, email, password, created_at, updated_at
			  FROM users WHERE id = $1`
	return q.getUser(ctx, query, id)
}

func (q *UserQueries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, uuid, name, email, password, created_at, updated_at
			  FROM users WHERE email = $1`
	return q.getUser(ctx, query, email)
}

func (q *UserQueries) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := q.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.UUID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (q *UserQueries) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := q.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// DeleteUser removes the user; goals, tasks, completions and access tokens go
// with it through ON DELETE CASCADE.
func (q *UserQueries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
