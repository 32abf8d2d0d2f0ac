package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/google/uuid"
)

type TokenQueries struct {
	DB *sql.DB
}

func (q *TokenQueries) CreateToken(ctx context.Context, t *models.AccessToken) error {
	query := `INSERT INTO personal_access_tokens (user_id, token_id, name, created_at)
			  VALUES ($1, $2, $3, $4) RETURNING id`
	if err := q.DB.QueryRowContext(ctx, query, t.UserID, t.TokenID, t.Name, t.CreatedAt).Scan(&t.ID); err != nil {
		return fmt.Errorf("create access token: %w", err)
	}
	return nil
}

func (q *TokenQueries) GetToken(ctx context.Context, tokenID uuid.UUID) (*models.AccessToken, error) {
	t := &models.AccessToken{}
	query := `SELECT id, user_id, token_id, name, last_used_at, created_at
			  FROM personal_access_tokens WHERE token_id = $1`
	err := q.DB.QueryRowContext(ctx, query, tokenID).Scan(&t.ID, &t.UserID, &t.TokenID, &t.Name, &t.LastUsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get access token: %w", err)
	}
	return t, nil
}

func (q *TokenQueries) TouchToken(ctx context.Context, id int64, at time.Time) error {
	if _, err := q.DB.ExecContext(ctx, `UPDATE personal_access_tokens SET last_used_at = $1 WHERE id = $2`, at, id); err != nil {
		return fmt.Errorf("touch access token: %w", err)
	}
	return nil
}

func (q *TokenQueries) DeleteToken(ctx context.Context, tokenID uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE token_id = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	return expectAffected(res)
}

func (q *TokenQueries) DeleteTokensByUser(ctx context.Context, userID int64) error {
	if _, err := q.DB.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete access tokens for user: %w", err)
	}
	return nil
}
