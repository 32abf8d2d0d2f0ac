package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int64     `json:"-" db:"id"`
	UUID         uuid.UUID `json:"uuid" db:"uuid"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserResponse is the public shape of a user. Internal ids and the password
// hash never leave the server.
type UserResponse struct {
	UUID  uuid.UUID `json:"uuid"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u User) Response() UserResponse {
	return UserResponse{UUID: u.UUID, Name: u.Name, Email: u.Email}
}

// AccessToken is a row of personal_access_tokens. Each issued bearer token
// has exactly one row; deleting the row revokes the token.
type AccessToken struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	TokenID    uuid.UUID  `db:"token_id"`
	Name       string     `db:"name"`
	LastUsedAt *time.Time `db:"last_used_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
