package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	// User is an account managed by the main application; this service only
	// resolves it to a contactable email address.
	User struct {
		ID        uuid.UUID `json:"id" db:"id"`
		Name      string    `json:"name" db:"name"`
		Username  string    `json:"username" db:"username"`
		Email     string    `json:"email" db:"email"`
		IsActive  bool      `json:"is_active" db:"is_active"`
		CreatedAt time.Time `json:"created_at" db:"created_at"`
		UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	}

	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
	}
)
