package auth

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already exists")
)

// Store is the credential store. Create must enforce username and email
// uniqueness atomically and return ErrUserExists on violation; the
// service-level pre-check is advisory only.
type Store interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, username, email, passwordHash string) (User, error)
	List(ctx context.Context) ([]Identity, error)
}
