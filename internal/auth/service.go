package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	store Store
	codec *TokenCodec
}

func NewService(store Store, codec *TokenCodec) *Service {
	return &Service{store: store, codec: codec}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return Session{}, ErrMissingFields
	}

	taken, err := s.store.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, ErrUserExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	// The pre-check above races with concurrent registrations; the store's
	// uniqueness constraint at insert time is authoritative.
	user, err := s.store.Create(ctx, username, email, hash)
	if err != nil {
		return Session{}, err
	}

	return s.issueSession(user)
}

// Login deliberately returns the same ErrInvalidCredentials for an unknown
// username and a wrong password, so responses cannot be used to enumerate
// usernames.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrMissingFields
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// Refresh exchanges a still-valid refresh token for a new access token.
// The refresh token itself is not rotated or invalidated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	access, err := s.codec.IssueAccess(claims.UserID, refreshUsernamePlaceholder)
	if err != nil {
		return "", fmt.Errorf("issue access token on refresh: %w", err)
	}

	return access, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]Identity, error) {
	return s.store.List(ctx)
}

func (s *Service) issueSession(user User) (Session, error) {
	access, err := s.codec.IssueAccess(user.ID, user.Username)
	if err != nil {
		return Session{}, err
	}

	refresh, err := s.codec.IssueRefresh(user.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{
		User:         Identity{ID: user.ID, Username: user.Username},
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
