package auth

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store for tests. Create enforces uniqueness
// under the same lock as the existence check, mirroring the database
// constraint being the authoritative guard.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  []User
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (s *memStore) GetByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *memStore) UsernameOrEmailTaken(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Create(_ context.Context, username, email, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return User{}, ErrUserExists
		}
	}

	user := User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.users = append(s.users, user)

	return user, nil
}

func (s *memStore) List(_ context.Context) ([]Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]Identity, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, Identity{ID: user.ID, Username: user.Username})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	return users, nil
}
