package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(newMemStore(), newTestCodec())
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	registered, err := service.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", registered.User.Username)
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)

	claims, err := service.codec.VerifyAccess(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	loggedIn, err := service.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	claims, err = service.codec.VerifyAccess(loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "a@x.com", "pw123"},
		{"no email", "alice", "", "pw123"},
		{"no password", "alice", "a@x.com", ""},
		{"whitespace username", "   ", "a@x.com", "pw123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Register(ctx, tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestRegisterConflict(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	_, err = service.Register(ctx, "alice", "other@x.com", "pw123")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = service.Register(ctx, "bob", "a@x.com", "pw123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	_, wrongPassword := service.Login(ctx, "alice", "wrong")
	_, unknownUser := service.Login(ctx, "nobody", "pw123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginMissingFields(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.Login(ctx, "", "pw123")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = service.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRefreshIssuesPlaceholderUsername(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	session, err := service.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	access, err := service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)

	claims, err := service.codec.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, refreshUsernamePlaceholder, claims.Username)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	session, err := service.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	_, err = service.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestRefreshNotRotated(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	session, err := service.Register(ctx, "alice", "a@x.com", "pw123")
	require.NoError(t, err)

	_, err = service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	_, err = service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
}

func TestConcurrentRegistrationSingleWinner(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Register(ctx, "alice", "a@x.com", "pw123")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, ErrUserExists)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestListUsersSortedByUsername(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	for _, user := range []struct{ username, email string }{
		{"carol", "c@x.com"},
		{"alice", "a@x.com"},
		{"bob", "b@x.com"},
	} {
		_, err := service.Register(ctx, user.username, user.email, "pw123")
		require.NoError(t, err)
	}

	users, err := service.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)
}
