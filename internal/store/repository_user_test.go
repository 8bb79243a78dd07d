package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInCount(t *testing.T, s *ClientStorages) int {
	t.Helper()
	db, err := s.Handle.DB(context.Background())
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE is_logged_in = 1`).Scan(&n))
	return n
}

func TestUserRepository_ValidateLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	user, ok, err := s.Users.ValidateLogin(ctx, "admin", "1234")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "Roban Khan Anik", user.FullName)
	assert.True(t, user.IsLoggedIn)
	assert.NotEmpty(t, user.ID)

	current, ok, err := s.Users.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
}

func TestUserRepository_SessionIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	loginAs(t, s, "admin", "1234")
	second := loginAs(t, s, "user", "0000")

	assert.Equal(t, 1, loggedInCount(t, s))
	current, ok, err := s.Users.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, current.ID)
}

func TestUserRepository_FailedLoginClearsSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	loginAs(t, s, "admin", "1234")

	tests := []struct {
		name, username, password string
	}{
		{name: "wrong password", username: "admin", password: "0000"},
		{name: "unknown user", username: "nobody", password: "1234"},
		{name: "empty credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := s.Users.ValidateLogin(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, 0, loggedInCount(t, s))
		})
	}

	_, ok, err := s.Users.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_Logout(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	loginAs(t, s, "user3", "3333")
	require.NoError(t, s.Users.Logout(ctx))
	assert.Equal(t, 0, loggedInCount(t, s))

	// logging out without a session is fine
	require.NoError(t, s.Users.Logout(ctx))
}

func TestUserRepository_GetUserAndRegion(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t)

	user := loginAs(t, s, "user5", "5555")
	assert.Nil(t, user.Region)

	require.NoError(t, s.Users.AssignRegion(ctx, user.ID, "sylhet"))
	got, err := s.Users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "sylhet", got.RegionName())

	_, err = s.Users.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.ErrorIs(t, s.Users.AssignRegion(ctx, "missing", "dhaka"), ErrNoUserWasFound)
}
