package identity

import (
	"testing"

	"github.com/crewgate/crewgate/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	db := testutils.SetupTestDB(t, &User{})
	return NewService(testutils.GetTestConfig(), db, nil)
}

func seedUser(t *testing.T, svc *Service, username, password string) *User {
	hash, err := svc.HashPassword(password)
	require.NoError(t, err)

	user := &User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, svc.db.Create(user).Error)
	return user
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	seeded := seedUser(t, svc, "bosun", "correct-horse-battery")

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("bosun", "correct-horse-battery")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
		assert.Equal(t, "bosun", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		user, err := svc.Authenticate("bosun", "wrong-password")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		user, err := svc.Authenticate("nobody", "correct-horse-battery")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := svc.Authenticate("nobody", "whatever")
		_, errWrong := svc.Authenticate("bosun", "whatever")
		assert.Equal(t, errUnknown, errWrong)
	})
}

func TestGetUser(t *testing.T) {
	svc := newTestService(t)
	seeded := seedUser(t, svc, "master", "a-long-enough-password")

	t.Run("existing user", func(t *testing.T) {
		user, err := svc.GetUser(seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "master", user.Username)
	})

	t.Run("missing user", func(t *testing.T) {
		user, err := svc.GetUser(99999)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	svc := newTestService(t)
	user := seedUser(t, svc, "cadet", "another-strong-pass")
	assert.NotEmpty(t, user.PasswordHash)
}
