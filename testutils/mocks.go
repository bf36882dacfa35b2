package testutils

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockBlacklistStore satisfies the blacklist Store interface for tests
// that need to script store failures.
type MockBlacklistStore struct {
	mock.Mock
}

func (m *MockBlacklistStore) Revoke(hash string, expiresAt time.Time) error {
	args := m.Called(hash, expiresAt)
	return args.Error(0)
}

func (m *MockBlacklistStore) IsRevoked(hash string) (bool, error) {
	args := m.Called(hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlacklistStore) TrackIssued(userID uint, hash string, expiresAt time.Time) error {
	args := m.Called(userID, hash, expiresAt)
	return args.Error(0)
}

func (m *MockBlacklistStore) IssuedForUser(userID uint) (map[string]time.Time, error) {
	args := m.Called(userID)
	issued, _ := args.Get(0).(map[string]time.Time)
	return issued, args.Error(1)
}

func (m *MockBlacklistStore) ForgetIssued(hash string) error {
	args := m.Called(hash)
	return args.Error(0)
}

func (m *MockBlacklistStore) CleanupExpired() error {
	args := m.Called()
	return args.Error(0)
}
