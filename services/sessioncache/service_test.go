package sessioncache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewgate/crewgate/testutils"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutils.GetTestConfig(), NewMemoryStore(), nil)
}

func newRecord(userID uint) *Record {
	now := time.Now()
	return &Record{
		UserID:           userID,
		IPAddress:        "192.0.2.1",
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0",
		Client:           SummarizeClient("Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0"),
		Fingerprint:      "abcdef0123456789",
		AccessTokenHash:  "hash-a",
		RefreshTokenHash: "hash-r",
		CreatedAt:        now,
		LastActivity:     now,
	}
}

func TestNewSessionID(t *testing.T) {
	id1, err := NewSessionID()
	require.NoError(t, err)
	id2, err := NewSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.GreaterOrEqual(t, len(id1), 43) // 32 bytes, base64url without padding
}

func TestService_PutGetDelete(t *testing.T) {
	service := newTestService(t)

	id, err := NewSessionID()
	require.NoError(t, err)

	require.NoError(t, service.Put(id, newRecord(42)))

	record, found, err := service.Get(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint(42), record.UserID)
	assert.Equal(t, "hash-a", record.AccessTokenHash)

	require.NoError(t, service.Delete(id))

	_, found, err = service.Get(id)
	require.NoError(t, err)
	assert.False(t, found, "absence after delete is not an error")
}

func TestService_GetMissing(t *testing.T) {
	service := newTestService(t)

	record, found, err := service.Get("no-such-session")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, record)
}

func TestService_TTLExpiry(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.Session.TTL = 30 * time.Millisecond
	service := NewService(cfg, NewMemoryStore(), nil)

	id, err := NewSessionID()
	require.NoError(t, err)
	require.NoError(t, service.Put(id, newRecord(1)))

	time.Sleep(50 * time.Millisecond)

	_, found, err := service.Get(id)
	require.NoError(t, err)
	assert.False(t, found, "expired session must read as absent")
}

func TestService_Touch(t *testing.T) {
	service := newTestService(t)

	id, err := NewSessionID()
	require.NoError(t, err)

	record := newRecord(1)
	record.LastActivity = time.Now().Add(-time.Hour)
	require.NoError(t, service.Put(id, record))

	service.Touch(id, "ffff000011112222")

	updated, found, err := service.Get(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.WithinDuration(t, time.Now(), updated.LastActivity, time.Second)
	assert.Equal(t, "ffff000011112222", updated.Fingerprint)

	// Touching a missing session is a no-op.
	service.Touch("gone", "ffff000011112222")
}

func TestService_UpdateTokenHashes(t *testing.T) {
	service := newTestService(t)

	id, err := NewSessionID()
	require.NoError(t, err)
	require.NoError(t, service.Put(id, newRecord(1)))

	require.NoError(t, service.UpdateTokenHashes(id, "new-access", ""))

	record, found, err := service.Get(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new-access", record.AccessTokenHash)
	assert.Equal(t, "hash-r", record.RefreshTokenHash, "refresh hash untouched when empty")

	require.NoError(t, service.UpdateTokenHashes(id, "newer-access", "new-refresh"))

	record, _, err = service.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "newer-access", record.AccessTokenHash)
	assert.Equal(t, "new-refresh", record.RefreshTokenHash)
}

func TestSummarizeClient(t *testing.T) {
	assert.Equal(t, "unknown", SummarizeClient(""))
	assert.Contains(t, SummarizeClient("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"), "Chrome")
}
