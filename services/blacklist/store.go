package blacklist

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/crewgate/crewgate/services/logging"
	"go.uber.org/zap"
)

// RevokedCredential persists a blacklist entry across restarts. Only the
// sha256 hash of the credential is ever stored.
type RevokedCredential struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	Hash      string    `json:"hash" gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

// IssuedRefresh indexes outstanding refresh credentials per user so a
// global logout can revoke every one of them.
type IssuedRefresh struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Hash      string    `json:"hash" gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

type Store interface {
	Revoke(hash string, expiresAt time.Time) error

	IsRevoked(hash string) (bool, error)

	TrackIssued(userID uint, hash string, expiresAt time.Time) error

	// IssuedForUser returns the unexpired refresh hashes tracked for a
	// user together with their expiries.
	IssuedForUser(userID uint) (map[string]time.Time, error)

	ForgetIssued(hash string) error

	CleanupExpired() error
}

type issuedEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore keeps revoked hashes and the issued-refresh index in
// process memory, mirroring writes to the database when one is attached.
type MemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	issued  map[string]issuedEntry
	db      *gorm.DB
	logger  *logging.Service
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		issued:  make(map[string]issuedEntry),
	}
}

func NewMemoryStoreWithDB(db *gorm.DB, logger *logging.Service) *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		issued:  make(map[string]issuedEntry),
		db:      db,
		logger:  logger,
	}
}

func (m *MemoryStore) Revoke(hash string, expiresAt time.Time) error {
	m.mu.Lock()
	if _, exists := m.revoked[hash]; exists {
		// Re-marking an already-revoked hash is a no-op.
		m.mu.Unlock()
		return nil
	}
	m.revoked[hash] = expiresAt
	m.mu.Unlock()

	if m.db != nil {
		entry := RevokedCredential{Hash: hash, ExpiresAt: expiresAt}
		if err := m.db.Create(&entry).Error; err != nil {
			if m.logger != nil {
				m.logger.Error("failed to persist revoked credential",
					zap.String("hash_prefix", hashPrefix(hash)),
					zap.Error(err))
			}
			return err
		}
	}

	return nil
}

func (m *MemoryStore) IsRevoked(hash string) (bool, error) {
	m.mu.RLock()
	expiresAt, exists := m.revoked[hash]
	m.mu.RUnlock()

	if !exists {
		return false, nil
	}

	if time.Now().After(expiresAt) {
		m.mu.Lock()
		delete(m.revoked, hash)
		m.mu.Unlock()
		return false, nil
	}

	return true, nil
}

func (m *MemoryStore) TrackIssued(userID uint, hash string, expiresAt time.Time) error {
	m.mu.Lock()
	m.issued[hash] = issuedEntry{userID: userID, expiresAt: expiresAt}
	m.mu.Unlock()

	if m.db != nil {
		entry := IssuedRefresh{UserID: userID, Hash: hash, ExpiresAt: expiresAt}
		if err := m.db.Create(&entry).Error; err != nil {
			if m.logger != nil {
				m.logger.Error("failed to persist issued refresh index entry",
					zap.Uint("user_id", userID),
					zap.Error(err))
			}
			return err
		}
	}

	return nil
}

func (m *MemoryStore) IssuedForUser(userID uint) (map[string]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	out := make(map[string]time.Time)
	for hash, entry := range m.issued {
		if entry.userID == userID && now.Before(entry.expiresAt) {
			out[hash] = entry.expiresAt
		}
	}

	return out, nil
}

func (m *MemoryStore) ForgetIssued(hash string) error {
	m.mu.Lock()
	delete(m.issued, hash)
	m.mu.Unlock()

	if m.db != nil {
		if err := m.db.Where("hash = ?", hash).Delete(&IssuedRefresh{}).Error; err != nil {
			if m.logger != nil {
				m.logger.Warn("failed to drop issued refresh index entry", zap.Error(err))
			}
			return err
		}
	}

	return nil
}

func (m *MemoryStore) CleanupExpired() error {
	m.mu.Lock()
	now := time.Now()
	removed := 0

	for hash, expiresAt := range m.revoked {
		if now.After(expiresAt) {
			delete(m.revoked, hash)
			removed++
		}
	}
	for hash, entry := range m.issued {
		if now.After(entry.expiresAt) {
			delete(m.issued, hash)
		}
	}
	m.mu.Unlock()

	if m.db != nil {
		if err := m.db.Where("expires_at <= ?", now).Delete(&RevokedCredential{}).Error; err != nil {
			return err
		}
		if err := m.db.Where("expires_at <= ?", now).Delete(&IssuedRefresh{}).Error; err != nil {
			return err
		}
	}

	if m.logger != nil && removed > 0 {
		m.logger.Debug("cleaned up expired blacklist entries", zap.Int("removed", removed))
	}

	return nil
}

// LoadFromDatabase hydrates the in-memory maps on startup and prunes
// entries that expired while the process was down.
func (m *MemoryStore) LoadFromDatabase() error {
	if m.db == nil {
		return nil
	}

	now := time.Now()

	var revoked []RevokedCredential
	if err := m.db.Where("expires_at > ?", now).Find(&revoked).Error; err != nil {
		return err
	}

	var issued []IssuedRefresh
	if err := m.db.Where("expires_at > ?", now).Find(&issued).Error; err != nil {
		return err
	}

	m.mu.Lock()
	for _, entry := range revoked {
		m.revoked[entry.Hash] = entry.ExpiresAt
	}
	for _, entry := range issued {
		m.issued[entry.Hash] = issuedEntry{userID: entry.UserID, expiresAt: entry.ExpiresAt}
	}
	m.mu.Unlock()

	if err := m.db.Where("expires_at <= ?", now).Delete(&RevokedCredential{}).Error; err != nil {
		return err
	}
	if err := m.db.Where("expires_at <= ?", now).Delete(&IssuedRefresh{}).Error; err != nil {
		return err
	}

	if m.logger != nil {
		m.logger.Info("blacklist loaded from database",
			zap.Int("revoked", len(revoked)),
			zap.Int("issued_index", len(issued)))
	}

	return nil
}

func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
