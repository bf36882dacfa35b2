package sessioncache

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"go.uber.org/zap"
)

// Service stores session records in a TTL key-value backend. Every Put
// slides the expiry forward, capped at the configured inactivity TTL.
// Updates are last-writer-wins; racing activity touches may be lost
// without correctness impact.
type Service struct {
	config *config.Config
	store  scs.Store
	logger *logging.Service
}

func NewService(cfg *config.Config, store scs.Store, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		store:  store,
		logger: logger,
	}
}

// NewSessionID generates an opaque 256-bit session identifier,
// independent of any credential.
func NewSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *Service) Put(sessionID string, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	expiry := time.Now().Add(s.config.Session.TTL)
	if err := s.store.Commit(sessionID, data, expiry); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to store session record",
				zap.Uint("user_id", record.UserID),
				zap.Error(err))
		}
		return fmt.Errorf("failed to store session record: %w", err)
	}

	return nil
}

// Get returns the record for a session id. Absence after TTL elapse is
// expected and reported as found=false, not as an error. A store outage
// is logged and reported both ways so callers can fail open for
// freshness checks only.
func (s *Service) Get(sessionID string) (*Record, bool, error) {
	data, found, err := s.store.Find(sessionID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("session cache lookup failed, treating session as absent",
				zap.Error(err))
		}
		return nil, false, fmt.Errorf("session cache lookup failed: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		if s.logger != nil {
			s.logger.Warn("corrupt session record dropped", zap.Error(err))
		}
		_ = s.store.Delete(sessionID)
		return nil, false, nil
	}

	return &record, true, nil
}

func (s *Service) Delete(sessionID string) error {
	if err := s.store.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

// Touch refreshes last-activity and the fingerprint, sliding the TTL.
// Best effort: a missing session or store error is logged, not fatal.
func (s *Service) Touch(sessionID, fingerprint string) {
	record, found, err := s.Get(sessionID)
	if err != nil || !found {
		return
	}

	if fingerprint != "" && record.Fingerprint != "" && record.Fingerprint != fingerprint {
		if s.logger != nil {
			s.logger.Warn("device fingerprint drift on active session",
				zap.Uint("user_id", record.UserID),
				zap.String("recorded", record.Fingerprint),
				zap.String("observed", fingerprint))
		}
	}

	record.LastActivity = time.Now()
	if fingerprint != "" {
		record.Fingerprint = fingerprint
	}

	if err := s.Put(sessionID, record); err != nil && s.logger != nil {
		s.logger.Warn("failed to touch session record", zap.Error(err))
	}
}

// UpdateTokenHashes swaps the credential hashes after a refresh or
// rotation and slides the TTL.
func (s *Service) UpdateTokenHashes(sessionID, accessHash, refreshHash string) error {
	record, found, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if accessHash != "" {
		record.AccessTokenHash = accessHash
	}
	if refreshHash != "" {
		record.RefreshTokenHash = refreshHash
	}
	record.LastActivity = time.Now()

	return s.Put(sessionID, record)
}
