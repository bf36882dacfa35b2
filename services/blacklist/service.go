package blacklist

import (
	"errors"
	"fmt"
	"time"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/crewgate/crewgate/services/token"
	"go.uber.org/zap"
)

var ErrStoreNotConfigured = errors.New("blacklist store not configured")

// Service marks credential hashes as revoked. An entry's presence is
// authoritative: a cryptographically valid credential whose hash is
// here is rejected until the entry's TTL elapses.
type Service struct {
	config *config.Config
	store  Store
	logger *logging.Service
}

func NewService(cfg *config.Config, store Store, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		store:  store,
		logger: logger,
	}
}

// RevokeAccess blacklists an access credential for the shorter of its
// remaining lifetime and the configured cap, bounding store growth.
func (s *Service) RevokeAccess(tokenString string, remaining time.Duration) error {
	if remaining <= 0 {
		// Already expired; nothing to guard.
		return nil
	}

	ttl := remaining
	if cap := s.config.Blacklist.AccessTTLCap; cap > 0 && ttl > cap {
		ttl = cap
	}

	return s.revoke(token.Hash(tokenString), ttl)
}

// RevokeRefresh blacklists a refresh credential for its full remaining
// lifetime and drops it from the issued index.
func (s *Service) RevokeRefresh(tokenString string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}

	hash := token.Hash(tokenString)
	if err := s.revoke(hash, remaining); err != nil {
		return err
	}

	if err := s.store.ForgetIssued(hash); err != nil && s.logger != nil {
		s.logger.Warn("failed to drop revoked refresh from issued index", zap.Error(err))
	}

	return nil
}

func (s *Service) revoke(hash string, ttl time.Duration) error {
	if s.store == nil {
		return ErrStoreNotConfigured
	}

	expiresAt := time.Now().Add(ttl)
	if err := s.store.Revoke(hash, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to revoke credential",
				zap.String("hash_prefix", hashPrefix(hash)),
				zap.Error(err))
		}
		return fmt.Errorf("failed to revoke credential: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("credential revoked",
			zap.String("hash_prefix", hashPrefix(hash)),
			zap.Time("expires_at", expiresAt))
	}

	return nil
}

// IsRevoked fails closed: if the store cannot answer, the credential is
// reported revoked and the error surfaced so the caller can log the
// security-relevant outage.
func (s *Service) IsRevoked(hash string) (bool, error) {
	if s.store == nil {
		return true, ErrStoreNotConfigured
	}

	revoked, err := s.store.IsRevoked(hash)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("blacklist check failed, treating credential as revoked",
				zap.String("hash_prefix", hashPrefix(hash)),
				zap.Error(err))
		}
		return true, fmt.Errorf("blacklist check failed: %w", err)
	}

	return revoked, nil
}

// TrackIssuedRefresh records a freshly issued refresh credential in the
// per-user index consulted by global logout.
func (s *Service) TrackIssuedRefresh(userID uint, tokenString string, expiresAt time.Time) error {
	if s.store == nil {
		return ErrStoreNotConfigured
	}

	return s.store.TrackIssued(userID, token.Hash(tokenString), expiresAt)
}

// RevokeAllUserRefresh blacklists every outstanding refresh credential
// tracked for the user. Returns how many entries were revoked.
func (s *Service) RevokeAllUserRefresh(userID uint) (int, error) {
	if s.store == nil {
		return 0, ErrStoreNotConfigured
	}

	issued, err := s.store.IssuedForUser(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list issued refresh credentials: %w", err)
	}

	revoked := 0
	for hash, expiresAt := range issued {
		if err := s.store.Revoke(hash, expiresAt); err != nil {
			if s.logger != nil {
				s.logger.Error("failed to revoke outstanding refresh credential",
					zap.Uint("user_id", userID),
					zap.Error(err))
			}
			continue
		}
		_ = s.store.ForgetIssued(hash)
		revoked++
	}

	if s.logger != nil {
		s.logger.Info("revoked all outstanding refresh credentials",
			zap.Uint("user_id", userID),
			zap.Int("count", revoked))
	}

	return revoked, nil
}

func (s *Service) CleanupExpired() error {
	if s.store == nil {
		return ErrStoreNotConfigured
	}

	return s.store.CleanupExpired()
}

// StartCleanupWorker prunes expired entries in the background. Failures
// are logged, never surfaced to request handling.
func (s *Service) StartCleanupWorker(interval time.Duration) {
	if s.store == nil {
		if s.logger != nil {
			s.logger.Warn("cannot start blacklist cleanup worker: store not configured")
		}
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := s.CleanupExpired(); err != nil && s.logger != nil {
				s.logger.Error("blacklist cleanup worker failed", zap.Error(err))
			}
		}
	}()

	if s.logger != nil {
		s.logger.Info("started blacklist cleanup worker",
			zap.Duration("interval", interval))
	}
}
