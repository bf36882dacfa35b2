package authgate

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/blacklist"
	"github.com/crewgate/crewgate/services/fingerprint"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/crewgate/crewgate/services/sessioncache"
	"github.com/crewgate/crewgate/services/token"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	UserIDKey    = "_auth_user_id"
	ClaimsKey    = "_auth_claims"
	SessionIDKey = "_auth_session_id"
)

// ErrRefreshRevoked marks a refresh credential whose hash is
// blacklisted, a rotated-out credential being replayed included.
var ErrRefreshRevoked = errors.New("refresh credential revoked")

// Gateway guards every non-public path. It classifies each request by
// its credentials and either passes it through with identity attached
// or rejects it with a structured error. Malformed credentials are
// rejected, never allowed to fault the pipeline.
type Gateway struct {
	config    *config.Config
	tokens    *token.Service
	sessions  *sessioncache.Service
	blacklist *blacklist.Service
	logger    *logging.Service
}

func NewGateway(cfg *config.Config, tokens *token.Service, sessions *sessioncache.Service, bl *blacklist.Service, logger *logging.Service) *Gateway {
	return &Gateway{
		config:    cfg,
		tokens:    tokens,
		sessions:  sessions,
		blacklist: bl,
		logger:    logger,
	}
}

func (g *Gateway) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsPublicPath(c.Request().URL.Path) {
				return next(c)
			}

			accessToken := ExtractAccessToken(c)
			refreshToken := cookieValue(c, RefreshTokenCookie)

			if accessToken == "" && refreshToken == "" {
				return Reject(c, http.StatusUnauthorized, "Authentication required", KindAuthenticationRequired)
			}

			if accessToken != "" {
				// Revocation is authoritative: checked before any claim
				// from the credential is trusted, and a store outage
				// counts as revoked.
				if revoked, _ := g.blacklist.IsRevoked(token.Hash(accessToken)); revoked {
					return Reject(c, http.StatusUnauthorized, "Token has been invalidated", KindTokenInvalidated)
				}

				claims, err := g.tokens.ValidateKind(accessToken, token.KindAccess)
				if err == nil {
					if g.tokens.RemainingLifetime(claims) < g.config.JWT.SilentRefreshThreshold && refreshToken != "" {
						// The request rides the still-valid credential;
						// the replacement travels back on the response.
						g.silentRefresh(c, refreshToken)
					}
					return g.proceed(c, next, claims)
				}

				if refreshToken == "" {
					if errors.Is(err, token.ErrExpiredToken) {
						return Reject(c, http.StatusUnauthorized, "Token has expired", KindTokenExpired)
					}
					return Reject(c, http.StatusUnauthorized, "Invalid token", KindTokenInvalid)
				}
			}

			claims, err := g.RefreshCredentials(c, refreshToken)
			if err != nil {
				if errors.Is(err, ErrRefreshRevoked) {
					return Reject(c, http.StatusUnauthorized, "Token has been invalidated", KindTokenInvalidated)
				}
				return Reject(c, http.StatusUnauthorized, "Your session has expired. Please sign in again.", KindSessionExpired)
			}

			return g.proceed(c, next, claims)
		}
	}
}

// RefreshCredentials mints a new access credential from a refresh
// credential, rotating the refresh credential when its remaining
// lifetime has sunk below the rotation threshold. The new access
// credential travels back as a cookie; the session record's hashes are
// updated when a session cookie accompanies the request.
func (g *Gateway) RefreshCredentials(c echo.Context, refreshToken string) (*token.Claims, error) {
	if revoked, _ := g.blacklist.IsRevoked(token.Hash(refreshToken)); revoked {
		return nil, ErrRefreshRevoked
	}

	rClaims, err := g.tokens.ValidateKind(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	newAccess, err := g.tokens.IssueAccess(rClaims.UserID)
	if err != nil {
		return nil, err
	}
	SetAccessCookie(c, g.config, newAccess)

	newRefreshHash := ""
	if remaining := g.tokens.RemainingLifetime(rClaims); remaining < g.config.JWT.RotationThreshold {
		newRefreshHash = g.rotateRefresh(c, refreshToken, rClaims, remaining)
	}

	if sessionID := cookieValue(c, SessionIDCookie); sessionID != "" {
		if err := g.sessions.UpdateTokenHashes(sessionID, token.Hash(newAccess), newRefreshHash); err != nil && g.logger != nil {
			g.logger.Warn("failed to update session credential hashes", zap.Error(err))
		}
	}

	return g.tokens.Validate(newAccess)
}

// rotateRefresh blacklists the old refresh credential before the new
// one exists, so a crash in between forces re-login instead of leaving
// two live refresh credentials. Returns the new credential's hash, or
// empty if rotation was skipped.
func (g *Gateway) rotateRefresh(c echo.Context, oldRefresh string, rClaims *token.Claims, remaining time.Duration) string {
	if err := g.blacklist.RevokeRefresh(oldRefresh, remaining); err != nil {
		if g.logger != nil {
			g.logger.Error("refresh rotation aborted: could not revoke old credential",
				zap.Uint("user_id", rClaims.UserID),
				zap.Error(err))
		}
		return ""
	}

	newRefresh, err := g.tokens.IssueRefresh(rClaims.UserID)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("failed to issue rotated refresh credential",
				zap.Uint("user_id", rClaims.UserID),
				zap.Error(err))
		}
		return ""
	}

	if err := g.blacklist.TrackIssuedRefresh(rClaims.UserID, newRefresh, time.Now().Add(g.tokens.RefreshExpiry())); err != nil && g.logger != nil {
		g.logger.Warn("failed to track rotated refresh credential", zap.Error(err))
	}

	SetRefreshCookie(c, g.config, newRefresh)

	if g.logger != nil {
		g.logger.Info("refresh credential rotated",
			zap.Uint("user_id", rClaims.UserID),
			zap.String("fingerprint", fingerprint.FromRequest(c.Request())))
	}

	return token.Hash(newRefresh)
}

// silentRefresh is best effort: any failure leaves the request riding
// its still-valid access credential.
func (g *Gateway) silentRefresh(c echo.Context, refreshToken string) {
	if revoked, _ := g.blacklist.IsRevoked(token.Hash(refreshToken)); revoked {
		return
	}

	rClaims, err := g.tokens.ValidateKind(refreshToken, token.KindRefresh)
	if err != nil {
		if g.logger != nil {
			g.logger.Debug("silent refresh skipped", zap.Error(err))
		}
		return
	}

	newAccess, err := g.tokens.IssueAccess(rClaims.UserID)
	if err != nil {
		return
	}

	SetAccessCookie(c, g.config, newAccess)

	if sessionID := cookieValue(c, SessionIDCookie); sessionID != "" {
		if err := g.sessions.UpdateTokenHashes(sessionID, token.Hash(newAccess), ""); err != nil && g.logger != nil {
			g.logger.Warn("failed to update session after silent refresh", zap.Error(err))
		}
	}
}

// proceed attaches identity to the request context and touches the
// session record. Session freshness fails open: a missing or
// unreachable record never blocks a cryptographically valid request.
func (g *Gateway) proceed(c echo.Context, next echo.HandlerFunc, claims *token.Claims) error {
	if sessionID := cookieValue(c, SessionIDCookie); sessionID != "" {
		g.sessions.Touch(sessionID, fingerprint.FromRequest(c.Request()))
		c.Set(SessionIDKey, sessionID)
	}

	c.Set(UserIDKey, claims.UserID)
	c.Set(ClaimsKey, claims)

	return next(c)
}

// ExtractAccessToken reads the access credential, cookie first, then
// the Authorization header.
func ExtractAccessToken(c echo.Context) string {
	if v := cookieValue(c, AccessTokenCookie); v != "" {
		return v
	}

	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func GetUserID(c echo.Context) uint {
	if userID, ok := c.Get(UserIDKey).(uint); ok {
		return userID
	}
	return 0
}

func GetClaims(c echo.Context) *token.Claims {
	if claims, ok := c.Get(ClaimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}

func GetSessionID(c echo.Context) string {
	if sessionID, ok := c.Get(SessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
