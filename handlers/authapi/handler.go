package authapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/middleware/authgate"
	"github.com/crewgate/crewgate/middleware/ratelimit"
	"github.com/crewgate/crewgate/services/blacklist"
	"github.com/crewgate/crewgate/services/fingerprint"
	"github.com/crewgate/crewgate/services/identity"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/crewgate/crewgate/services/sessioncache"
	"github.com/crewgate/crewgate/services/token"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler owns the credential lifecycle endpoints: login, refresh,
// logout, global logout and verify.
type Handler struct {
	config    *config.Config
	tokens    *token.Service
	sessions  *sessioncache.Service
	blacklist *blacklist.Service
	identity  *identity.Service
	gateway   *authgate.Gateway
	limiter   *ratelimit.Limiter
	logger    *logging.Service
}

func NewHandler(cfg *config.Config, tokens *token.Service, sessions *sessioncache.Service, bl *blacklist.Service, ident *identity.Service, gateway *authgate.Gateway, limiter *ratelimit.Limiter, logger *logging.Service) *Handler {
	return &Handler{
		config:    cfg,
		tokens:    tokens,
		sessions:  sessions,
		blacklist: bl,
		identity:  ident,
		gateway:   gateway,
		limiter:   limiter,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/auth")
	api.POST("/login", h.Login, ratelimit.Require(h.limiter, ratelimit.ActionLogin))
	api.POST("/token", h.Login, ratelimit.Require(h.limiter, ratelimit.ActionLogin))
	api.POST("/refresh", h.Refresh, ratelimit.Require(h.limiter, ratelimit.ActionRefresh))
	api.POST("/logout", h.Logout)
	api.POST("/logout-all", h.LogoutAll)
	api.GET("/verify", h.Verify)
	api.POST("/verify", h.Verify)

	e.GET("/api/home", h.Home)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string `json:"message"`
	Redirect  string `json:"redirect"`
	SessionID string `json:"session_id"`
	ExpiresIn int    `json:"expires_in"`
}

func (h *Handler) Login(c echo.Context) error {
	ip := c.RealIP()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		h.limiter.RecordFailure(ip, ratelimit.ActionLogin)
		return authgate.Reject(c, http.StatusBadRequest, "Malformed request body", authgate.KindInvalidCredentialsFormat)
	}

	// Shape checks run before the identity store sees anything.
	if err := ValidateCredentialShape(req.Username, req.Password); err != nil {
		h.limiter.RecordFailure(ip, ratelimit.ActionLogin)
		return authgate.Reject(c, http.StatusBadRequest, err.Error(), authgate.KindInvalidCredentialsFormat)
	}

	user, err := h.identity.Authenticate(req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, identity.ErrInvalidCredentials) && h.logger != nil {
			h.logger.Error("identity store failure during login", zap.Error(err))
		}
		h.limiter.RecordFailure(ip, ratelimit.ActionLogin)
		return authgate.Reject(c, http.StatusUnauthorized, "Invalid username or password", authgate.KindAuthenticationRequired)
	}

	access, err := h.tokens.IssueAccess(user.ID)
	if err != nil {
		return h.issueFailure(c, err)
	}
	refresh, err := h.tokens.IssueRefresh(user.ID)
	if err != nil {
		return h.issueFailure(c, err)
	}

	if err := h.blacklist.TrackIssuedRefresh(user.ID, refresh, time.Now().Add(h.tokens.RefreshExpiry())); err != nil && h.logger != nil {
		h.logger.Warn("failed to track issued refresh credential", zap.Error(err))
	}

	sessionID, err := sessioncache.NewSessionID()
	if err != nil {
		return h.issueFailure(c, err)
	}

	now := time.Now()
	rawUA := c.Request().UserAgent()
	record := &sessioncache.Record{
		UserID:           user.ID,
		IPAddress:        ip,
		UserAgent:        rawUA,
		Client:           sessioncache.SummarizeClient(rawUA),
		Fingerprint:      fingerprint.FromRequest(c.Request()),
		AccessTokenHash:  token.Hash(access),
		RefreshTokenHash: token.Hash(refresh),
		CreatedAt:        now,
		LastActivity:     now,
	}
	if err := h.sessions.Put(sessionID, record); err != nil && h.logger != nil {
		h.logger.Warn("failed to store session record on login", zap.Error(err))
	}

	authgate.SetAuthCookies(c, h.config, access, refresh, sessionID)
	h.limiter.Reset(ip, ratelimit.ActionLogin)

	if h.logger != nil {
		h.logger.Info("user logged in",
			zap.Uint("user_id", user.ID),
			zap.String("ip", ip),
			zap.String("client", record.Client))
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:   "Login successful",
		Redirect:  "/home",
		SessionID: sessionID,
		ExpiresIn: int(h.tokens.AccessExpiry().Seconds()),
	})
}

func (h *Handler) issueFailure(c echo.Context, err error) error {
	if h.logger != nil {
		h.logger.Error("failed to establish session", zap.Error(err))
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to establish session")
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh mints a new access credential from the refresh credential,
// cookie first with a JSON body fallback for non-browser clients.
func (h *Handler) Refresh(c echo.Context) error {
	ip := c.RealIP()

	refreshToken := cookieValue(c, authgate.RefreshTokenCookie)
	if refreshToken == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.Refresh
		}
	}

	if refreshToken == "" {
		h.limiter.RecordFailure(ip, ratelimit.ActionRefresh)
		return authgate.Reject(c, http.StatusUnauthorized, "Refresh credential required", authgate.KindAuthenticationRequired)
	}

	claims, err := h.gateway.RefreshCredentials(c, refreshToken)
	if err != nil {
		h.limiter.RecordFailure(ip, ratelimit.ActionRefresh)
		if errors.Is(err, authgate.ErrRefreshRevoked) {
			return authgate.Reject(c, http.StatusUnauthorized, "Token has been invalidated", authgate.KindTokenInvalidated)
		}
		return authgate.Reject(c, http.StatusUnauthorized, "Your session has expired. Please sign in again.", authgate.KindSessionExpired)
	}

	h.limiter.Reset(ip, ratelimit.ActionRefresh)

	return c.JSON(http.StatusOK, map[string]any{
		"message":    "Token refreshed",
		"user_id":    claims.UserID,
		"expires_in": int(h.tokens.AccessExpiry().Seconds()),
	})
}

// Logout revokes whatever credentials accompany the request and clears
// the transport state. Idempotent: with nothing to revoke it still
// succeeds.
func (h *Handler) Logout(c echo.Context) error {
	revokedAny := false

	if access := authgate.ExtractAccessToken(c); access != "" {
		if claims, err := h.tokens.Validate(access); err == nil {
			if err := h.blacklist.RevokeAccess(access, h.tokens.RemainingLifetime(claims)); err == nil {
				revokedAny = true
			}
		}
	}

	if refresh := cookieValue(c, authgate.RefreshTokenCookie); refresh != "" {
		if claims, err := h.tokens.ValidateKind(refresh, token.KindRefresh); err == nil {
			if err := h.blacklist.RevokeRefresh(refresh, h.tokens.RemainingLifetime(claims)); err == nil {
				revokedAny = true
			}
		}
	}

	if sessionID := cookieValue(c, authgate.SessionIDCookie); sessionID != "" {
		if err := h.sessions.Delete(sessionID); err != nil && h.logger != nil {
			h.logger.Warn("failed to delete session record on logout", zap.Error(err))
		}
	}

	authgate.ClearAuthCookies(c, h.config)

	message := "Logged out successfully"
	if !revokedAny {
		message = "No active session"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  message,
		"redirect": authgate.SignInPath,
	})
}

// LogoutAll revokes every outstanding refresh credential issued to the
// caller. Requires a valid, unrevoked access credential since the
// route is reachable without the gateway.
func (h *Handler) LogoutAll(c echo.Context) error {
	access := authgate.ExtractAccessToken(c)
	if access == "" {
		return authgate.Reject(c, http.StatusUnauthorized, "Authentication required", authgate.KindAuthenticationRequired)
	}

	if revoked, _ := h.blacklist.IsRevoked(token.Hash(access)); revoked {
		return authgate.Reject(c, http.StatusUnauthorized, "Token has been invalidated", authgate.KindTokenInvalidated)
	}

	claims, err := h.tokens.ValidateKind(access, token.KindAccess)
	if err != nil {
		return authgate.Reject(c, http.StatusUnauthorized, "Invalid token", authgate.KindTokenInvalid)
	}

	count, err := h.blacklist.RevokeAllUserRefresh(claims.UserID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("global logout failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke sessions")
	}

	if err := h.blacklist.RevokeAccess(access, h.tokens.RemainingLifetime(claims)); err != nil && h.logger != nil {
		h.logger.Warn("failed to revoke current access credential", zap.Error(err))
	}

	if sessionID := cookieValue(c, authgate.SessionIDCookie); sessionID != "" {
		if err := h.sessions.Delete(sessionID); err != nil && h.logger != nil {
			h.logger.Warn("failed to delete session record on global logout", zap.Error(err))
		}
	}

	authgate.ClearAuthCookies(c, h.config)

	return c.JSON(http.StatusOK, map[string]any{
		"message":          "Logged out of all sessions",
		"sessions_revoked": count,
		"redirect":         authgate.SignInPath,
	})
}

// Verify reports the caller's identity. The gateway has already
// validated the credential; this only resolves the user record.
func (h *Handler) Verify(c echo.Context) error {
	userID := authgate.GetUserID(c)
	if userID == 0 {
		return authgate.Reject(c, http.StatusUnauthorized, "Authentication required", authgate.KindAuthenticationRequired)
	}

	user, err := h.identity.GetUser(userID)
	if err != nil {
		return authgate.Reject(c, http.StatusUnauthorized, "Authentication required", authgate.KindAuthenticationRequired)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Home is a gated sample endpoint surfacing the session view the
// gateway maintains.
func (h *Handler) Home(c echo.Context) error {
	userID := authgate.GetUserID(c)
	if userID == 0 {
		return authgate.Reject(c, http.StatusUnauthorized, "Authentication required", authgate.KindAuthenticationRequired)
	}

	resp := map[string]any{
		"user_id": userID,
	}

	if sessionID := authgate.GetSessionID(c); sessionID != "" {
		if record, found, _ := h.sessions.Get(sessionID); found {
			resp["session"] = map[string]any{
				"client":        record.Client,
				"created_at":    record.CreatedAt,
				"last_activity": record.LastActivity,
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
