package authgate

import (
	"net/http"
	"time"

	"github.com/crewgate/crewgate/config"
	"github.com/labstack/echo/v4"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	SessionIDCookie    = "session_id"
	CSRFCookie         = "csrftoken"
)

// authCookie builds a cookie with the transport attributes for the
// environment: SameSite=None plus Secure behind TLS in production,
// SameSite=Lax without Secure in development.
func authCookie(cfg *config.Config, name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Session.CookieDomain,
		HttpOnly: true,
		MaxAge:   int(maxAge.Seconds()),
	}

	if cfg.App.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	return cookie
}

func SetAccessCookie(c echo.Context, cfg *config.Config, accessToken string) {
	c.SetCookie(authCookie(cfg, AccessTokenCookie, accessToken, cfg.JWT.AccessExpiry))
}

func SetRefreshCookie(c echo.Context, cfg *config.Config, refreshToken string) {
	c.SetCookie(authCookie(cfg, RefreshTokenCookie, refreshToken, cfg.JWT.RefreshExpiry))
}

func SetSessionCookie(c echo.Context, cfg *config.Config, sessionID string) {
	c.SetCookie(authCookie(cfg, SessionIDCookie, sessionID, cfg.Session.TTL))
}

func SetAuthCookies(c echo.Context, cfg *config.Config, accessToken, refreshToken, sessionID string) {
	SetAccessCookie(c, cfg, accessToken)
	SetRefreshCookie(c, cfg, refreshToken)
	SetSessionCookie(c, cfg, sessionID)
}

// ClearAuthCookies expires all auth transport state, the CSRF cookie
// included.
func ClearAuthCookies(c echo.Context, cfg *config.Config) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, SessionIDCookie, CSRFCookie} {
		cookie := authCookie(cfg, name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}
