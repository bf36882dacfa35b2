package authgate

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders attaches the baseline security headers to every
// response, rejections included, and marks auth endpoints uncacheable.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			if strings.HasPrefix(c.Request().URL.Path, "/api/auth/") {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
				h.Set("Pragma", "no-cache")
			}

			return next(c)
		}
	}
}
