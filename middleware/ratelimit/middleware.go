package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type limitResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Require rejects requests from clients that have exhausted their
// attempt budget for the action. The check runs before the handler so
// no credential work happens for a throttled client. Counting failures
// and resetting on success stay with the handler, which knows the
// outcome.
func Require(limiter *Limiter, action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter := limiter.Allow(c.RealIP(), action)
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))

				return c.JSON(http.StatusTooManyRequests, limitResponse{
					Error: "Too many attempts. Please try again later.",
					Kind:  "rate_limited",
				})
			}

			return next(c)
		}
	}
}

func NewStore(cfg string) Store {
	switch cfg {
	case "memory":
		fallthrough
	default:
		return NewMemoryStore()
	}
}
