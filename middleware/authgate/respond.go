package authgate

import (
	"github.com/labstack/echo/v4"
)

// Machine-readable rejection kinds. Clients branch on these instead of
// parsing error text.
const (
	KindAuthenticationRequired   = "authentication_required"
	KindTokenInvalid             = "token_invalid"
	KindTokenExpired             = "token_expired"
	KindTokenInvalidated         = "token_invalidated"
	KindSessionExpired           = "session_expired"
	KindRateLimited              = "rate_limited"
	KindInvalidCredentialsFormat = "invalid_credentials_format"
)

// SignInPath is the redirect hint carried on every rejection.
const SignInPath = "/signin"

type Rejection struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Redirect string `json:"redirect,omitempty"`
}

func Reject(c echo.Context, status int, message, kind string) error {
	return c.JSON(status, Rejection{
		Error:    message,
		Kind:     kind,
		Redirect: SignInPath,
	})
}
