package authapi

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxUsernameLength = 150
	maxPasswordLength = 128
)

var (
	errUsernameRequired = errors.New("username is required")
	errPasswordRequired = errors.New("password is required")
	errUsernameTooLong  = errors.New("username is too long")
	errPasswordTooLong  = errors.New("password is too long")
	errInvalidUsername  = errors.New("username contains invalid characters")
)

// Cheap tell-tales of injection probes. Anything this obviously hostile
// is rejected before the identity store is consulted.
var injectionPatterns = []string{
	"<script",
	"</",
	"' or ",
	"\" or ",
	"--",
	"/*",
	"union select",
	"drop table",
}

// ValidateCredentialShape bounds and sanity-checks a login payload. It
// never consults any store; its only job is keeping garbage away from
// the credential path.
func ValidateCredentialShape(username, password string) error {
	if username == "" {
		return errUsernameRequired
	}
	if password == "" {
		return errPasswordRequired
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return errUsernameTooLong
	}
	if utf8.RuneCountInString(password) > maxPasswordLength {
		return errPasswordTooLong
	}
	if !utf8.ValidString(username) {
		return errInvalidUsername
	}

	for _, r := range username {
		if unicode.IsControl(r) {
			return errInvalidUsername
		}
	}

	lowered := strings.ToLower(username)
	for _, pattern := range injectionPatterns {
		if strings.Contains(lowered, pattern) {
			return errInvalidUsername
		}
	}

	return nil
}
