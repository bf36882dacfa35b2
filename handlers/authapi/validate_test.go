package authapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCredentialShape(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "bosun", "Voyage-Ready-2024", false},
		{"valid with dots and dashes", "first.last-99", "pw12345678", false},
		{"empty username", "", "password", true},
		{"empty password", "bosun", "", true},
		{"username too long", strings.Repeat("a", 151), "password", true},
		{"username at limit", strings.Repeat("a", 150), "password", false},
		{"password too long", "bosun", strings.Repeat("a", 129), true},
		{"control character", "bo\x00sun", "password", true},
		{"sql injection quote-or", "admin' OR '1'='1", "password", true},
		{"sql comment", "admin'--", "password", true},
		{"union select", "x UNION SELECT * FROM users", "password", true},
		{"script tag", "<script>alert(1)</script>", "password", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentialShape(tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
