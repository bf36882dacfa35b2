package fingerprint

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := Compute("Mozilla/5.0", "en-US", "gzip, deflate")
		b := Compute("Mozilla/5.0", "en-US", "gzip, deflate")
		assert.Equal(t, a, b)
	})

	t.Run("fixed length", func(t *testing.T) {
		assert.Len(t, Compute("Mozilla/5.0", "en-US", "gzip"), digestLength)
		assert.Len(t, Compute("", "", ""), digestLength)
	})

	t.Run("sensitive to each component", func(t *testing.T) {
		base := Compute("Mozilla/5.0", "en-US", "gzip")
		assert.NotEqual(t, base, Compute("curl/8.0", "en-US", "gzip"))
		assert.NotEqual(t, base, Compute("Mozilla/5.0", "es-ES", "gzip"))
		assert.NotEqual(t, base, Compute("Mozilla/5.0", "en-US", "br"))
	})

	t.Run("component boundaries are not ambiguous", func(t *testing.T) {
		assert.NotEqual(t, Compute("a|b", "c", "d"), Compute("a", "b|c", "d"))
	})
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Accept-Encoding", "gzip")
	req.RemoteAddr = "198.51.100.7:1234"

	got := FromRequest(req)
	assert.Equal(t, Compute("Mozilla/5.0", "en-US", "gzip"), got)

	// Changing only the client address must not change the digest.
	req.RemoteAddr = "203.0.113.9:9999"
	assert.Equal(t, got, FromRequest(req))
}
