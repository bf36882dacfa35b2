// Package fingerprint derives a low-entropy device identifier from
// stable request headers. It is an audit signal for hijack detection,
// never a blocking check on its own. Client IP is deliberately excluded
// so mobile network changes do not flag legitimate users.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

const digestLength = 16

// Compute hashes the ordered header triple into a short hex digest.
func Compute(userAgent, acceptLanguage, acceptEncoding string) string {
	joined := strings.Join([]string{userAgent, acceptLanguage, acceptEncoding}, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:digestLength]
}

// FromRequest extracts the header triple from an HTTP request.
func FromRequest(r *http.Request) string {
	return Compute(
		r.Header.Get("User-Agent"),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
	)
}
