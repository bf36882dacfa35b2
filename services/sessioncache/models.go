package sessioncache

import (
	"time"

	"github.com/mileusna/useragent"
)

// Record is the server-side state of one logical login session. It is
// keyed by an opaque high-entropy session id, never by the credentials
// themselves; credentials appear only as sha256 hashes.
type Record struct {
	UserID           uint      `json:"user_id"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
	Client           string    `json:"client"`
	Fingerprint      string    `json:"fingerprint"`
	AccessTokenHash  string    `json:"access_token_hash"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	CreatedAt        time.Time `json:"created_at"`
	LastActivity     time.Time `json:"last_activity"`
}

// SummarizeClient condenses a raw User-Agent header into a short
// human-readable label for session listings and audit logs.
func SummarizeClient(rawUserAgent string) string {
	if rawUserAgent == "" {
		return "unknown"
	}

	ua := useragent.Parse(rawUserAgent)
	switch {
	case ua.Name != "" && ua.OS != "":
		return ua.Name + " on " + ua.OS
	case ua.Name != "":
		return ua.Name
	default:
		return "unknown"
	}
}
