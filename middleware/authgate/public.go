package authgate

import "strings"

// The root path is matched exactly; a prefix match there would exempt
// everything.
var exactPublicPaths = []string{
	"/",
}

var publicPathPrefixes = []string{
	"/about",
	"/contact",
	"/signin",
	"/register",
	"/signup",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/token",
	"/api/auth/refresh",
	"/api/auth/logout",
	"/health",
}

func IsPublicPath(path string) bool {
	for _, p := range exactPublicPaths {
		if path == p {
			return true
		}
	}

	for _, prefix := range publicPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
