// Package auth implements bearer-credential handling for the HTTP layer:
// extraction of tokens from requests, unverified claim decoding, and
// verification against the hosted auth platform.
package auth

import (
	"net/http"
	"strings"
)

// Credential sources reported by BearerToken.
const (
	SourceHeader = "authorization_header"
	SourceCookie = "cookie"
)

// BearerToken extracts the bearer credential from a request.
//
// The Authorization header ("Bearer <token>") takes precedence; when absent,
// the session cookie named cookieName is consulted. The returned source is
// one of SourceHeader or SourceCookie, or "" when no credential was found.
// A missing credential is not an error: callers decide whether auth is
// required.
func BearerToken(r *http.Request, cookieName string) (token, source string) {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			if t := strings.TrimSpace(h[7:]); t != "" {
				return t, SourceHeader
			}
		}
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			if t := strings.TrimSpace(c.Value); t != "" {
				return t, SourceCookie
			}
		}
	}
	return "", ""
}
