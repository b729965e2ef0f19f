package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a credential is not a three-segment
// JWT-shaped token and therefore carries no decodable claim payload.
var ErrMalformedToken = errors.New("token is not a three-segment JWT")

// UnverifiedClaims is the claim set decoded from a token payload WITHOUT
// signature verification. It shows what the token claims to be, not what
// the server has proven; it must never be used for authorization.
type UnverifiedClaims struct {
	Subject   string `json:"sub,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"` // epoch seconds
	Expired   bool   `json:"expired"`
}

// DecodeUnverifiedClaims base64-decodes the payload segment of a
// three-segment token and extracts subject, email, role, and expiry.
// Expired is computed by comparing the expiry against now with millisecond
// precision.
//
// No signature check is performed. Decoding failures are reported as errors
// so callers can surface them as diagnostics rather than fail the request.
func DecodeUnverifiedClaims(token string, now time.Time) (*UnverifiedClaims, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformedToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}

	out := &UnverifiedClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Unix()
		out.Expired = out.ExpiresAt*1000 < now.UnixMilli()
	}
	return out, nil
}
