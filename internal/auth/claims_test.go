package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// makeToken assembles an unsigned three-segment token whose payload is the
// given claim map. The signature segment is junk; claim decoding never
// verifies it.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestDecodeUnverifiedClaims_Malformed(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
		if _, err := DecodeUnverifiedClaims(tok, time.Now()); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", tok, err)
		}
	}
}

func TestDecodeUnverifiedClaims_BadPayload(t *testing.T) {
	if _, err := DecodeUnverifiedClaims("a.!!!.c", time.Now()); err == nil {
		t.Fatalf("expected decode error for undecodable payload")
	}
}

func TestDecodeUnverifiedClaims_ExpiredToken(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	exp := now.Add(-time.Hour).Unix()
	tok := makeToken(t, map[string]any{
		"sub":   "user-1",
		"email": "a@example.com",
		"role":  "authenticated",
		"exp":   exp,
	})

	c, err := DecodeUnverifiedClaims(tok, now)
	if err != nil {
		t.Fatalf("DecodeUnverifiedClaims: %v", err)
	}
	if c.Subject != "user-1" || c.Email != "a@example.com" || c.Role != "authenticated" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if c.ExpiresAt != exp || !c.Expired {
		t.Fatalf("expected expired token, got exp=%d expired=%v", c.ExpiresAt, c.Expired)
	}
}

func TestDecodeUnverifiedClaims_LiveToken(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tok := makeToken(t, map[string]any{
		"sub": "user-1",
		"exp": now.Add(time.Hour).Unix(),
	})

	c, err := DecodeUnverifiedClaims(tok, now)
	if err != nil {
		t.Fatalf("DecodeUnverifiedClaims: %v", err)
	}
	if c.Expired {
		t.Fatalf("token expiring in an hour must not be flagged expired")
	}
}

func TestDecodeUnverifiedClaims_NoExpiry(t *testing.T) {
	c, err := DecodeUnverifiedClaims(makeToken(t, map[string]any{"sub": "user-1"}), time.Now())
	if err != nil {
		t.Fatalf("DecodeUnverifiedClaims: %v", err)
	}
	if c.ExpiresAt != 0 || c.Expired {
		t.Fatalf("expected zero expiry and not expired, got %+v", c)
	}
}
