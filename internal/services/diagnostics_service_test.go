package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretera/chat-backend/internal/auth"
)

// fakeVerifier is a scripted verification strategy.
type fakeVerifier struct {
	name   string
	user   *auth.User
	err    error
	called bool
}

func (f *fakeVerifier) Name() string { return f.name }
func (f *fakeVerifier) ResolveUser(_ context.Context, _ string) (*auth.User, error) {
	f.called = true
	return f.user, f.err
}

func testToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func TestAuthDiagRun_NoToken(t *testing.T) {
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{&fakeVerifier{name: "admin_client"}},
		CookieName: "sb-access-token",
		Now:        fixedNow,
	}
	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)

	rep := svc.Run(context.Background(), req)
	if rep.Status != DiagStatusFailed || rep.Reason != ReasonNoToken {
		t.Fatalf("got status=%q reason=%q", rep.Status, rep.Reason)
	}
	if rep.TokenPresent || rep.TokenSource != "" {
		t.Fatalf("no credential should be reported: %+v", rep)
	}
	if len(rep.Attempts) != 0 {
		t.Fatalf("expected zero attempts, got %d", len(rep.Attempts))
	}
	if rep.Claims != nil || rep.AuthCheck != nil {
		t.Fatalf("no-token report must stop before claims and auth check")
	}
	if !rep.Timestamp.Equal(fixedNow()) {
		t.Fatalf("timestamp not taken from Now: %v", rep.Timestamp)
	}
}

func TestAuthDiagRun_FirstStrategyWins(t *testing.T) {
	admin := &fakeVerifier{name: "admin_client", user: &auth.User{ID: "u1"}}
	anon := &fakeVerifier{name: "anon_client", user: &auth.User{ID: "u1"}}
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{admin, anon},
		CookieName: "sb-access-token",
		Now:        fixedNow,
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, map[string]any{"sub": "u1"}))

	rep := svc.Run(context.Background(), req)
	if rep.Status != DiagStatusSuccess {
		t.Fatalf("got status %q", rep.Status)
	}
	if rep.TokenSource != auth.SourceHeader {
		t.Fatalf("got source %q", rep.TokenSource)
	}
	if len(rep.Attempts) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(rep.Attempts))
	}
	a := rep.Attempts[0]
	if a.Method != "admin_client" || !a.Success || a.UserID != "u1" || a.Error != "" {
		t.Fatalf("unexpected attempt: %+v", a)
	}
	if anon.called {
		t.Fatalf("fallback strategy must not run after a success")
	}
}

func TestAuthDiagRun_FallbackAfterFailure(t *testing.T) {
	admin := &fakeVerifier{name: "admin_client", err: errors.New("auth platform returned status 401")}
	anon := &fakeVerifier{name: "anon_client", user: &auth.User{ID: "u2"}}
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{admin, anon},
		CookieName: "sb-access-token",
		Now:        fixedNow,
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: testToken(t, map[string]any{"sub": "u2"})})

	rep := svc.Run(context.Background(), req)
	if rep.Status != DiagStatusSuccess {
		t.Fatalf("got status %q", rep.Status)
	}
	if rep.TokenSource != auth.SourceCookie {
		t.Fatalf("got source %q", rep.TokenSource)
	}
	if len(rep.Attempts) != 2 {
		t.Fatalf("expected two attempts, got %d", len(rep.Attempts))
	}
	if rep.Attempts[0].Success || rep.Attempts[0].Error == "" {
		t.Fatalf("first attempt should carry the failure: %+v", rep.Attempts[0])
	}
	if !rep.Attempts[1].Success || rep.Attempts[1].UserID != "u2" {
		t.Fatalf("second attempt should succeed: %+v", rep.Attempts[1])
	}
}

func TestAuthDiagRun_AllStrategiesFail(t *testing.T) {
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{
			&fakeVerifier{name: "admin_client", err: errors.New("boom")},
			&fakeVerifier{name: "anon_client", err: errors.New("boom")},
		},
		CookieName: "sb-access-token",
		Now:        fixedNow,
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, map[string]any{"sub": "u"}))

	rep := svc.Run(context.Background(), req)
	if rep.Status != DiagStatusFailed || rep.Reason != ReasonAllFailed {
		t.Fatalf("got status=%q reason=%q", rep.Status, rep.Reason)
	}
	if len(rep.Attempts) != 2 {
		t.Fatalf("expected both attempts recorded, got %d", len(rep.Attempts))
	}
}

func TestAuthDiagRun_ClaimsDecodedDespiteFailure(t *testing.T) {
	now := fixedNow()
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{&fakeVerifier{name: "anon_client", err: errors.New("rejected")}},
		CookieName: "sb-access-token",
		Now:        func() time.Time { return now },
	}

	exp := now.Add(-time.Minute).Unix()
	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, map[string]any{
		"sub":   "u9",
		"email": "u9@example.com",
		"role":  "authenticated",
		"exp":   exp,
	}))

	rep := svc.Run(context.Background(), req)
	if rep.Claims == nil {
		t.Fatalf("claims must be decoded even when verification fails")
	}
	if rep.Claims.Subject != "u9" || rep.Claims.Email != "u9@example.com" || rep.Claims.ExpiresAt != exp {
		t.Fatalf("unexpected claims: %+v", rep.Claims)
	}
	if !rep.Claims.Expired {
		t.Fatalf("token past exp must be flagged expired")
	}
}

func TestAuthDiagRun_UndecodableToken(t *testing.T) {
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{&fakeVerifier{name: "anon_client", user: &auth.User{ID: "u"}}},
		CookieName: "sb-access-token",
		Now:        fixedNow,
	}

	// Opaque token: the platform may accept it, but it has no claim payload.
	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rep := svc.Run(context.Background(), req)
	if rep.Status != DiagStatusSuccess {
		t.Fatalf("got status %q", rep.Status)
	}
	if rep.Claims == nil || rep.Claims.DecodeError == "" {
		t.Fatalf("expected a decode error marker, got %+v", rep.Claims)
	}
}

func TestAuthDiagRun_AuthCheckIndependent(t *testing.T) {
	// Strategies succeed while the production path is rejected; both verdicts
	// must be visible side by side.
	svc := &AuthDiagService{
		Strategies: []auth.Verifier{&fakeVerifier{name: "admin_client", user: &auth.User{ID: "u1"}}},
		Verifier: &auth.RequestVerifier{
			Client:     &fakeVerifier{name: "anon_client", err: errors.New("expired")},
			CookieName: "sb-access-token",
		},
		CookieName: "sb-access-token",
		Now:        fixedNow,
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/auth", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, map[string]any{"sub": "u1"}))

	rep := svc.Run(context.Background(), req)
	if rep.Status != DiagStatusSuccess {
		t.Fatalf("got status %q", rep.Status)
	}
	if rep.AuthCheck == nil || rep.AuthCheck.Success || rep.AuthCheck.Error != "expired" {
		t.Fatalf("unexpected auth check: %+v", rep.AuthCheck)
	}
}
