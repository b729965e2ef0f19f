// Package services – AuthDiagService
//
// This file implements the authentication diagnostics service backing
// GET /debug/auth. It resolves a bearer credential through an ordered list of
// verification strategies (elevated-privilege first, then standard),
// recording the outcome of every attempt so an operator can see which layer
// misbehaved instead of guessing. Independently of the attempts it decodes
// the token's claims without signature verification and cross-checks the
// production request-verification path.
//
// The service never fails outward: client construction failures, network
// failures, and decode failures are all captured as structured data in the
// report. Gatekeeping is someone else's job; this endpoint exists to expose
// failure detail.
package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aretera/chat-backend/internal/auth"
)

// Diagnostic statuses for AuthDiagReport.Status.
const (
	DiagStatusPending = "pending"
	DiagStatusSuccess = "success"
	DiagStatusFailed  = "failed"
)

// Failure reasons surfaced in AuthDiagReport.Reason.
const (
	ReasonNoToken   = "no token found"
	ReasonAllFailed = "all verification methods failed"
)

// VerificationAttempt records the outcome of one verification strategy.
// Attempts are ordered and append-only: one entry per strategy tried.
type VerificationAttempt struct {
	Method  string `json:"method"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// ClaimsReport is the unverified claim set shown in the report, or the
// decode error when the token payload could not be parsed.
type ClaimsReport struct {
	Subject     string `json:"sub,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	ExpiresAt   int64  `json:"exp,omitempty"`
	Expired     bool   `json:"expired,omitempty"`
	DecodeError string `json:"decode_error,omitempty"`
}

// AuthCheck records the outcome of the production verification path
// (VerifyRequest with RequireAuth), run independently of the strategy
// attempts so the two can be compared.
type AuthCheck struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	User    *auth.User `json:"user,omitempty"`
}

// AuthDiagReport is the full diagnostic report returned by the endpoint.
// Only credential presence and source are recorded, never the token value.
type AuthDiagReport struct {
	Timestamp    time.Time             `json:"timestamp"`
	Method       string                `json:"method"`
	Path         string                `json:"path"`
	TokenPresent bool                  `json:"token_present"`
	TokenSource  string                `json:"token_source,omitempty"`
	Status       string                `json:"status"`
	Reason       string                `json:"reason,omitempty"`
	Attempts     []VerificationAttempt `json:"attempts"`
	Claims       *ClaimsReport         `json:"claims,omitempty"`
	AuthCheck    *AuthCheck            `json:"auth_check,omitempty"`
}

// AuthDiagService assembles diagnostic reports for inbound requests.
type AuthDiagService struct {
	// Strategies is the ordered verification fallback list. Strategies that
	// could not be constructed (missing base URL or key) are simply absent.
	Strategies []auth.Verifier

	// Verifier is the shared production verification path, cross-checked
	// independently of Strategies.
	Verifier *auth.RequestVerifier

	// CookieName is the fallback session cookie consulted for the credential.
	CookieName string

	// Now supplies the current time; tests override it. Defaults to time.Now.
	Now func() time.Time
}

// Run builds the diagnostic report for r. It never returns an error: every
// failure is data in the report, and the handler always responds 200.
//
// Sequence:
//  1. Extract the credential; without one the report terminates immediately
//     with status failed and zero attempts.
//  2. Try each strategy in order, appending one attempt per strategy, and
//     stop trying once one succeeds.
//  3. Decode the token's claims without verification (independent of 2).
//  4. Cross-check the production verification path (independent of 2 and 3).
func (s *AuthDiagService) Run(ctx context.Context, r *http.Request) *AuthDiagReport {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	report := &AuthDiagReport{
		Timestamp: now().UTC(),
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    DiagStatusPending,
		Attempts:  []VerificationAttempt{},
	}

	token, source := auth.BearerToken(r, s.CookieName)
	if source == "" {
		report.Status = DiagStatusFailed
		report.Reason = ReasonNoToken
		return report
	}
	report.TokenPresent = true
	report.TokenSource = source

	// Ordered fallback: later strategies run only while no attempt succeeded.
	for _, v := range s.Strategies {
		attempt := VerificationAttempt{Method: v.Name()}
		u, err := v.ResolveUser(ctx, token)
		switch {
		case err != nil:
			attempt.Error = err.Error()
		case u == nil:
			attempt.Error = "no user returned"
		default:
			attempt.Success = true
			attempt.UserID = u.ID
		}
		report.Attempts = append(report.Attempts, attempt)
		if attempt.Success {
			report.Status = DiagStatusSuccess
			break
		}
	}

	// Unverified claim decode, regardless of how verification went.
	claims, err := auth.DecodeUnverifiedClaims(token, now())
	if err != nil {
		report.Claims = &ClaimsReport{DecodeError: err.Error()}
		log.Debug().Err(err).Msg("token claims not decodable")
	} else {
		report.Claims = &ClaimsReport{
			Subject:   claims.Subject,
			Email:     claims.Email,
			Role:      claims.Role,
			ExpiresAt: claims.ExpiresAt,
			Expired:   claims.Expired,
		}
	}

	if report.Status == DiagStatusPending {
		report.Status = DiagStatusFailed
		report.Reason = ReasonAllFailed
	}

	// Cross-check the production path so its verdict can be compared with
	// the per-strategy attempts above.
	if s.Verifier != nil {
		check := &AuthCheck{}
		if u, err := s.Verifier.VerifyRequest(ctx, r, auth.Options{RequireAuth: true}); err != nil {
			check.Error = err.Error()
		} else {
			check.Success = true
			check.User = u
		}
		report.AuthCheck = check
	}

	return report
}
