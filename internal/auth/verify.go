package auth

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoSession is returned by VerifyRequest when authentication is required
// but the request carries no credential at all.
var ErrNoSession = errors.New("no valid session")

// Options configures a VerifyRequest call.
type Options struct {
	// RequireAuth makes a missing or unresolvable credential an error.
	// When false, an anonymous request yields (nil, nil).
	RequireAuth bool
}

// RequestVerifier is the production verification path shared by handlers:
// extract the bearer credential from the request and resolve it through the
// standard verifier.
type RequestVerifier struct {
	// Client resolves tokens; typically the anon client.
	Client Verifier
	// CookieName is the fallback session cookie consulted by BearerToken.
	CookieName string
}

// VerifyRequest resolves the request's credential to a user.
//
// With RequireAuth set, a missing credential yields ErrNoSession and a
// credential the platform rejects yields the resolution error. Without it,
// anonymous requests are allowed and return (nil, nil); an invalid credential
// is still reported as an error so callers never act on a bad token.
func (v *RequestVerifier) VerifyRequest(ctx context.Context, r *http.Request, opts Options) (*User, error) {
	token, source := BearerToken(r, v.CookieName)
	if source == "" {
		if opts.RequireAuth {
			return nil, ErrNoSession
		}
		return nil, nil
	}
	if v.Client == nil {
		return nil, errors.New("standard verifier is not configured")
	}
	u, err := v.Client.ResolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return u, nil
}
