package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aretera/chat-backend/internal/config"
)

// Verifier resolves a bearer credential to a user identity or fails.
// Implementations are tried in order by the diagnostics service; Name()
// identifies the strategy in report entries.
type Verifier interface {
	Name() string
	ResolveUser(ctx context.Context, token string) (*User, error)
}

// User is the identity resolved by the auth platform for a valid credential.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Client verifies tokens against the auth platform's user endpoint
// (GET {base}/auth/v1/user). The api key determines the privilege level:
// the service key bypasses client-side restrictions, the anon key is subject
// to them. The token under test is always forwarded as the bearer credential.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAdminClient builds the elevated-privilege verifier from the service key.
// It fails when the base URL or service key is not configured.
func NewAdminClient(cfg config.AuthConfig) (*Client, error) {
	return newClient("admin_client", cfg.BaseURL, cfg.ServiceKey, cfg.Timeout)
}

// NewAnonClient builds the standard verifier from the public anon key.
// It fails when the base URL or anon key is not configured.
func NewAnonClient(cfg config.AuthConfig) (*Client, error) {
	return newClient("anon_client", cfg.BaseURL, cfg.AnonKey, cfg.Timeout)
}

func newClient(name, baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("auth base URL is not configured")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is not configured", name)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name identifies the verification strategy ("admin_client" or "anon_client").
func (c *Client) Name() string { return c.name }

// ResolveUser calls the platform's user endpoint with the given token.
// A non-200 response or an unparsable body is an error; the caller decides
// whether that is fatal (gatekeeping) or merely recorded (diagnostics).
func (c *Client) ResolveUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		log.Debug().
			Str("verifier", c.name).
			Int("status", resp.StatusCode).
			Msg("token verification rejected")
		return nil, fmt.Errorf("auth platform returned status %d", resp.StatusCode)
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if u.ID == "" {
		return nil, errors.New("auth platform returned no user")
	}
	return &u, nil
}
