package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Client wraps the Identity Toolkit REST API for email+password accounts
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL points the client at another endpoint (emulator, tests)
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// ── API types ─────────────────────────────────────────

// Credential is returned by sign-in and sign-up
type Credential struct {
	UID          string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Methods ───────────────────────────────────────────

// SignIn exchanges email+password for an ID token
func (c *Client) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	var cred Credential
	err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &cred)
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return &cred, nil
}

// SignUp creates an email+password account
func (c *Client) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	var cred Credential
	err := c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &cred)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return &cred, nil
}

// SendPasswordReset emails a password reset link
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	err := c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
	if err != nil {
		return fmt.Errorf("sending password reset: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, method string, body any, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("firebase API key not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	reqURL := c.baseURL + "/" + method + "?" + url.Values{"key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			log.Warn().
				Str("method", method).
				Int("status", resp.StatusCode).
				Str("reason", apiErr.Error.Message).
				Msg("Identity toolkit request rejected")
			return fmt.Errorf("identity toolkit: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("identity toolkit returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
