// Package identity wraps the hosted auth service the portal delegates
// credentials to. The portal never stores passwords; it exchanges them for a
// session token and keeps only the provider's opaque user id.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrDuplicateEmail is returned by SignUp when the provider reports the
	// address as already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned by SignIn on a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Session is the provider's answer to a successful sign-up or sign-in.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// Provider is the contract the workflows consume. The concrete Client talks
// to a GoTrue-style REST auth service; tests substitute a fake.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}

// Config configures the Client.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client performs REST calls against the auth service.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("auth base URL is required")
	}
	return &Client{
		cfg:  Config{BaseURL: strings.TrimRight(cfg.BaseURL, "/"), APIKey: cfg.APIKey},
		http: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionBody struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e errorBody) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return e.Message
	}
}

// SignUp creates an account and returns the initial session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.postCredentials(ctx, "/signup", email, password)
	if err != nil {
		var pe *providerError
		if errors.As(err, &pe) && strings.Contains(strings.ToLower(pe.msg), "already registered") {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return sess, nil
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.postCredentials(ctx, "/token?grant_type=password", email, password)
	if err != nil {
		var pe *providerError
		if errors.As(err, &pe) && pe.status == http.StatusBadRequest {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return sess, nil
}

// SignOut revokes the session token with the provider.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return readError(resp)
	}
	return nil
}

func (c *Client) postCredentials(ctx context.Context, path, email, password string) (*Session, error) {
	payload, err := json.Marshal(credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, readError(resp)
	}
	var body sessionBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if body.User.ID == "" || body.AccessToken == "" {
		return nil, fmt.Errorf("auth response missing user id or token")
	}
	return &Session{UserID: body.User.ID, Email: body.User.Email, Token: body.AccessToken}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
	}
}

// providerError carries the provider's raw message plus the HTTP status so
// callers can classify failures.
type providerError struct {
	status int
	msg    string
}

func (e *providerError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("auth provider returned status %d", e.status)
	}
	return e.msg
}

func readError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body errorBody
	_ = json.Unmarshal(data, &body)
	return &providerError{status: resp.StatusCode, msg: body.text()}
}
