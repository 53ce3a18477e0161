// Package authclient manages the client side of the token lifecycle:
// local expiry checks on the access token, refresh with backoff, and a
// single forced sign-out when the refresh token is rejected.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/contactdeck/contactdeck/pkg/retry"
)

var (
	// ErrNoSession is returned when no session is loaded.
	ErrNoSession = errors.New("no active session")
	// ErrAuthFailed is returned when the server rejects the refresh
	// token. The session is gone; the user must sign in again.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrRefreshFailed is returned when the refresh endpoint stayed
	// unavailable for the whole retry budget.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// Session holds the tokens and identity of a signed-in user. It is only
// mutated by the refresh flow, SetSession, and logout.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	Name         string
	Role         string
}

// TokenPair is the result of a successful refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.example.com".
	BaseURL string
	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client
	// ClockSkew is subtracted from the token lifetime so a token is
	// treated as expired slightly early (default 30s).
	ClockSkew time.Duration
	// RefreshWindow is how close to expiry a token must be before it
	// is reported as needing refresh (default 5m).
	RefreshWindow time.Duration
	// Retry controls the refresh backoff schedule. Defaults to three
	// retries starting at 1s and doubling.
	Retry *retry.Config
	// OnSignOut is invoked at most once per session when the server
	// terminally rejects the refresh token.
	OnSignOut func()
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Client is the token lifecycle manager.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	clockSkew     time.Duration
	refreshWindow time.Duration
	retrier       *retry.Retrier
	onSignOut     func()
	logger        *zap.Logger

	// refreshMu serializes refresh cycles so concurrent callers do not
	// race a rotated token. mu guards only the session state and is
	// never held across a network call, so OnSignOut may call back
	// into Session or SetSession.
	refreshMu sync.Mutex
	mu        sync.Mutex
	session   *Session
	signedOut atomic.Bool
}

// New creates a Client, applying defaults for zero-valued fields.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	clockSkew := cfg.ClockSkew
	if clockSkew <= 0 {
		clockSkew = 30 * time.Second
	}
	refreshWindow := cfg.RefreshWindow
	if refreshWindow <= 0 {
		refreshWindow = 5 * time.Minute
	}
	retryCfg := cfg.Retry
	if retryCfg == nil {
		retryCfg = &retry.Config{
			MaxRetries:      3,
			InitialInterval: time.Second,
			Multiplier:      2.0,
		}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		httpClient:    httpClient,
		clockSkew:     clockSkew,
		refreshWindow: refreshWindow,
		retrier:       retry.New(retryCfg),
		onSignOut:     cfg.OnSignOut,
		logger:        log,
	}
}

// SetSession installs a session, re-arming the sign-out guard.
func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	c.signedOut.Store(false)
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// GetValidAccessToken returns an access token that is valid and not near
// expiry, refreshing it first when needed. With a healthy token this is a
// pure read with no side effects. On a terminal auth failure the session
// is cleared and ErrAuthFailed returned.
func (c *Client) GetValidAccessToken(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return "", ErrNoSession
	}
	accessToken := c.session.AccessToken
	refreshToken := c.session.RefreshToken
	c.mu.Unlock()

	status := c.Validate(accessToken)
	if status.Valid && !status.NeedsRefresh {
		return accessToken, nil
	}

	pair, err := c.refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) {
			c.mu.Lock()
			// A session swapped in while we were refreshing is not
			// ours to clear.
			if c.session != nil && c.session.RefreshToken == refreshToken {
				c.session = nil
			}
			c.mu.Unlock()
			return "", ErrAuthFailed
		}
		c.logger.Warn("token refresh failed", zap.Error(err))
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", ErrNoSession
	}
	if c.session.RefreshToken == refreshToken {
		c.session.AccessToken = pair.AccessToken
		c.session.RefreshToken = pair.RefreshToken
	}
	return c.session.AccessToken, nil
}

// Refresh exchanges a refresh token for a new token pair. A 401 is
// terminal: the sign-out hook fires once and no retries are made. Rate
// limiting, server errors, and network errors are retried with
// exponential backoff until the budget is exhausted.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return c.refresh(ctx, refreshToken)
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair

	result := c.retrier.Do(ctx, func(ctx context.Context) error {
		p, err := c.postRefresh(ctx, refreshToken)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if result.Err != nil {
		if errors.Is(result.Err, ErrAuthFailed) {
			return nil, ErrAuthFailed
		}
		if errors.Is(result.Err, retry.ErrMaxAttemptsExceeded) {
			return nil, fmt.Errorf("%w after %d attempts: %v", ErrRefreshFailed, result.Attempts, result.LastError)
		}
		return nil, result.Err
	}
	return pair, nil
}

func (c *Client) postRefresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, retry.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors are retryable.
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var envelope struct {
			Success bool      `json:"success"`
			Data    TokenPair `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, retry.Permanent(fmt.Errorf("malformed refresh response: %w", err))
		}
		if envelope.Data.AccessToken == "" {
			return nil, retry.Permanent(fmt.Errorf("refresh response missing access token"))
		}
		// Rotation is optional: a server that did not rotate leaves
		// refresh_token out, and the old token stays live.
		if envelope.Data.RefreshToken == "" {
			envelope.Data.RefreshToken = refreshToken
		}
		return &envelope.Data, nil

	case resp.StatusCode == http.StatusUnauthorized:
		c.fireSignOut()
		return nil, retry.Permanent(ErrAuthFailed)

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("refresh endpoint returned %d", resp.StatusCode)

	default:
		return nil, retry.Permanent(fmt.Errorf("refresh endpoint returned %d", resp.StatusCode))
	}
}

// fireSignOut invokes the sign-out hook at most once per session.
func (c *Client) fireSignOut() {
	if c.signedOut.CompareAndSwap(false, true) {
		if c.onSignOut != nil {
			c.onSignOut()
		}
	}
}

// Logout revokes the current refresh token on the server and clears the
// local session. The server call is best-effort: the local session is
// dropped even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	body, err := json.Marshal(map[string]string{"refresh_token": session.RefreshToken})
	if err != nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("logout request failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// LogoutAll revokes every session for the signed-in user and clears the
// local session. It returns the number of sessions revoked and the
// server's message.
func (c *Client) LogoutAll(ctx context.Context) (int, string, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return 0, "", ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout-all", nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		return 0, "", ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("logout-all endpoint returned %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Revoked int    `json:"revoked"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, "", fmt.Errorf("malformed logout-all response: %w", err)
	}

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return envelope.Data.Revoked, envelope.Data.Message, nil
}
