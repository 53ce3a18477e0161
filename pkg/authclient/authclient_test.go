package authclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/contactdeck/contactdeck/pkg/retry"
)

// mintToken builds an unsigned JWT with the given claims payload.
func mintToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func mintTokenWithExpiry(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	return mintToken(t, map[string]interface{}{
		"exp": time.Now().Add(expiresIn).Unix(),
	})
}

// fastRetryConfig keeps the default schedule shape but collapses the
// intervals so tests finish quickly.
func fastRetryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		Multiplier:      2.0,
	}
}

func refreshSuccessBody(access, refresh string) string {
	return fmt.Sprintf(`{"success":true,"data":{"access_token":%q,"refresh_token":%q,"expires_in":900}}`, access, refresh)
}

func TestValidate(t *testing.T) {
	client := New(Config{})

	t.Run("valid token far from expiry", func(t *testing.T) {
		status := client.Validate(mintTokenWithExpiry(t, time.Hour))
		if !status.Valid {
			t.Fatal("expected token to be valid")
		}
		if status.NeedsRefresh {
			t.Error("token an hour from expiry should not need refresh")
		}
		if status.ExpiresIn <= 0 {
			t.Errorf("expected positive remaining lifetime, got %v", status.ExpiresIn)
		}
	})

	t.Run("token near expiry needs refresh", func(t *testing.T) {
		status := client.Validate(mintTokenWithExpiry(t, 4*time.Minute))
		if !status.Valid {
			t.Fatal("expected token to be valid")
		}
		if !status.NeedsRefresh {
			t.Error("token four minutes from expiry should need refresh")
		}
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		status := client.Validate(mintTokenWithExpiry(t, -time.Minute))
		if status.Valid {
			t.Error("expired token reported valid")
		}
		if status.NeedsRefresh {
			t.Error("expired token should not be refresh-eligible")
		}
	})

	t.Run("token inside the skew window is invalid", func(t *testing.T) {
		// 20s of life left is inside the 30s skew allowance.
		status := client.Validate(mintTokenWithExpiry(t, 20*time.Second))
		if status.Valid {
			t.Error("token inside skew window reported valid")
		}
	})

	t.Run("malformed tokens fail closed", func(t *testing.T) {
		cases := map[string]string{
			"empty":            "",
			"no dots":          "nodotsatall",
			"two segments":     "abc.def",
			"four segments":    "a.b.c.d",
			"payload not b64":  "h." + "!!!not-base64!!!" + ".s",
			"payload not json": "h." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".s",
		}
		for name, token := range cases {
			if status := client.Validate(token); status.Valid || status.NeedsRefresh {
				t.Errorf("%s: malformed token not rejected", name)
			}
		}
	})

	t.Run("missing exp claim is invalid", func(t *testing.T) {
		token := mintToken(t, map[string]interface{}{"sub": "user-1"})
		if status := client.Validate(token); status.Valid {
			t.Error("token without exp reported valid")
		}
	})

	t.Run("non-numeric exp claim is invalid", func(t *testing.T) {
		token := mintToken(t, map[string]interface{}{"exp": "tomorrow"})
		if status := client.Validate(token); status.Valid {
			t.Error("token with string exp reported valid")
		}
	})
}

func TestRefresh(t *testing.T) {
	t.Run("success returns rotated pair", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/refresh" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if body["refresh_token"] != "old-refresh" {
				t.Errorf("expected old-refresh, got %q", body["refresh_token"])
			}
			fmt.Fprint(w, refreshSuccessBody("new-access", "new-refresh"))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		pair, err := client.Refresh(context.Background(), "old-refresh")
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if pair.AccessToken != "new-access" || pair.RefreshToken != "new-refresh" {
			t.Errorf("unexpected pair %+v", pair)
		}
	})

	t.Run("response without a rotated token keeps the old one", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"access_token":"new-access","expires_in":900}}`)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		pair, err := client.Refresh(context.Background(), "old-refresh")
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if pair.AccessToken != "new-access" {
			t.Errorf("access token = %q", pair.AccessToken)
		}
		if pair.RefreshToken != "old-refresh" {
			t.Errorf("refresh token = %q, want the prior token kept", pair.RefreshToken)
		}
	})

	t.Run("response without an access token is a permanent failure", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			fmt.Fprint(w, `{"success":true,"data":{"expires_in":900}}`)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		if _, err := client.Refresh(context.Background(), "rt"); err == nil {
			t.Fatal("expected error")
		}
		if got := requests.Load(); got != 1 {
			t.Errorf("malformed success must not be retried, saw %d requests", got)
		}
	})

	t.Run("401 signs out once with no retries", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var signOuts atomic.Int32
		client := New(Config{
			BaseURL:   server.URL,
			Retry:     fastRetryConfig(),
			OnSignOut: func() { signOuts.Add(1) },
		})

		if _, err := client.Refresh(context.Background(), "dead-token"); err != ErrAuthFailed {
			t.Fatalf("Refresh() error = %v, want ErrAuthFailed", err)
		}
		if got := requests.Load(); got != 1 {
			t.Errorf("401 must not be retried, server saw %d requests", got)
		}
		if got := signOuts.Load(); got != 1 {
			t.Errorf("expected exactly one sign-out, got %d", got)
		}

		// A second terminal failure on the same session stays silent.
		client.Refresh(context.Background(), "dead-token")
		if got := signOuts.Load(); got != 1 {
			t.Errorf("sign-out fired again, got %d", got)
		}
	})

	t.Run("server error is retried until success", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, refreshSuccessBody("new-access", "new-refresh"))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		pair, err := client.Refresh(context.Background(), "rt")
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if pair.AccessToken != "new-access" {
			t.Errorf("unexpected access token %q", pair.AccessToken)
		}
		if got := requests.Load(); got != 3 {
			t.Errorf("expected 3 attempts, got %d", got)
		}
	})

	t.Run("rate limiting is retried", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, refreshSuccessBody("new-access", "new-refresh"))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		if _, err := client.Refresh(context.Background(), "rt"); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if got := requests.Load(); got != 2 {
			t.Errorf("expected 2 attempts, got %d", got)
		}
	})

	t.Run("persistent outage exhausts the budget at four attempts", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		var signOuts atomic.Int32
		client := New(Config{
			BaseURL:   server.URL,
			Retry:     fastRetryConfig(),
			OnSignOut: func() { signOuts.Add(1) },
		})

		_, err := client.Refresh(context.Background(), "rt")
		if err == nil {
			t.Fatal("expected error after exhausted retries")
		}
		if got := requests.Load(); got != 4 {
			t.Errorf("expected 1 initial + 3 retries = 4 attempts, got %d", got)
		}
		if got := signOuts.Load(); got != 0 {
			t.Errorf("outage must not sign the user out, got %d sign-outs", got)
		}
	})

	t.Run("network failure is retried", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from the first attempt

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		_, err := client.Refresh(context.Background(), "rt")
		if err == nil {
			t.Fatal("expected error against a dead server")
		}
	})
}

func TestGetValidAccessToken(t *testing.T) {
	t.Run("healthy token is returned untouched", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		defer server.Close()

		token := mintTokenWithExpiry(t, time.Hour)
		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		client.SetSession(&Session{AccessToken: token, RefreshToken: "rt"})

		for i := 0; i < 3; i++ {
			got, err := client.GetValidAccessToken(context.Background())
			if err != nil {
				t.Fatalf("GetValidAccessToken() error = %v", err)
			}
			if got != token {
				t.Errorf("token changed: %q", got)
			}
		}
		if got := requests.Load(); got != 0 {
			t.Errorf("healthy token must not hit the network, saw %d requests", got)
		}
	})

	t.Run("near-expiry token triggers a refresh", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, refreshSuccessBody("new-access", "new-refresh"))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		client.SetSession(&Session{
			AccessToken:  mintTokenWithExpiry(t, 2*time.Minute),
			RefreshToken: "old-refresh",
		})

		got, err := client.GetValidAccessToken(context.Background())
		if err != nil {
			t.Fatalf("GetValidAccessToken() error = %v", err)
		}
		if got != "new-access" {
			t.Errorf("expected refreshed token, got %q", got)
		}
		if s := client.Session(); s == nil || s.RefreshToken != "new-refresh" {
			t.Error("session not updated with the rotated refresh token")
		}
	})

	t.Run("expired session with rejected refresh clears the session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var signOuts atomic.Int32
		client := New(Config{
			BaseURL:   server.URL,
			Retry:     fastRetryConfig(),
			OnSignOut: func() { signOuts.Add(1) },
		})
		client.SetSession(&Session{
			AccessToken:  mintTokenWithExpiry(t, -time.Minute),
			RefreshToken: "dead",
		})

		if _, err := client.GetValidAccessToken(context.Background()); err != ErrAuthFailed {
			t.Fatalf("GetValidAccessToken() error = %v, want ErrAuthFailed", err)
		}
		if client.Session() != nil {
			t.Error("session should be cleared after a terminal refresh failure")
		}
		if got := signOuts.Load(); got != 1 {
			t.Errorf("expected exactly one sign-out, got %d", got)
		}
	})

	t.Run("non-rotating server leaves the refresh token intact", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"access_token":"new-access","expires_in":900}}`)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Retry: fastRetryConfig()})
		client.SetSession(&Session{
			AccessToken:  mintTokenWithExpiry(t, 2*time.Minute),
			RefreshToken: "keep-me",
		})

		got, err := client.GetValidAccessToken(context.Background())
		if err != nil {
			t.Fatalf("GetValidAccessToken() error = %v", err)
		}
		if got != "new-access" {
			t.Errorf("expected refreshed token, got %q", got)
		}
		if s := client.Session(); s == nil || s.RefreshToken != "keep-me" {
			t.Error("refresh token was clobbered by the non-rotating response")
		}
	})

	t.Run("sign-out hook may read the session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var client *Client
		var seenInHook *Session
		client = New(Config{
			BaseURL: server.URL,
			Retry:   fastRetryConfig(),
			OnSignOut: func() {
				// Calling back into the client must not deadlock.
				seenInHook = client.Session()
			},
		})
		client.SetSession(&Session{
			AccessToken:  mintTokenWithExpiry(t, -time.Minute),
			RefreshToken: "dead",
		})

		if _, err := client.GetValidAccessToken(context.Background()); err != ErrAuthFailed {
			t.Fatalf("GetValidAccessToken() error = %v, want ErrAuthFailed", err)
		}
		if seenInHook == nil || seenInHook.RefreshToken != "dead" {
			t.Errorf("hook saw session %+v", seenInHook)
		}
	})

	t.Run("no session", func(t *testing.T) {
		client := New(Config{})
		if _, err := client.GetValidAccessToken(context.Background()); err != ErrNoSession {
			t.Fatalf("GetValidAccessToken() error = %v, want ErrNoSession", err)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes the server session and clears local state", func(t *testing.T) {
		var gotToken string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			gotToken = body["refresh_token"]
			fmt.Fprint(w, `{"success":true,"data":{"message":"Logged out"}}`)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL})
		client.SetSession(&Session{AccessToken: "at", RefreshToken: "rt"})

		if err := client.Logout(context.Background()); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if gotToken != "rt" {
			t.Errorf("server saw refresh token %q", gotToken)
		}
		if client.Session() != nil {
			t.Error("local session not cleared")
		}
	})

	t.Run("clears local state even when the server is down", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := New(Config{BaseURL: server.URL})
		client.SetSession(&Session{AccessToken: "at", RefreshToken: "rt"})

		if err := client.Logout(context.Background()); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if client.Session() != nil {
			t.Error("local session not cleared")
		}
	})

	t.Run("logout without a session is a no-op", func(t *testing.T) {
		client := New(Config{})
		if err := client.Logout(context.Background()); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
	})
}

func TestLogoutAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer at" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		fmt.Fprint(w, `{"success":true,"data":{"revoked":3,"message":"Revoked 3 active sessions"}}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	client.SetSession(&Session{AccessToken: "at", RefreshToken: "rt"})

	revoked, message, err := client.LogoutAll(context.Background())
	if err != nil {
		t.Fatalf("LogoutAll() error = %v", err)
	}
	if revoked != 3 {
		t.Errorf("revoked = %d, want 3", revoked)
	}
	if message != "Revoked 3 active sessions" {
		t.Errorf("message = %q", message)
	}
	if client.Session() != nil {
		t.Error("local session not cleared")
	}
}
