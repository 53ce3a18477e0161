package authclient

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Status reports the local expiry check on an access token.
type Status struct {
	// Valid is true when the token parses and has not expired.
	Valid bool
	// NeedsRefresh is true when the token is valid but close enough to
	// expiry that it should be refreshed before use.
	NeedsRefresh bool
	// ExpiresIn is the remaining lifetime after clock skew. Zero when
	// the token is invalid or expired.
	ExpiresIn time.Duration
}

// Validate inspects the expiry claim of a JWT without verifying its
// signature. Signature verification is the server's job; the client only
// needs to know whether the token is worth sending. Any malformed token
// is reported as invalid.
func (c *Client) Validate(token string) Status {
	exp, ok := parseExpiry(token)
	if !ok {
		return Status{}
	}

	// Treat the token as expiring slightly early so a request started
	// now does not arrive with a dead token.
	remaining := time.Until(exp) - c.clockSkew
	if remaining <= 0 {
		return Status{}
	}

	return Status{
		Valid:        true,
		NeedsRefresh: remaining <= c.refreshWindow,
		ExpiresIn:    remaining,
	}
}

// parseExpiry extracts the exp claim from the payload segment of a JWT.
func parseExpiry(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// Some encoders emit padded segments.
		payload, err = base64.URLEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}, false
		}
	}

	var claims struct {
		Exp json.Number `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.Exp == "" {
		return time.Time{}, false
	}

	seconds, err := claims.Exp.Float64()
	if err != nil {
		return time.Time{}, false
	}

	return time.Unix(int64(seconds), 0), true
}
