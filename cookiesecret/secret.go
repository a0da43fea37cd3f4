// Package cookiesecret stores the per-login-attempt secrets used to sign the
// anti-forgery state cookie. Each secret lives for one authorization round
// trip, keyed by the state identifier carried through the provider redirect.
package cookiesecret

import "time"

// DefaultTTL bounds how long a login attempt may stay in flight. A secret
// older than this is unusable even if expiry sweeping lags behind.
const DefaultTTL = 10 * time.Minute

// Secret is one stored signing secret. Timestamps are Unix seconds so the
// record round-trips unchanged through JSON and SQL storage.
type Secret struct {
	Value     string `json:"value"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// NewSecret builds a Secret valid for DefaultTTL from now.
func NewSecret(value string, now time.Time) Secret {
	return Secret{
		Value:     value,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(DefaultTTL).Unix(),
	}
}

// Expired reports whether the secret is past its expiry at the given time.
func (s Secret) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}
