// Package sessions holds the server-side credential store for the token
// handler: the stored session state, the repository contract and the
// refresh/expiry state machine that decides when a stored credential is
// still usable.
package sessions

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// State is the credential set stored for one session. It is an immutable
// value: a refresh replaces it wholesale rather than patching fields.
type State struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken,omitempty"`
}

// Claims is the decoded-claims view of a compact token.
type Claims struct {
	ExpiresAt int64 // exp claim in Unix seconds; 0 when missing or non-numeric
	Subject   string
	Raw       jwtlib.MapClaims
}

// EnrichedState pairs a raw State with the decoded claims of its tokens.
// It is computed per request scope and passed explicitly; nothing caches it
// across concurrent readers.
type EnrichedState struct {
	Raw          State
	AccessClaims Claims
	IDClaims     Claims
}

// DecodeClaims extracts the claims of a token without verifying it. Claim
// decoding is a pure projection of the raw token: a missing or non-numeric
// exp claim yields ExpiresAt 0, i.e. already expired.
func DecodeClaims(rawToken string) (Claims, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, err
	}

	claims := Claims{Raw: mapClaims}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	return claims, nil
}

// Enrich decodes the access and id token claims of a State. Tokens that fail
// to decode leave zero-valued Claims, matching the expired-by-default rule.
func Enrich(s State) EnrichedState {
	enriched := EnrichedState{Raw: s}
	enriched.AccessClaims, _ = DecodeClaims(s.AccessToken)
	if s.IDToken != "" {
		enriched.IDClaims, _ = DecodeClaims(s.IDToken)
	}
	return enriched
}
