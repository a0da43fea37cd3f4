package sessions_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/jrsteele09/go-token-handler/token"
	"github.com/stretchr/testify/require"
)

func TestDecodeClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	raw, err := token.Sign(jwtlib.MapClaims{"sub": "user-1", "exp": exp.Unix()}, signingSecret, token.HS256)
	require.NoError(t, err)

	claims, err := sessions.DecodeClaims(raw)
	require.NoError(t, err)
	require.Equal(t, exp.Unix(), claims.ExpiresAt)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "user-1", claims.Raw["sub"])
}

func TestDecodeClaimsMissingExp(t *testing.T) {
	raw, err := token.Sign(jwtlib.MapClaims{"sub": "user-1"}, signingSecret, token.HS256)
	require.NoError(t, err)

	claims, err := sessions.DecodeClaims(raw)
	require.NoError(t, err)
	require.Zero(t, claims.ExpiresAt)
}

func TestDecodeClaimsNonNumericExp(t *testing.T) {
	raw, err := token.Sign(jwtlib.MapClaims{"exp": "tomorrow"}, signingSecret, token.HS256)
	require.NoError(t, err)

	claims, err := sessions.DecodeClaims(raw)
	require.NoError(t, err)
	require.Zero(t, claims.ExpiresAt)
}

func TestDecodeClaimsMalformedToken(t *testing.T) {
	_, err := sessions.DecodeClaims("not-a-jwt")
	require.Error(t, err)
}

func TestEnrich(t *testing.T) {
	accessExp := time.Now().Add(time.Hour)
	access, err := token.Sign(jwtlib.MapClaims{"sub": "user-1", "exp": accessExp.Unix()}, signingSecret, token.HS256)
	require.NoError(t, err)
	id, err := token.Sign(jwtlib.MapClaims{"sub": "user-1", "email": "user@example.com"}, signingSecret, token.HS256)
	require.NoError(t, err)

	state := sessions.State{AccessToken: access, RefreshToken: "refresh-1", IDToken: id}
	enriched := sessions.Enrich(state)

	require.Equal(t, state, enriched.Raw)
	require.Equal(t, accessExp.Unix(), enriched.AccessClaims.ExpiresAt)
	require.Equal(t, "user@example.com", enriched.IDClaims.Raw["email"])
}

func TestEnrichOpaqueAccessToken(t *testing.T) {
	// Opaque tokens decode to zero claims, which the refresh logic treats
	// as expired.
	enriched := sessions.Enrich(sessions.State{AccessToken: "opaque-token"})
	require.Zero(t, enriched.AccessClaims.ExpiresAt)
	require.Empty(t, enriched.IDClaims.Raw)
}
