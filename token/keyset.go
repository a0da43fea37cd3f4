package token

import (
	"context"
	"encoding/json"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// KeySetVerifier verifies provider-issued tokens against the provider's
// published JWKS endpoint. The key set is fetched lazily and cached by the
// underlying remote key set, so construction performs no network I/O.
type KeySetVerifier struct {
	keySet oidc.KeySet
}

// NewKeySetVerifier creates a verifier for the given JWKS URI. The context
// scopes all background key fetches.
func NewKeySetVerifier(ctx context.Context, jwksURI string) *KeySetVerifier {
	return &KeySetVerifier{keySet: oidc.NewRemoteKeySet(ctx, jwksURI)}
}

// Verify checks the token signature against the remote key set and returns
// the verified claims.
func (v *KeySetVerifier) Verify(ctx context.Context, raw string) (jwtlib.MapClaims, error) {
	payload, err := v.keySet.VerifySignature(ctx, raw)
	if err != nil {
		return nil, errors.Wrap(err, "[KeySetVerifier.Verify] VerifySignature")
	}

	claims := jwtlib.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.Wrap(err, "[KeySetVerifier.Verify] unmarshal payload")
	}
	return claims, nil
}
