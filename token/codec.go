// Package token implements the compact-token codec used by the gateway:
// signing state cookies, decoding provider token claims and verifying
// tokens against a known key or a provider JWKS endpoint.
package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Algorithm identifies a supported JWS signing algorithm.
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"
	ES256 Algorithm = "ES256"
	ES384 Algorithm = "ES384"
	ES512 Algorithm = "ES512"
)

var signingMethods = map[Algorithm]jwtlib.SigningMethod{
	HS256: jwtlib.SigningMethodHS256,
	HS384: jwtlib.SigningMethodHS384,
	HS512: jwtlib.SigningMethodHS512,
	RS256: jwtlib.SigningMethodRS256,
	RS384: jwtlib.SigningMethodRS384,
	RS512: jwtlib.SigningMethodRS512,
	ES256: jwtlib.SigningMethodES256,
	ES384: jwtlib.SigningMethodES384,
	ES512: jwtlib.SigningMethodES512,
}

// VerifyOptions control Verify behaviour.
type VerifyOptions struct {
	Algorithm      Algorithm     // expected algorithm; a header mismatch always fails
	ClockTolerance time.Duration // leeway applied to exp/nbf checks
}

// Sign creates a compact token from claims using the given key and algorithm.
// HMAC algorithms take a []byte secret, RS* an *rsa.PrivateKey and ES* an
// *ecdsa.PrivateKey.
func Sign(claims jwtlib.MapClaims, key any, alg Algorithm) (string, error) {
	method, ok := signingMethods[alg]
	if !ok {
		return "", errors.Errorf("[token.Sign] unsupported algorithm %q", alg)
	}

	signed, err := jwtlib.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "[token.Sign] SignedString")
	}
	return signed, nil
}

// Decode extracts the claims of a compact token WITHOUT verifying its
// signature. Never trust decoded claims for an authorization decision; call
// Verify (or KeySetVerifier.Verify) first.
func Decode(raw string) (jwtlib.MapClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("[token.Decode] empty token")
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[token.Decode] ParseUnverified")
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[token.Decode] error extracting claims")
	}
	return claims, nil
}

// Verify checks the signature, nbf and exp of a compact token. The expected
// algorithm is pinned: a token whose header advertises a different algorithm
// fails verification regardless of signature validity.
func Verify(raw string, key any, opts VerifyOptions) error {
	if opts.Algorithm == "" {
		opts.Algorithm = HS256
	}
	if _, ok := signingMethods[opts.Algorithm]; !ok {
		return errors.Errorf("[token.Verify] unsupported algorithm %q", opts.Algorithm)
	}

	parsed, err := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{string(opts.Algorithm)}),
		jwtlib.WithLeeway(opts.ClockTolerance),
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
	).Parse(raw, func(*jwtlib.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return errors.Wrap(err, "[token.Verify] Parse")
	}
	if !parsed.Valid {
		return errors.New("[token.Verify] invalid token")
	}
	return nil
}

// Valid is the boolean form of Verify for callers that do not need the
// failure reason.
func Valid(raw string, key any, opts VerifyOptions) bool {
	return Verify(raw, key, opts) == nil
}
