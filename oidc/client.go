// Package oidc contains the identity-provider clients behind the token
// handler. One contract, four strategies: a raw RFC 6749 generic client and
// Auth0, WorkOS and Ory adaptations of it, selected by a factory at startup.
package oidc

import (
	"context"

	"github.com/jrsteele09/go-token-handler/sessions"
)

// Strategy selects a concrete provider client.
type Strategy string

const (
	StrategyGeneric Strategy = "generic"
	StrategyAuth0   Strategy = "auth0"
	StrategyWorkOS  Strategy = "workos"
	StrategyOry     Strategy = "ory"
)

// ScreenHint expresses the caller's sign-up vs sign-in intent. Each strategy
// translates it to its provider's own vocabulary; providers without one
// ignore it.
type ScreenHint string

const (
	ScreenHintSignUp ScreenHint = "SignUp"
	ScreenHintSignIn ScreenHint = "SignIn"
)

// defaultScopes is the scope set requested when the caller supplies none.
var defaultScopes = []string{"openid", "profile", "email"}

// AuthorizationURLOptions are the per-request parameters of the authorization
// redirect. Zero-valued fields are omitted from the URL.
type AuthorizationURLOptions struct {
	State               string
	Scopes              []string
	ScreenHint          ScreenHint
	LoginHint           string
	DomainHint          string
	Connection          string
	OrganizationID      string
	CodeChallenge       string
	CodeChallengeMethod string
}

// ExchangeOptions carries the authorization code returned by the provider.
// The client secret is supplied by the client's own configuration, never by
// the caller.
type ExchangeOptions struct {
	Code         string
	CodeVerifier string
}

// Client is the provider-independent contract. AuthorizationURL always sets
// response_type=code; only the authorization-code flow is supported.
type Client interface {
	AuthorizationURL(opts AuthorizationURLOptions) (string, error)
	ExchangeCode(ctx context.Context, opts ExchangeOptions) (sessions.State, error)
	Refresh(ctx context.Context, refreshToken string) (sessions.State, error)
}

// BaseOptions are the fields every strategy requires.
type BaseOptions struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
	RedirectURI  string
	Scopes       []string
}

func scopesOrDefault(requested, configured []string) []string {
	if len(requested) > 0 {
		return requested
	}
	if len(configured) > 0 {
		return configured
	}
	return defaultScopes
}
