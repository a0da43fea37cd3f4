package config

import "strings"

type OIDCConfig interface {
	GetOAuthStrategy() string
	GetOAuthClientID() string
	GetOAuthClientSecret() string
	GetOAuthIssuerURL() string
	GetOAuthRedirectURI() string
	GetOAuthScopes() []string
	GetOAuthJWKSURI() string
	GetAuth0Domain() string
	GetAuth0AuthorizationURI() string
	GetWorkOSAPIKey() string
	GetWorkOSBaseURL() string
	GetOryAPIKey() string
}

type OIDCVars struct{}

var _ OIDCConfig = OIDCVars{}

func (OIDCVars) GetOAuthStrategy() string {
	return GetEnv("OAUTH_STRATEGY", "generic")
}

func (OIDCVars) GetOAuthClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "")
}

func (OIDCVars) GetOAuthClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

func (OIDCVars) GetOAuthIssuerURL() string {
	return GetEnv("OAUTH_ISSUER_URL", "")
}

func (OIDCVars) GetOAuthRedirectURI() string {
	return GetEnv("OAUTH_REDIRECT_URI", "")
}

// GetOAuthScopes splits OAUTH_SCOPES on spaces; an unset variable yields nil
// and the client falls back to its default scope set.
func (OIDCVars) GetOAuthScopes() []string {
	return strings.Fields(GetEnv("OAUTH_SCOPES", ""))
}

// GetOAuthJWKSURI names the provider's published key set. When set, id
// tokens returned by the code exchange are verified against it before the
// session is stored.
func (OIDCVars) GetOAuthJWKSURI() string {
	return GetEnv("OAUTH_JWKS_URI", "")
}

func (OIDCVars) GetAuth0Domain() string {
	return GetEnv("AUTH0_DOMAIN", "")
}

func (OIDCVars) GetAuth0AuthorizationURI() string {
	return GetEnv("AUTH0_AUTHORIZATION_URI", "")
}

func (OIDCVars) GetWorkOSAPIKey() string {
	return GetEnv("WORKOS_API_KEY", "")
}

func (OIDCVars) GetWorkOSBaseURL() string {
	return GetEnv("WORKOS_BASE_URL", "")
}

func (OIDCVars) GetOryAPIKey() string {
	return GetEnv("ORY_API_KEY", "")
}
