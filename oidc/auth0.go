package oidc

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var _ Client = (*Auth0)(nil)

// Auth0Options configures the Auth0 tenant client. Domain is the tenant
// domain (e.g. "example.eu.auth0.com"); AuthorizationURI overrides the
// default https://{domain}/authorize when a custom domain fronts the tenant.
type Auth0Options struct {
	BaseOptions
	Domain           string
	AuthorizationURI string
}

// Auth0 adapts the contract to an Auth0 tenant. Code exchange and refresh
// go through the tenant's /oauth/token endpoint; the sign-up intent is
// expressed as Auth0's screen_hint parameter.
type Auth0 struct {
	options Auth0Options
	config  oauth2.Config
}

func NewAuth0(options Auth0Options) (*Auth0, error) {
	if err := validateBaseOptions(options.BaseOptions, "NewAuth0"); err != nil {
		return nil, err
	}
	if options.Domain == "" {
		return nil, errors.New("[NewAuth0] domain is required")
	}

	authURL := "https://" + options.Domain + "/authorize"
	if options.AuthorizationURI != "" {
		authURL = options.AuthorizationURI
	}

	return &Auth0{
		options: options,
		config: oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			RedirectURL:  options.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: "https://" + options.Domain + "/oauth/token",
			},
		},
	}, nil
}

func (c *Auth0) AuthorizationURL(opts AuthorizationURLOptions) (string, error) {
	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("scope", strings.Join(scopesOrDefault(opts.Scopes, c.options.Scopes), " ")),
	}
	switch opts.ScreenHint {
	case ScreenHintSignUp:
		params = append(params, oauth2.SetAuthURLParam("screen_hint", "signup"))
	case ScreenHintSignIn:
		params = append(params, oauth2.SetAuthURLParam("screen_hint", "login"))
	}
	if opts.LoginHint != "" {
		params = append(params, oauth2.SetAuthURLParam("login_hint", opts.LoginHint))
	}
	if opts.Connection != "" {
		params = append(params, oauth2.SetAuthURLParam("connection", opts.Connection))
	}
	if opts.OrganizationID != "" {
		params = append(params, oauth2.SetAuthURLParam("organization", opts.OrganizationID))
	}
	if opts.CodeChallenge != "" {
		params = append(params,
			oauth2.SetAuthURLParam("code_challenge", opts.CodeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", opts.CodeChallengeMethod))
	}

	return c.config.AuthCodeURL(opts.State, params...), nil
}

func (c *Auth0) ExchangeCode(ctx context.Context, opts ExchangeOptions) (sessions.State, error) {
	var params []oauth2.AuthCodeOption
	if opts.CodeVerifier != "" {
		params = append(params, oauth2.VerifierOption(opts.CodeVerifier))
	}

	token, err := c.config.Exchange(ctx, opts.Code, params...)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Auth0.ExchangeCode] config.Exchange")
	}

	state, err := stateFromToken(token)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Auth0.ExchangeCode]")
	}
	if state.RefreshToken == "" {
		return sessions.State{}, errors.New("[Auth0.ExchangeCode] token response missing refresh_token")
	}
	return state, nil
}

func (c *Auth0) Refresh(ctx context.Context, refreshToken string) (sessions.State, error) {
	token, err := c.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Auth0.Refresh] tokenSource.Token")
	}

	state, err := stateFromToken(token)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Auth0.Refresh]")
	}
	return state, nil
}
