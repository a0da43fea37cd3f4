package oidc

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var _ Client = (*Ory)(nil)

// OryOptions configures the Ory Network client. APIKey is the project API
// key sent alongside the client credentials on token-endpoint calls.
type OryOptions struct {
	BaseOptions
	APIKey string
}

// Ory adapts the contract to an Ory Network project. Authorization URLs
// follow the generic shape against Ory's /oauth2/auth endpoint; code
// exchange and refresh are delegated to the oauth2 client against
// /oauth2/token.
type Ory struct {
	options OryOptions
	generic *Generic
	config  oauth2.Config
}

func NewOry(options OryOptions) (*Ory, error) {
	if err := validateBaseOptions(options.BaseOptions, "NewOry"); err != nil {
		return nil, err
	}
	if options.APIKey == "" {
		return nil, errors.New("[NewOry] api key is required")
	}

	issuer := strings.TrimSuffix(options.IssuerURL, "/")
	generic, err := NewGeneric(GenericOptions{
		BaseOptions:           options.BaseOptions,
		AuthorizationEndpoint: issuer + "/oauth2/auth",
		TokenEndpoint:         issuer + "/oauth2/token",
	})
	if err != nil {
		return nil, errors.Wrap(err, "[NewOry]")
	}

	return &Ory{
		options: options,
		generic: generic,
		config: oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			RedirectURL:  options.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  issuer + "/oauth2/auth",
				TokenURL: issuer + "/oauth2/token",
			},
		},
	}, nil
}

func (c *Ory) AuthorizationURL(opts AuthorizationURLOptions) (string, error) {
	return c.generic.AuthorizationURL(opts)
}

func (c *Ory) ExchangeCode(ctx context.Context, opts ExchangeOptions) (sessions.State, error) {
	var params []oauth2.AuthCodeOption
	if opts.CodeVerifier != "" {
		params = append(params, oauth2.VerifierOption(opts.CodeVerifier))
	}

	token, err := c.config.Exchange(contextWithAPIKey(ctx, c.options.APIKey), opts.Code, params...)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Ory.ExchangeCode] config.Exchange")
	}

	state, err := stateFromToken(token)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Ory.ExchangeCode]")
	}
	if state.RefreshToken == "" {
		return sessions.State{}, errors.New("[Ory.ExchangeCode] token response missing refresh_token")
	}
	return state, nil
}

func (c *Ory) Refresh(ctx context.Context, refreshToken string) (sessions.State, error) {
	source := c.config.TokenSource(contextWithAPIKey(ctx, c.options.APIKey), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Ory.Refresh] tokenSource.Token")
	}

	state, err := stateFromToken(token)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Ory.Refresh]")
	}
	return state, nil
}
