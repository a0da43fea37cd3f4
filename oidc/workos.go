package oidc

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var _ Client = (*WorkOS)(nil)

const defaultWorkOSBaseURL = "https://api.workos.com"

// WorkOSOptions configures the WorkOS user-management client. APIKey is the
// WorkOS secret key sent as a bearer credential on token-endpoint calls.
type WorkOSOptions struct {
	BaseOptions
	APIKey  string
	BaseURL string
}

// WorkOS adapts the contract to WorkOS user management. The sign-up intent
// is expressed as WorkOS's screen_hint vocabulary (sign-up / sign-in).
type WorkOS struct {
	options WorkOSOptions
	config  oauth2.Config
}

func NewWorkOS(options WorkOSOptions) (*WorkOS, error) {
	if err := validateBaseOptions(options.BaseOptions, "NewWorkOS"); err != nil {
		return nil, err
	}
	if options.APIKey == "" {
		return nil, errors.New("[NewWorkOS] api key is required")
	}

	baseURL := strings.TrimSuffix(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultWorkOSBaseURL
	}

	return &WorkOS{
		options: options,
		config: oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			RedirectURL:  options.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  baseURL + "/user_management/authorize",
				TokenURL: baseURL + "/user_management/token",
			},
		},
	}, nil
}

func (c *WorkOS) AuthorizationURL(opts AuthorizationURLOptions) (string, error) {
	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("scope", strings.Join(scopesOrDefault(opts.Scopes, c.options.Scopes), " ")),
	}
	switch opts.ScreenHint {
	case ScreenHintSignUp:
		params = append(params, oauth2.SetAuthURLParam("screen_hint", "sign-up"))
	case ScreenHintSignIn:
		params = append(params, oauth2.SetAuthURLParam("screen_hint", "sign-in"))
	}
	if opts.LoginHint != "" {
		params = append(params, oauth2.SetAuthURLParam("login_hint", opts.LoginHint))
	}
	if opts.DomainHint != "" {
		params = append(params, oauth2.SetAuthURLParam("domain_hint", opts.DomainHint))
	}
	if opts.Connection != "" {
		params = append(params, oauth2.SetAuthURLParam("connection_id", opts.Connection))
	}
	if opts.OrganizationID != "" {
		params = append(params, oauth2.SetAuthURLParam("organization_id", opts.OrganizationID))
	}
	if opts.CodeChallenge != "" {
		params = append(params,
			oauth2.SetAuthURLParam("code_challenge", opts.CodeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", opts.CodeChallengeMethod))
	}

	return c.config.AuthCodeURL(opts.State, params...), nil
}

func (c *WorkOS) ExchangeCode(ctx context.Context, opts ExchangeOptions) (sessions.State, error) {
	var params []oauth2.AuthCodeOption
	if opts.CodeVerifier != "" {
		params = append(params, oauth2.VerifierOption(opts.CodeVerifier))
	}

	token, err := c.config.Exchange(contextWithAPIKey(ctx, c.options.APIKey), opts.Code, params...)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[WorkOS.ExchangeCode] config.Exchange")
	}

	state, err := stateFromToken(token)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[WorkOS.ExchangeCode]")
	}
	if state.RefreshToken == "" {
		return sessions.State{}, errors.New("[WorkOS.ExchangeCode] token response missing refresh_token")
	}
	return state, nil
}

func (c *WorkOS) Refresh(ctx context.Context, refreshToken string) (sessions.State, error) {
	source := c.config.TokenSource(contextWithAPIKey(ctx, c.options.APIKey), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[WorkOS.Refresh] tokenSource.Token")
	}

	state, err := stateFromToken(token)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[WorkOS.Refresh]")
	}
	return state, nil
}
