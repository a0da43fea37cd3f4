package oidc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
)

var _ Client = (*Generic)(nil)

// GenericOptions configures the raw RFC 6749 client. Endpoints default to
// {issuer}/authorize and {issuer}/token when not set explicitly.
type GenericOptions struct {
	BaseOptions
	AuthorizationEndpoint string
	TokenEndpoint         string
	HTTPClient            *http.Client
}

// Generic talks to any plain RFC 6749 provider directly: query-string
// authorization URLs and form-encoded token endpoint POSTs. Token responses
// are validated strictly before being accepted; a malformed body is an
// error, never a partially filled State.
type Generic struct {
	options               GenericOptions
	authorizationEndpoint string
	tokenEndpoint         string
	httpClient            *http.Client
}

// NewGeneric validates the options and builds a Generic client.
func NewGeneric(options GenericOptions) (*Generic, error) {
	if err := validateBaseOptions(options.BaseOptions, "NewGeneric"); err != nil {
		return nil, err
	}

	issuer := strings.TrimSuffix(options.IssuerURL, "/")
	client := &Generic{
		options:               options,
		authorizationEndpoint: issuer + "/authorize",
		tokenEndpoint:         issuer + "/token",
		httpClient:            http.DefaultClient,
	}
	if options.AuthorizationEndpoint != "" {
		client.authorizationEndpoint = options.AuthorizationEndpoint
	}
	if options.TokenEndpoint != "" {
		client.tokenEndpoint = options.TokenEndpoint
	}
	if options.HTTPClient != nil {
		client.httpClient = options.HTTPClient
	}
	return client, nil
}

// AuthorizationURL builds the provider redirect. The screen hint is ignored:
// plain OIDC has no sign-up vocabulary.
func (c *Generic) AuthorizationURL(opts AuthorizationURLOptions) (string, error) {
	endpoint, err := url.Parse(c.authorizationEndpoint)
	if err != nil {
		return "", errors.Wrap(err, "[Generic.AuthorizationURL] parse endpoint")
	}

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", c.options.ClientID)
	query.Set("redirect_uri", c.options.RedirectURI)
	query.Set("scope", strings.Join(scopesOrDefault(opts.Scopes, c.options.Scopes), " "))
	if opts.State != "" {
		query.Set("state", opts.State)
	}
	if opts.LoginHint != "" {
		query.Set("login_hint", opts.LoginHint)
	}
	if opts.CodeChallenge != "" {
		query.Set("code_challenge", opts.CodeChallenge)
		query.Set("code_challenge_method", opts.CodeChallengeMethod)
	}

	endpoint.RawQuery = query.Encode()
	return endpoint.String(), nil
}

// ExchangeCode swaps an authorization code for a session State. The provider
// must return both an access token and a refresh token.
func (c *Generic) ExchangeCode(ctx context.Context, opts ExchangeOptions) (sessions.State, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", opts.Code)
	form.Set("redirect_uri", c.options.RedirectURI)
	form.Set("client_id", c.options.ClientID)
	form.Set("client_secret", c.options.ClientSecret)
	if opts.CodeVerifier != "" {
		form.Set("code_verifier", opts.CodeVerifier)
	}

	state, err := c.postTokenForm(ctx, form)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Generic.ExchangeCode]")
	}
	if state.RefreshToken == "" {
		return sessions.State{}, errors.New("[Generic.ExchangeCode] token response missing refresh_token")
	}
	return state, nil
}

// Refresh swaps a refresh token for a new State. The provider may omit the
// refresh token; rotation handling is the session manager's concern.
func (c *Generic) Refresh(ctx context.Context, refreshToken string) (sessions.State, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.options.ClientID)
	form.Set("client_secret", c.options.ClientSecret)

	state, err := c.postTokenForm(ctx, form)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "[Generic.Refresh]")
	}
	return state, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (c *Generic) postTokenForm(ctx context.Context, form url.Values) (sessions.State, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "http.NewRequestWithContext")
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return sessions.State{}, errors.Wrap(err, "httpClient.Do")
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, response.Body) //nolint:errcheck
		return sessions.State{}, errors.Errorf("token endpoint returned status %d", response.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return sessions.State{}, errors.Wrap(err, "decode token response")
	}
	if body.AccessToken == "" {
		return sessions.State{}, errors.New("token response missing access_token")
	}

	return sessions.State{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		IDToken:      body.IDToken,
	}, nil
}

func validateBaseOptions(options BaseOptions, funcName string) error {
	if options.ClientID == "" {
		return errors.Errorf("[%s] client id is required", funcName)
	}
	if options.ClientSecret == "" {
		return errors.Errorf("[%s] client secret is required", funcName)
	}
	if options.IssuerURL == "" {
		return errors.Errorf("[%s] issuer url is required", funcName)
	}
	if options.RedirectURI == "" {
		return errors.Errorf("[%s] redirect uri is required", funcName)
	}
	return nil
}
