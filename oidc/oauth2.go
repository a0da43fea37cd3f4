package oidc

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// stateFromToken maps an oauth2 token onto the stored session shape. The id
// token rides along as a response extra rather than a first-class field.
func stateFromToken(token *oauth2.Token) (sessions.State, error) {
	if token.AccessToken == "" {
		return sessions.State{}, errors.New("token response missing access_token")
	}

	state := sessions.State{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		state.IDToken = idToken
	}
	return state, nil
}

// apiKeyTransport adds a provider API key to every outgoing token-endpoint
// request.
type apiKeyTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	cloned := request.Clone(request.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(cloned)
}

// contextWithAPIKey routes the oauth2 package's token-endpoint calls through
// an API-key-injecting client.
func contextWithAPIKey(ctx context.Context, apiKey string) context.Context {
	client := &http.Client{Transport: &apiKeyTransport{apiKey: apiKey, base: http.DefaultTransport}}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}
