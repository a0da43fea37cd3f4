package oidc

import "github.com/pkg/errors"

// Config selects a strategy and carries its options. Only the options block
// matching the strategy is read.
type Config struct {
	Strategy Strategy
	Generic  GenericOptions
	Auth0    Auth0Options
	WorkOS   WorkOSOptions
	Ory      OryOptions
}

// New builds the concrete client for the configured strategy. Option
// validation happens here, once, so a misconfigured provider rejects at
// startup rather than at first request.
func New(cfg Config) (Client, error) {
	switch cfg.Strategy {
	case StrategyGeneric, "":
		return NewGeneric(cfg.Generic)
	case StrategyAuth0:
		return NewAuth0(cfg.Auth0)
	case StrategyWorkOS:
		return NewWorkOS(cfg.WorkOS)
	case StrategyOry:
		return NewOry(cfg.Ory)
	default:
		return nil, errors.Errorf("[oidc.New] unknown strategy %q", cfg.Strategy)
	}
}
