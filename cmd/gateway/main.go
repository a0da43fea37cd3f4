package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-token-handler/cookiesecret"
	fakesecretrepo "github.com/jrsteele09/go-token-handler/cookiesecret/repofakes"
	"github.com/jrsteele09/go-token-handler/internal/config"
	"github.com/jrsteele09/go-token-handler/oidc"
	"github.com/jrsteele09/go-token-handler/persistence/redisrepo"
	"github.com/jrsteele09/go-token-handler/persistence/sqliterepo"
	"github.com/jrsteele09/go-token-handler/server"
	"github.com/jrsteele09/go-token-handler/sessions"
	fakesessionrepo "github.com/jrsteele09/go-token-handler/sessions/repofakes"
	"github.com/jrsteele09/go-token-handler/token"
	"github.com/redis/go-redis/v9"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running gateway: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Gateway stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	sessionRepo, secretRepo, err := newRepos(c)
	if err != nil {
		return fmt.Errorf("newRepos: %w", err)
	}

	ctx := context.Background()
	if err := sessionRepo.Prepare(ctx); err != nil {
		return fmt.Errorf("sessionRepo.Prepare: %w", err)
	}
	if err := secretRepo.Prepare(ctx); err != nil {
		return fmt.Errorf("secretRepo.Prepare: %w", err)
	}

	oidcClient, err := newOIDCClient(c)
	if err != nil {
		return fmt.Errorf("newOIDCClient: %w", err)
	}

	manager, err := sessions.NewManager(sessionRepo, oidcClient)
	if err != nil {
		return fmt.Errorf("sessions.NewManager: %w", err)
	}

	var options []server.Option
	if jwksURI := c.GetOAuthJWKSURI(); jwksURI != "" {
		options = append(options, server.WithIDTokenVerifier(token.NewKeySetVerifier(ctx, jwksURI)))
	}

	gateway, err := server.New(c, manager, sessionRepo, secretRepo, oidcClient, options...)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: gateway}
	go listenAndServe(httpServer)
	go sweepSecrets(secretRepo)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func newRepos(c config.Config) (sessions.Repo, cookiesecret.Repo, error) {
	switch driver := c.GetPersistenceDriver(); driver {
	case "memory":
		return fakesessionrepo.NewFakeSessionRepo(), fakesecretrepo.NewFakeSecretRepo(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		namespace := c.GetRedisNamespace()
		return redisrepo.NewSessionRepo(client, namespace), redisrepo.NewSecretRepo(client, namespace), nil
	case "sqlite":
		db, err := sqliterepo.Open(c.GetSqlitePath())
		if err != nil {
			return nil, nil, err
		}
		return sqliterepo.NewSessionRepo(db), sqliterepo.NewSecretRepo(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", driver)
	}
}

func newOIDCClient(c config.Config) (oidc.Client, error) {
	base := oidc.BaseOptions{
		ClientID:     c.GetOAuthClientID(),
		ClientSecret: c.GetOAuthClientSecret(),
		IssuerURL:    c.GetOAuthIssuerURL(),
		RedirectURI:  c.GetOAuthRedirectURI(),
		Scopes:       c.GetOAuthScopes(),
	}

	return oidc.New(oidc.Config{
		Strategy: oidc.Strategy(c.GetOAuthStrategy()),
		Generic:  oidc.GenericOptions{BaseOptions: base},
		Auth0: oidc.Auth0Options{
			BaseOptions:      base,
			Domain:           c.GetAuth0Domain(),
			AuthorizationURI: c.GetAuth0AuthorizationURI(),
		},
		WorkOS: oidc.WorkOSOptions{
			BaseOptions: base,
			APIKey:      c.GetWorkOSAPIKey(),
			BaseURL:     c.GetWorkOSBaseURL(),
		},
		Ory: oidc.OryOptions{
			BaseOptions: base,
			APIKey:      c.GetOryAPIKey(),
		},
	})
}

// sweepSecrets periodically clears expired login secrets for stores without
// native key expiry.
func sweepSecrets(repo cookiesecret.Repo) {
	ticker := time.NewTicker(cookiesecret.DefaultTTL)
	defer ticker.Stop()
	for range ticker.C {
		if err := repo.Expire(context.Background()); err != nil {
			log.Printf("secret expiry sweep failed: %v\n", err)
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Gateway listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
