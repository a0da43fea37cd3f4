package redisrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-token-handler/cookiesecret"
	"github.com/jrsteele09/go-token-handler/persistence/redisrepo"
	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck
	return server, client
}

func TestSessionRepoRoundTrip(t *testing.T) {
	_, client := newClient(t)
	repo := redisrepo.NewSessionRepo(client, "test")
	ctx := context.Background()

	require.NoError(t, repo.Prepare(ctx))

	missing, err := repo.FindByID(ctx, "unknown")
	require.NoError(t, err)
	require.Nil(t, missing)

	state := sessions.State{AccessToken: "access-1", RefreshToken: "refresh-1", IDToken: "id-1"}
	require.NoError(t, repo.Upsert(ctx, "session-1", state))

	found, err := repo.FindByID(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, state, *found)

	// Upsert replaces wholesale.
	replaced := sessions.State{AccessToken: "access-2", RefreshToken: "refresh-1"}
	require.NoError(t, repo.Upsert(ctx, "session-1", replaced))
	found, err = repo.FindByID(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, replaced, *found)

	require.NoError(t, repo.Delete(ctx, "session-1"))
	require.NoError(t, repo.Delete(ctx, "session-1"))

	gone, err := repo.FindByID(ctx, "session-1")
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestSecretRepoSelfExpires(t *testing.T) {
	server, client := newClient(t)
	repo := redisrepo.NewSecretRepo(client, "test")
	ctx := context.Background()

	secret := cookiesecret.NewSecret("signing-secret", time.Now())
	require.NoError(t, repo.Upsert(ctx, "state-1", secret))

	found, err := repo.FindByID(ctx, "state-1")
	require.NoError(t, err)
	require.Equal(t, secret, *found)

	// Expire is a no-op; the key carries its own TTL.
	require.NoError(t, repo.Expire(ctx))
	found, err = repo.FindByID(ctx, "state-1")
	require.NoError(t, err)
	require.NotNil(t, found)

	server.FastForward(cookiesecret.DefaultTTL + time.Second)

	gone, err := repo.FindByID(ctx, "state-1")
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestReposAreNamespaced(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	first := redisrepo.NewSessionRepo(client, "alpha")
	second := redisrepo.NewSessionRepo(client, "beta")

	require.NoError(t, first.Upsert(ctx, "session-1", sessions.State{AccessToken: "a"}))

	found, err := second.FindByID(ctx, "session-1")
	require.NoError(t, err)
	require.Nil(t, found)
}
