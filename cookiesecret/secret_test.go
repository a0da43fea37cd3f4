package cookiesecret_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-token-handler/cookiesecret"
	fakesecretrepo "github.com/jrsteele09/go-token-handler/cookiesecret/repofakes"
	"github.com/stretchr/testify/require"
)

func TestNewSecret(t *testing.T) {
	now := time.Now()
	secret := cookiesecret.NewSecret("signing-secret", now)

	require.Equal(t, "signing-secret", secret.Value)
	require.Equal(t, now.Unix(), secret.CreatedAt)
	require.Equal(t, now.Add(cookiesecret.DefaultTTL).Unix(), secret.ExpiresAt)

	require.False(t, secret.Expired(now))
	require.False(t, secret.Expired(now.Add(cookiesecret.DefaultTTL-time.Second)))
	require.True(t, secret.Expired(now.Add(cookiesecret.DefaultTTL)))
}

func TestExpireSweepsOnlyStaleSecrets(t *testing.T) {
	now := time.Now()
	repo := fakesecretrepo.NewFakeSecretRepo()
	repo.NowTime = func() time.Time { return now.Add(cookiesecret.DefaultTTL) }

	require.NoError(t, repo.Upsert(context.Background(), "stale", cookiesecret.NewSecret("a", now)))
	require.NoError(t, repo.Upsert(context.Background(), "live", cookiesecret.NewSecret("b", now.Add(5*time.Minute))))

	require.NoError(t, repo.Expire(context.Background()))

	stale, err := repo.FindByID(context.Background(), "stale")
	require.NoError(t, err)
	require.Nil(t, stale)

	live, err := repo.FindByID(context.Background(), "live")
	require.NoError(t, err)
	require.NotNil(t, live)
}
