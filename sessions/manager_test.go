package sessions_test

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-token-handler/sessions"
	fakesessionrepo "github.com/jrsteele09/go-token-handler/sessions/repofakes"
	"github.com/jrsteele09/go-token-handler/token"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testSessionID = "session-1"

var signingSecret = []byte("test-signing-secret")

// stubOIDCClient counts refresh calls and returns a canned State.
type stubOIDCClient struct {
	refreshCalls int
	state        sessions.State
	err          error
}

func (c *stubOIDCClient) Refresh(context.Context, string) (sessions.State, error) {
	c.refreshCalls++
	if c.err != nil {
		return sessions.State{}, c.err
	}
	return c.state, nil
}

func accessTokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := token.Sign(jwtlib.MapClaims{"sub": "user-1", "exp": exp.Unix()}, signingSecret, token.HS256)
	require.NoError(t, err)
	return raw
}

func accessTokenWithoutExp(t *testing.T) string {
	t.Helper()
	raw, err := token.Sign(jwtlib.MapClaims{"sub": "user-1"}, signingSecret, token.HS256)
	require.NoError(t, err)
	return raw
}

func newManager(t *testing.T, repo sessions.Repo, client sessions.OIDCClient, now time.Time) *sessions.Manager {
	t.Helper()
	manager, err := sessions.NewManager(repo, client, sessions.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)
	return manager
}

func TestAuthenticateUnknownSession(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	client := &stubOIDCClient{}
	manager := newManager(t, repo, client, time.Now())

	state, err := manager.Authenticate(context.Background(), "no-such-session")
	require.NoError(t, err)
	require.Nil(t, state)
	require.Zero(t, client.refreshCalls, "an absent session must not reach the provider")
}

func TestAuthenticateFreshTokenSkipsRefresh(t *testing.T) {
	now := time.Now()
	repo := fakesessionrepo.NewFakeSessionRepo()
	stored := sessions.State{
		AccessToken:  accessTokenExpiringAt(t, now.Add(time.Hour)),
		RefreshToken: "refresh-1",
	}
	require.NoError(t, repo.Upsert(context.Background(), testSessionID, stored))

	client := &stubOIDCClient{}
	manager := newManager(t, repo, client, now)

	state, err := manager.Authenticate(context.Background(), testSessionID)
	require.NoError(t, err)
	require.Equal(t, stored, *state)
	require.Zero(t, client.refreshCalls)
}

func TestAuthenticateExpiredTokenRefreshesOnce(t *testing.T) {
	now := time.Now()
	repo := fakesessionrepo.NewFakeSessionRepo()
	stale := sessions.State{
		AccessToken:  accessTokenExpiringAt(t, now.Add(-120*time.Second)),
		RefreshToken: "refresh-1",
	}
	require.NoError(t, repo.Upsert(context.Background(), testSessionID, stale))

	client := &stubOIDCClient{state: sessions.State{
		AccessToken:  accessTokenExpiringAt(t, now.Add(time.Hour)),
		RefreshToken: "refresh-2",
	}}
	manager := newManager(t, repo, client, now)

	state, err := manager.Authenticate(context.Background(), testSessionID)
	require.NoError(t, err)
	require.Equal(t, 1, client.refreshCalls)
	require.NotEqual(t, stale.AccessToken, state.AccessToken)
	require.Equal(t, "refresh-2", state.RefreshToken)

	// The refresh must not change the session identifier.
	persisted, err := repo.FindByID(context.Background(), testSessionID)
	require.NoError(t, err)
	require.Equal(t, *state, *persisted)
}

func TestAuthenticateExpiryBoundary(t *testing.T) {
	// Buffer is 60s: a token expired for 30s is still inside the grace
	// period, one expired for 120s is not.
	now := time.Now()

	for name, tc := range map[string]struct {
		expiredFor    time.Duration
		wantRefreshed bool
	}{
		"within grace period":  {expiredFor: 30 * time.Second, wantRefreshed: false},
		"outside grace period": {expiredFor: 120 * time.Second, wantRefreshed: true},
	} {
		t.Run(name, func(t *testing.T) {
			repo := fakesessionrepo.NewFakeSessionRepo()
			require.NoError(t, repo.Upsert(context.Background(), testSessionID, sessions.State{
				AccessToken:  accessTokenExpiringAt(t, now.Add(-tc.expiredFor)),
				RefreshToken: "refresh-1",
			}))

			client := &stubOIDCClient{state: sessions.State{
				AccessToken:  accessTokenExpiringAt(t, now.Add(time.Hour)),
				RefreshToken: "refresh-2",
			}}
			manager := newManager(t, repo, client, now)

			_, err := manager.Authenticate(context.Background(), testSessionID)
			require.NoError(t, err)
			if tc.wantRefreshed {
				require.Equal(t, 1, client.refreshCalls)
			} else {
				require.Zero(t, client.refreshCalls)
			}
		})
	}
}

func TestAuthenticateMissingExpTreatedAsExpired(t *testing.T) {
	now := time.Now()
	repo := fakesessionrepo.NewFakeSessionRepo()
	require.NoError(t, repo.Upsert(context.Background(), testSessionID, sessions.State{
		AccessToken:  accessTokenWithoutExp(t),
		RefreshToken: "refresh-1",
	}))

	client := &stubOIDCClient{state: sessions.State{
		AccessToken:  accessTokenExpiringAt(t, now.Add(time.Hour)),
		RefreshToken: "refresh-2",
	}}
	manager := newManager(t, repo, client, now)

	_, err := manager.Authenticate(context.Background(), testSessionID)
	require.NoError(t, err)
	require.Equal(t, 1, client.refreshCalls)
}

func TestRefreshTokenRotationPreservesPriorToken(t *testing.T) {
	now := time.Now()
	repo := fakesessionrepo.NewFakeSessionRepo()
	require.NoError(t, repo.Upsert(context.Background(), testSessionID, sessions.State{
		AccessToken:  accessTokenExpiringAt(t, now.Add(-time.Hour)),
		RefreshToken: "refresh-original",
	}))

	// Provider did not rotate: no refresh token in the response.
	client := &stubOIDCClient{state: sessions.State{
		AccessToken: accessTokenExpiringAt(t, now.Add(time.Hour)),
	}}
	manager := newManager(t, repo, client, now)

	state, err := manager.Authenticate(context.Background(), testSessionID)
	require.NoError(t, err)
	require.Equal(t, "refresh-original", state.RefreshToken)

	persisted, err := repo.FindByID(context.Background(), testSessionID)
	require.NoError(t, err)
	require.Equal(t, "refresh-original", persisted.RefreshToken)
}

func TestAuthenticateRefreshFailurePropagates(t *testing.T) {
	now := time.Now()
	repo := fakesessionrepo.NewFakeSessionRepo()
	require.NoError(t, repo.Upsert(context.Background(), testSessionID, sessions.State{
		AccessToken:  accessTokenExpiringAt(t, now.Add(-time.Hour)),
		RefreshToken: "refresh-1",
	}))

	client := &stubOIDCClient{err: errors.New("provider unavailable")}
	manager := newManager(t, repo, client, now)

	_, err := manager.Authenticate(context.Background(), testSessionID)
	require.Error(t, err)

	// A transient provider outage must not drop the session.
	persisted, findErr := repo.FindByID(context.Background(), testSessionID)
	require.NoError(t, findErr)
	require.NotNil(t, persisted)
}

func TestLogoutIsIdempotent(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	require.NoError(t, repo.Upsert(context.Background(), testSessionID, sessions.State{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}))

	manager := newManager(t, repo, &stubOIDCClient{}, time.Now())

	require.NoError(t, manager.Logout(context.Background(), testSessionID))
	require.Zero(t, repo.Len())
	require.NoError(t, manager.Logout(context.Background(), testSessionID))
	require.Zero(t, repo.Len())
}

func TestNewManagerValidation(t *testing.T) {
	_, err := sessions.NewManager(nil, &stubOIDCClient{})
	require.Error(t, err)

	_, err = sessions.NewManager(fakesessionrepo.NewFakeSessionRepo(), nil)
	require.Error(t, err)
}
