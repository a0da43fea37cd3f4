package sessions

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// defaultExpirationBuffer is the grace period applied to access-token expiry
// before a refresh is triggered.
const defaultExpirationBuffer = 60 * time.Second

// OIDCClient is the slice of the identity-provider client the manager needs.
type OIDCClient interface {
	Refresh(ctx context.Context, refreshToken string) (State, error)
}

// Manager decides whether a stored session is still usable and performs a
// provider refresh exactly once per need. It is safe for concurrent use;
// two concurrent refreshes for the same session id may both succeed, in
// which case the repository keeps whichever write lands last. No lock is
// taken - provider refresh is idempotent enough that the extra round trip
// is the only cost.
type Manager struct {
	repo             Repo
	client           OIDCClient
	expirationBuffer time.Duration
	nowTime          func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithExpirationBuffer overrides the default 60s refresh grace period.
func WithExpirationBuffer(buffer time.Duration) ManagerOption {
	return func(m *Manager) {
		m.expirationBuffer = buffer
	}
}

// NewManager initializes a new session Manager with required dependencies.
func NewManager(repo Repo, client OIDCClient, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] session repo is required")
	}
	if client == nil {
		return nil, errors.New("[NewManager] OIDC client is required")
	}

	manager := &Manager{
		repo:             repo,
		client:           client,
		expirationBuffer: defaultExpirationBuffer,
		nowTime:          time.Now,
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Authenticate looks up the session and returns a usable State, refreshing
// it first when the access token is past its expiry grace period. An
// unknown session id returns (nil, nil) without touching the provider.
// Refresh and storage failures propagate to the caller, who decides whether
// to fall through unauthenticated - the manager neither keeps serving a
// stale token nor deletes the session on a transient provider outage.
func (m *Manager) Authenticate(ctx context.Context, sessionID string) (*State, error) {
	state, err := m.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Authenticate] repo.FindByID")
	}
	if state == nil {
		return nil, nil
	}

	enriched := Enrich(*state)

	if !m.needsRefresh(enriched.AccessClaims) {
		return state, nil
	}

	refreshed, err := m.client.Refresh(ctx, state.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Authenticate] client.Refresh")
	}

	// Providers are not required to rotate refresh tokens. Losing the old
	// one would make the session permanently unrefreshable.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = state.RefreshToken
	}

	if err := m.repo.Upsert(ctx, sessionID, refreshed); err != nil {
		return nil, errors.Wrap(err, "[Manager.Authenticate] repo.Upsert")
	}

	return &refreshed, nil
}

// Logout deletes the stored session. Deleting a non-existent session id is
// a no-op, not an error.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.repo.Delete(ctx, sessionID); err != nil {
		return errors.Wrap(err, "[Manager.Logout] repo.Delete")
	}
	return nil
}

func (m *Manager) needsRefresh(claims Claims) bool {
	return m.nowTime().Add(-m.expirationBuffer).After(time.Unix(claims.ExpiresAt, 0))
}
