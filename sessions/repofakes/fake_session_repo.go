package fakesessionrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-token-handler/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session repository for tests and
// single-process deployments.
type FakeSessionRepo struct {
	states map[string]sessions.State
	lock   sync.RWMutex

	// Err, when set, is returned by every call to simulate storage failure.
	Err error
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		states: make(map[string]sessions.State),
	}
}

func (sr *FakeSessionRepo) FindByID(_ context.Context, id string) (*sessions.State, error) {
	if sr.Err != nil {
		return nil, sr.Err
	}
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	state, ok := sr.states[id]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (sr *FakeSessionRepo) Upsert(_ context.Context, id string, state sessions.State) error {
	if sr.Err != nil {
		return sr.Err
	}
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.states[id] = state
	return nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, id string) error {
	if sr.Err != nil {
		return sr.Err
	}
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.states, id)
	return nil
}

func (sr *FakeSessionRepo) Prepare(context.Context) error {
	return sr.Err
}

// Len reports the number of stored sessions.
func (sr *FakeSessionRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return len(sr.states)
}
