package fakesecretrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-token-handler/cookiesecret"
)

var _ cookiesecret.Repo = (*FakeSecretRepo)(nil)

// FakeSecretRepo is an in-memory cookie-secret repository for tests and
// single-process deployments.
type FakeSecretRepo struct {
	secrets map[string]cookiesecret.Secret
	lock    sync.RWMutex

	// NowTime is injectable for expiry tests.
	NowTime func() time.Time

	// Err, when set, is returned by every call to simulate storage failure.
	Err error
}

func NewFakeSecretRepo() *FakeSecretRepo {
	return &FakeSecretRepo{
		secrets: make(map[string]cookiesecret.Secret),
		NowTime: time.Now,
	}
}

func (sr *FakeSecretRepo) FindByID(_ context.Context, id string) (*cookiesecret.Secret, error) {
	if sr.Err != nil {
		return nil, sr.Err
	}
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	secret, ok := sr.secrets[id]
	if !ok {
		return nil, nil
	}
	return &secret, nil
}

func (sr *FakeSecretRepo) Upsert(_ context.Context, id string, secret cookiesecret.Secret) error {
	if sr.Err != nil {
		return sr.Err
	}
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.secrets[id] = secret
	return nil
}

func (sr *FakeSecretRepo) Delete(_ context.Context, id string) error {
	if sr.Err != nil {
		return sr.Err
	}
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.secrets, id)
	return nil
}

func (sr *FakeSecretRepo) Expire(context.Context) error {
	if sr.Err != nil {
		return sr.Err
	}
	sr.lock.Lock()
	defer sr.lock.Unlock()

	now := sr.NowTime()
	for id, secret := range sr.secrets {
		if secret.Expired(now) {
			delete(sr.secrets, id)
		}
	}
	return nil
}

func (sr *FakeSecretRepo) Prepare(context.Context) error {
	return sr.Err
}

// Len reports the number of stored secrets.
func (sr *FakeSecretRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return len(sr.secrets)
}
