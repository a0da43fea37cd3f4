// Package redisrepo implements the session and cookie-secret repositories on
// Redis. Values are stored as JSON under namespaced keys; cookie secrets use
// Redis's own key expiry instead of explicit sweeping.
package redisrepo

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	client    *redis.Client
	namespace string
}

func NewSessionRepo(client *redis.Client, namespace string) *SessionRepo {
	return &SessionRepo{client: client, namespace: namespace}
}

func (sr *SessionRepo) key(id string) string {
	return sr.namespace + ":session:" + id
}

func (sr *SessionRepo) FindByID(ctx context.Context, id string) (*sessions.State, error) {
	payload, err := sr.client.Get(ctx, sr.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.FindByID] client.Get")
	}

	var state sessions.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.FindByID] json.Unmarshal")
	}
	return &state, nil
}

func (sr *SessionRepo) Upsert(ctx context.Context, id string, state sessions.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Upsert] json.Marshal")
	}
	if err := sr.client.Set(ctx, sr.key(id), payload, 0).Err(); err != nil {
		return errors.Wrap(err, "[SessionRepo.Upsert] client.Set")
	}
	return nil
}

func (sr *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := sr.client.Del(ctx, sr.key(id)).Err(); err != nil {
		return errors.Wrap(err, "[SessionRepo.Delete] client.Del")
	}
	return nil
}

func (sr *SessionRepo) Prepare(ctx context.Context) error {
	if err := sr.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "[SessionRepo.Prepare] client.Ping")
	}
	return nil
}
