package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jrsteele09/go-token-handler/cookiesecret"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ cookiesecret.Repo = (*SecretRepo)(nil)

type SecretRepo struct {
	client    *redis.Client
	namespace string
}

func NewSecretRepo(client *redis.Client, namespace string) *SecretRepo {
	return &SecretRepo{client: client, namespace: namespace}
}

func (sr *SecretRepo) key(id string) string {
	return sr.namespace + ":secret:" + id
}

func (sr *SecretRepo) FindByID(ctx context.Context, id string) (*cookiesecret.Secret, error) {
	payload, err := sr.client.Get(ctx, sr.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SecretRepo.FindByID] client.Get")
	}

	var secret cookiesecret.Secret
	if err := json.Unmarshal(payload, &secret); err != nil {
		return nil, errors.Wrap(err, "[SecretRepo.FindByID] json.Unmarshal")
	}
	return &secret, nil
}

// Upsert stores the secret with Redis key expiry matching the record's own
// ExpiresAt, so stale secrets vanish without sweeping.
func (sr *SecretRepo) Upsert(ctx context.Context, id string, secret cookiesecret.Secret) error {
	payload, err := json.Marshal(secret)
	if err != nil {
		return errors.Wrap(err, "[SecretRepo.Upsert] json.Marshal")
	}

	args := redis.SetArgs{ExpireAt: time.Unix(secret.ExpiresAt, 0)}
	if err := sr.client.SetArgs(ctx, sr.key(id), payload, args).Err(); err != nil {
		return errors.Wrap(err, "[SecretRepo.Upsert] client.SetArgs")
	}
	return nil
}

func (sr *SecretRepo) Delete(ctx context.Context, id string) error {
	if err := sr.client.Del(ctx, sr.key(id)).Err(); err != nil {
		return errors.Wrap(err, "[SecretRepo.Delete] client.Del")
	}
	return nil
}

// Expire is a no-op: keys expire themselves.
func (sr *SecretRepo) Expire(context.Context) error {
	return nil
}

func (sr *SecretRepo) Prepare(ctx context.Context) error {
	if err := sr.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "[SecretRepo.Prepare] client.Ping")
	}
	return nil
}
