package sqliterepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jrsteele09/go-token-handler/cookiesecret"
	"github.com/pkg/errors"
)

var _ cookiesecret.Repo = (*SecretRepo)(nil)

type SecretRepo struct {
	db      *sql.DB
	nowTime func() time.Time
}

func NewSecretRepo(db *sql.DB) *SecretRepo {
	return &SecretRepo{db: db, nowTime: time.Now}
}

func (sr *SecretRepo) Prepare(ctx context.Context) error {
	_, err := sr.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cookie_secrets (
			id TEXT PRIMARY KEY,
			secret TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`)
	if err != nil {
		return errors.Wrap(err, "[SecretRepo.Prepare] create table")
	}
	return nil
}

func (sr *SecretRepo) FindByID(ctx context.Context, id string) (*cookiesecret.Secret, error) {
	var secret cookiesecret.Secret
	err := sr.db.QueryRowContext(ctx,
		`SELECT secret, created_at, expires_at FROM cookie_secrets WHERE id = ?`, id).
		Scan(&secret.Value, &secret.CreatedAt, &secret.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SecretRepo.FindByID] query")
	}
	return &secret, nil
}

func (sr *SecretRepo) Upsert(ctx context.Context, id string, secret cookiesecret.Secret) error {
	_, err := sr.db.ExecContext(ctx, `
		INSERT INTO cookie_secrets (id, secret, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			secret = excluded.secret,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		id, secret.Value, secret.CreatedAt, secret.ExpiresAt)
	if err != nil {
		return errors.Wrap(err, "[SecretRepo.Upsert] exec")
	}
	return nil
}

func (sr *SecretRepo) Delete(ctx context.Context, id string) error {
	if _, err := sr.db.ExecContext(ctx, `DELETE FROM cookie_secrets WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "[SecretRepo.Delete] exec")
	}
	return nil
}

// Expire sweeps rows past their expiry.
func (sr *SecretRepo) Expire(ctx context.Context) error {
	_, err := sr.db.ExecContext(ctx,
		`DELETE FROM cookie_secrets WHERE expires_at <= ?`, sr.nowTime().Unix())
	if err != nil {
		return errors.Wrap(err, "[SecretRepo.Expire] exec")
	}
	return nil
}
