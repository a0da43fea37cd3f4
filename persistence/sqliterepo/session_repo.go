package sqliterepo

import (
	"context"
	"database/sql"

	"github.com/jrsteele09/go-token-handler/sessions"
	"github.com/pkg/errors"
)

var _ sessions.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (sr *SessionRepo) Prepare(ctx context.Context) error {
	_, err := sr.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			id_token TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Prepare] create table")
	}
	return nil
}

func (sr *SessionRepo) FindByID(ctx context.Context, id string) (*sessions.State, error) {
	var state sessions.State
	err := sr.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, id_token FROM sessions WHERE id = ?`, id).
		Scan(&state.AccessToken, &state.RefreshToken, &state.IDToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.FindByID] query")
	}
	return &state, nil
}

func (sr *SessionRepo) Upsert(ctx context.Context, id string, state sessions.State) error {
	_, err := sr.db.ExecContext(ctx, `
		INSERT INTO sessions (id, access_token, refresh_token, id_token)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			id_token = excluded.id_token`,
		id, state.AccessToken, state.RefreshToken, state.IDToken)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Upsert] exec")
	}
	return nil
}

func (sr *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := sr.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "[SessionRepo.Delete] exec")
	}
	return nil
}
