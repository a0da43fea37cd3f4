package cookiesecret

import "context"

// Repo is the storage contract for login-attempt secrets.
//
// FindByID returns (nil, nil) when no secret exists for the id. Delete of a
// non-existent id is a no-op. Expire purges records past their expiry;
// engines with native TTL support may implement it as a no-op.
type Repo interface {
	FindByID(ctx context.Context, id string) (*Secret, error)
	Upsert(ctx context.Context, id string, secret Secret) error
	Delete(ctx context.Context, id string) error
	Expire(ctx context.Context) error
	Prepare(ctx context.Context) error
}
