package sessions

import "context"

// Repo is the storage contract for session state. Adapters are free to use
// any engine; the gateway depends only on these four methods.
//
// FindByID returns (nil, nil) when no session exists for the id - an absent
// session is not an error. Delete of a non-existent id is a no-op.
type Repo interface {
	FindByID(ctx context.Context, id string) (*State, error)
	Upsert(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
	Prepare(ctx context.Context) error
}
