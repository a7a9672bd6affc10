package funko

import (
	"context"
)

// Repository persists the collections of every user.
//
// Load returns ErrNotFound for a missing funko and ListAll returns
// ErrCollectionNotFound when the user has never stored anything.
// Any other error is a storage failure.
type Repository interface {
	Ensure(ctx context.Context, user string) error
	HasCollection(ctx context.Context, user string) (bool, error)
	Exists(ctx context.Context, user string, id int) (bool, error)
	Save(ctx context.Context, user string, f Funko) error
	Load(ctx context.Context, user string, id int) (Funko, error)
	Delete(ctx context.Context, user string, id int) (bool, error)
	ListAll(ctx context.Context, user string) ([]Funko, error)
}
