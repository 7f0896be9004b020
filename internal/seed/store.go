package seed

import (
	"context"

	"socialseed/internal/model"
)

// Store is the storage the pipeline writes into. internal/db provides the
// Postgres implementation.
type Store interface {
	// ResetSchema drops and recreates every table and inserts the named
	// categories, in a single transaction.
	ResetSchema(ctx context.Context, categories []string) ([]model.Category, error)
	// WithinTx runs fn in one transaction: committed if fn returns nil,
	// rolled back otherwise.
	WithinTx(ctx context.Context, fn func(Writer) error) error
}

// Writer is the transactional write surface handed to WithinTx callbacks.
type Writer interface {
	// InsertUsers inserts users and returns their generated ids, in order.
	InsertUsers(ctx context.Context, users []model.User) ([]int64, error)
	// CopyPosts bulk-inserts posts and returns the number of rows written.
	CopyPosts(ctx context.Context, posts []model.Post) (int64, error)
	// PostIDs lists the ids of every post visible to the transaction.
	PostIDs(ctx context.Context) ([]int64, error)
	// CopyLikes bulk-inserts likes and returns the number of rows written.
	CopyLikes(ctx context.Context, likes []model.Like) (int64, error)
}
