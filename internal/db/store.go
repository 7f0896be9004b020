package db

import (
	"context"
	"fmt"

	"socialseed/internal/model"
	"socialseed/internal/seed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres implementation of seed.Store.
type Store struct {
	DB *pgxpool.Pool
}

var _ seed.Store = (*Store)(nil)

// ResetSchema recreates the four tables and inserts names as categories in
// one transaction.
func (s *Store) ResetSchema(ctx context.Context, names []string) ([]model.Category, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	var cats []model.Category
	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		var err error
		cats, err = resetSchema(ctx, tx, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(seed.Writer) error) error {
	if s.DB == nil {
		return fmt.Errorf("db is nil")
	}
	return pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(&txWriter{tx: tx})
	})
}

type txWriter struct {
	tx pgx.Tx
}

// InsertUsers sends one INSERT ... RETURNING per user in a single pgx.Batch
// round-trip and reads the ids back in order.
func (w *txWriter) InsertUsers(ctx context.Context, users []model.User) ([]int64, error) {
	if len(users) == 0 {
		return nil, nil
	}
	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(`INSERT INTO users (username, full_name, birthday) VALUES ($1, $2, $3) RETURNING id`,
			u.Username, u.FullName, u.Birthday)
	}
	br := w.tx.SendBatch(ctx, batch)
	ids := make([]int64, 0, len(users))
	for range users {
		var id int64
		if err := br.QueryRow().Scan(&id); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("batch insert user: %w", err)
		}
		ids = append(ids, id)
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("batch close: %w", err)
	}
	return ids, nil
}

var postColumns = []string{"title", "content", "poster_id", "category_id", "visible", "created_at"}

// CopyPosts streams all posts through a single COPY.
func (w *txWriter) CopyPosts(ctx context.Context, posts []model.Post) (int64, error) {
	n, err := w.tx.CopyFrom(ctx, pgx.Identifier{"posts"}, postColumns,
		pgx.CopyFromSlice(len(posts), func(i int) ([]any, error) {
			p := posts[i]
			return []any{p.Title, p.Content, p.PosterID, p.CategoryID, p.Visible, p.CreatedAt}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy into posts (%d rows): %w", len(posts), err)
	}
	return n, nil
}

func (w *txWriter) PostIDs(ctx context.Context) ([]int64, error) {
	rows, err := w.tx.Query(ctx, `SELECT id FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query post ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan post ids: %w", err)
	}
	return ids, nil
}

var likeColumns = []string{"user_id", "post_id", "created_at"}

// CopyLikes streams all likes through a single COPY.
func (w *txWriter) CopyLikes(ctx context.Context, likes []model.Like) (int64, error) {
	n, err := w.tx.CopyFrom(ctx, pgx.Identifier{"likes"}, likeColumns,
		pgx.CopyFromSlice(len(likes), func(i int) ([]any, error) {
			l := likes[i]
			return []any{l.UserID, l.PostID, l.CreatedAt}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy into likes (%d rows): %w", len(likes), err)
	}
	return n, nil
}
