// Package feed reads seeded posts back the way a timeline would, and times it.
package feed

import (
	"context"
	"fmt"

	"socialseed/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader queries the posts table written by the seeder.
type Reader struct {
	DB *pgxpool.Pool
}

// GetFeed returns the newest visible posts by the given posters. A cutoff
// stored with WithCutoff limits results to posts created at or after it.
func (r *Reader) GetFeed(ctx context.Context, posterIDs []int64, limit int) ([]model.Post, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	var rows pgx.Rows
	var err error
	if cutoff, ok := Cutoff(ctx); ok {
		const q = `
		SELECT id, title, content, created_at, visible, poster_id, category_id
		FROM posts
		WHERE poster_id = ANY($1) AND visible AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3;
		`
		rows, err = r.DB.Query(ctx, q, posterIDs, cutoff, limit)
	} else {
		const q = `
		SELECT id, title, content, created_at, visible, poster_id, category_id
		FROM posts
		WHERE poster_id = ANY($1) AND visible
		ORDER BY created_at DESC
		LIMIT $2;
		`
		rows, err = r.DB.Query(ctx, q, posterIDs, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	var res []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.Visible, &p.PosterID, &p.CategoryID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// PosterIDs lists every user id, for picking feed subscriptions.
func (r *Reader) PosterIDs(ctx context.Context) ([]int64, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	rows, err := r.DB.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
