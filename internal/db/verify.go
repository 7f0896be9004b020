package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Report is a snapshot of a seeded database and the invariants it should hold.
type Report struct {
	Categories int64
	Users      int64
	Posts      int64
	Likes      int64
	MaxPostID  int64

	DanglingPosters    int64
	DanglingCategories int64
	DuplicateLikes     int64
	LikesPastMaxPost   int64
	// UsersOverLiking counts users with more likes than there are posts.
	UsersOverLiking int64

	VisibleRatio float64
	// CategoryShare is the fraction of posting users per category name.
	CategoryShare map[string]float64
}

// Problems lists every violated invariant; empty means the data is sound.
func (r Report) Problems() []string {
	var out []string
	if r.DanglingPosters > 0 {
		out = append(out, fmt.Sprintf("%d posts reference a missing user", r.DanglingPosters))
	}
	if r.DanglingCategories > 0 {
		out = append(out, fmt.Sprintf("%d posts reference a missing category", r.DanglingCategories))
	}
	if r.DuplicateLikes > 0 {
		out = append(out, fmt.Sprintf("%d duplicate (user_id, post_id) likes", r.DuplicateLikes))
	}
	if r.LikesPastMaxPost > 0 {
		out = append(out, fmt.Sprintf("%d likes point past max post id %d", r.LikesPastMaxPost, r.MaxPostID))
	}
	if r.UsersOverLiking > 0 {
		out = append(out, fmt.Sprintf("%d users like more posts than exist", r.UsersOverLiking))
	}
	return out
}

// Verify runs the integrity and distribution queries against pool.
func Verify(ctx context.Context, pool *pgxpool.Pool) (Report, error) {
	var r Report
	counts := []struct {
		dst *int64
		q   string
	}{
		{&r.Categories, `SELECT count(*) FROM category`},
		{&r.Users, `SELECT count(*) FROM users`},
		{&r.Posts, `SELECT count(*) FROM posts`},
		{&r.Likes, `SELECT count(*) FROM likes`},
		{&r.MaxPostID, `SELECT coalesce(max(id), 0) FROM posts`},
		{&r.DanglingPosters, `SELECT count(*) FROM posts p LEFT JOIN users u ON u.id = p.poster_id WHERE u.id IS NULL`},
		{&r.DanglingCategories, `SELECT count(*) FROM posts p LEFT JOIN category c ON c.id = p.category_id WHERE c.id IS NULL`},
		{&r.DuplicateLikes, `SELECT coalesce(sum(n - 1), 0)::bigint FROM (SELECT count(*) AS n FROM likes GROUP BY user_id, post_id HAVING count(*) > 1) d`},
		{&r.LikesPastMaxPost, `SELECT count(*) FROM likes WHERE post_id > (SELECT coalesce(max(id), 0) FROM posts)`},
		{&r.UsersOverLiking, `SELECT count(*) FROM (SELECT user_id FROM likes GROUP BY user_id HAVING count(*) > (SELECT count(*) FROM posts)) o`},
	}
	for _, c := range counts {
		if err := pool.QueryRow(ctx, c.q).Scan(c.dst); err != nil {
			return r, fmt.Errorf("verify %q: %w", c.q, err)
		}
	}

	if err := pool.QueryRow(ctx,
		`SELECT coalesce(avg(visible::int), 0)::float8 FROM posts`).Scan(&r.VisibleRatio); err != nil {
		return r, fmt.Errorf("visible ratio: %w", err)
	}

	rows, err := pool.Query(ctx, `
	SELECT c.category_name, count(DISTINCT p.poster_id)
	FROM category c
	LEFT JOIN posts p ON p.category_id = c.id
	GROUP BY c.id, c.category_name
	ORDER BY c.id`)
	if err != nil {
		return r, fmt.Errorf("category share: %w", err)
	}
	defer rows.Close()

	perCat := map[string]int64{}
	var total int64
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return r, fmt.Errorf("scan: %w", err)
		}
		perCat[name] = n
		total += n
	}
	if err := rows.Err(); err != nil {
		return r, err
	}
	r.CategoryShare = make(map[string]float64, len(perCat))
	for name, n := range perCat {
		if total > 0 {
			r.CategoryShare[name] = float64(n) / float64(total)
		} else {
			r.CategoryShare[name] = 0
		}
	}
	return r, nil
}
