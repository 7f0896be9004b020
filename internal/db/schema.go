package db

import (
	"context"
	"fmt"
	"strings"

	"socialseed/internal/model"

	"github.com/jackc/pgx/v5"
)

// DefaultCategories are inserted on every reset, in this order.
var DefaultCategories = []string{"News", "Sports", "Politics", "Entertainment"}

// dropStatements run children first so FK constraints never block a drop.
var dropStatements = []string{
	`DROP TABLE IF EXISTS likes`,
	`DROP TABLE IF EXISTS posts`,
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS category`,
}

// createStatements run parents first.
var createStatements = []string{
	`CREATE TABLE
	category (
		id int generated always as identity not null PRIMARY KEY,
		category_name text not null
	)`,
	`CREATE TABLE
	users (
		id int generated always as identity not null PRIMARY KEY,
		username text not null,
		full_name text not null,
		birthday date not null
	)`,
	`CREATE TABLE
	posts (
		id int generated always as identity not null PRIMARY KEY,
		title text not null,
		content text not null,
		created_at timestamp not null,
		visible boolean not null,
		poster_id int not null references users(id),
		category_id int not null references category(id)
	)`,
	`CREATE TABLE
	likes (
		user_id int references users(id),
		post_id int references posts(id),
		PRIMARY KEY (user_id, post_id),
		created_at timestamp not null
	)`,
}

// SchemaStatements returns the full reset script in execution order.
func SchemaStatements() []string {
	stmts := make([]string, 0, len(dropStatements)+len(createStatements))
	stmts = append(stmts, dropStatements...)
	return append(stmts, createStatements...)
}

// resetSchema drops and recreates all tables inside tx and inserts names as
// categories. Any data already present is lost.
func resetSchema(ctx context.Context, tx pgx.Tx, names []string) ([]model.Category, error) {
	for _, stmt := range SchemaStatements() {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}

	cats := make([]model.Category, 0, len(names))
	for _, name := range names {
		c := model.Category{Name: name}
		err := tx.QueryRow(ctx,
			`INSERT INTO category (category_name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
		if err != nil {
			return nil, fmt.Errorf("insert category %q: %w", name, err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
