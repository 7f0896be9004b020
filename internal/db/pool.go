// Package db owns the Postgres side of the seeder: pool setup, schema reset,
// bulk writes and the read queries used by verify and bench.
package db

import (
	"context"
	"fmt"

	"socialseed/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a connection pool for the database described by cfg.
// maxConns <= 0 keeps the pgxpool default.
func NewPool(ctx context.Context, cfg config.Database, maxConns int32) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		pcfg.MaxConns = maxConns
	}
	// Reduce planning overhead by caching prepared statements per connection.
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	pcfg.ConnConfig.StatementCacheCapacity = 256
	pcfg.ConnConfig.RuntimeParams["application_name"] = "socialseed"
	// Seed data is disposable; don't wait on WAL flush for every commit.
	pcfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET synchronous_commit = off")
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Redacted(), err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Redacted(), err)
	}
	return pool, nil
}
