package main

import (
	"context"
	"fmt"
	"time"

	"socialseed/internal/db"
	"socialseed/internal/feed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newBenchCmd measures latency and QPS of timeline queries over seeded posts.
// A worker pool issues feed queries concurrently and aggregates metrics.
func newBenchCmd(a *app) *cobra.Command {
	cfg := feed.BenchConfig{}
	var windowDays int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark feed queries against the seeded posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if windowDays > 0 {
				cfg.Window = time.Duration(windowDays) * 24 * time.Hour
			}
			if cfg.Seed == 0 {
				cfg.Seed = a.cfg.Seed.RandomSeed
			}

			pool, err := db.NewPool(ctx, a.cfg.Database, int32(cfg.Concurrency))
			if err != nil {
				return err
			}
			defer pool.Close()

			r := &feed.Reader{DB: pool}
			posters, err := r.PosterIDs(ctx)
			if err != nil {
				return err
			}
			a.log.Info("bench starting",
				zap.Int("posters", len(posters)),
				zap.Int("concurrency", cfg.Concurrency),
				zap.Int("requests", cfg.Requests))

			s, err := feed.Bench(ctx, cfg, posters, func(ctx context.Context, ids []int64, limit int) error {
				_, err := r.GetFeed(ctx, ids, limit)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Requests: %d, Concurrency: %d, Errors: %d\n", s.Requests, cfg.Concurrency, s.Errors)
			fmt.Fprintf(out, "Avg latency: %s\n", s.Avg.Truncate(time.Microsecond))
			fmt.Fprintf(out, "P95 latency: %s\n", s.P95.Truncate(time.Microsecond))
			fmt.Fprintf(out, "Total QPS: %.2f\n", s.QPS)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Concurrency, "concurrency", 50, "number of concurrent workers")
	f.IntVar(&cfg.Requests, "requests", 1000, "total number of requests")
	f.IntVar(&cfg.Limit, "limit", 50, "feed limit")
	f.IntVar(&cfg.Subs, "subs", 10, "number of poster ids per request")
	f.IntVar(&windowDays, "window-days", 0, "created_at cutoff in days (0 = no cutoff)")
	f.Uint64Var(&cfg.Seed, "rand-seed", 0, "seed for subscription sampling (0 = SEED_RANDOM_SEED)")
	return cmd
}
