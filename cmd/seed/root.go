package main

import (
	"fmt"
	"os"

	"socialseed/internal/config"
	"socialseed/internal/db"
	"socialseed/internal/logging"
	"socialseed/internal/progress"
	"socialseed/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// app is the state shared by every subcommand once PersistentPreRunE ran.
type app struct {
	envFile  string
	logLevel string

	cfg config.Config
	log *zap.Logger
}

type seedFlags struct {
	users         int
	batch         int
	randomSeed    uint64
	progressEvery int
	noBar         bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var sf seedFlags

	root := &cobra.Command{
		Use:   "seed",
		Short: "Recreate the social schema and fill it with synthetic users, posts and likes",
		Long: `Drops and recreates the category, users, posts and likes tables, then
generates users with a heavy-tailed number of posts and likes.

Connection settings come from POSTGRES_USER, POSTGRES_PASSWORD,
POSTGRES_SERVER, POSTGRES_PORT and POSTGRES_DB (a .env file is read first).
All existing data in those four tables is destroyed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf.apply(cmd, &a.cfg.Seed)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runSeed(cmd, sf.noBar)
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides SEED_LOG_LEVEL)")

	root.Flags().IntVar(&sf.users, "users", 0, "number of users to generate (overrides SEED_NUM_USERS)")
	root.Flags().IntVar(&sf.batch, "batch", 0, "users inserted per round-trip (overrides SEED_BATCH_SIZE)")
	root.Flags().Uint64Var(&sf.randomSeed, "seed", 0, "random seed, 0 for time-based (overrides SEED_RANDOM_SEED)")
	root.Flags().IntVar(&sf.progressEvery, "progress-every", 0, "log progress every N users (overrides SEED_PROGRESS_EVERY)")
	root.Flags().BoolVar(&sf.noBar, "no-bar", false, "log progress lines even on a terminal")

	root.AddCommand(newVerifyCmd(a), newBenchCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, logger
	return nil
}

// apply copies only the flags the user actually set.
func (sf seedFlags) apply(cmd *cobra.Command, s *config.Seed) {
	if cmd.Flags().Changed("users") {
		s.NumUsers = sf.users
	}
	if cmd.Flags().Changed("batch") {
		s.BatchSize = sf.batch
	}
	if cmd.Flags().Changed("seed") {
		s.RandomSeed = sf.randomSeed
	}
	if cmd.Flags().Changed("progress-every") {
		s.ProgressEvery = sf.progressEvery
	}
}

func (a *app) runSeed(cmd *cobra.Command, noBar bool) error {
	ctx := cmd.Context()

	pool, err := db.NewPool(ctx, a.cfg.Database, 2)
	if err != nil {
		return err
	}
	defer pool.Close()
	a.log.Info("connected", zap.String("database", a.cfg.Database.Redacted()))

	var opts []seed.Option
	if !noBar && term.IsTerminal(int(os.Stderr.Fd())) {
		opts = append(opts, seed.WithProgress(progress.Bar(os.Stderr)))
	}
	pl, err := seed.New(a.cfg.Seed, &db.Store{DB: pool}, a.log, db.DefaultCategories, opts...)
	if err != nil {
		return err
	}

	res, err := pl.Run(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	a.log.Info("done",
		zap.Int("categories", res.Categories),
		zap.Int("users", res.Users),
		zap.Int("posts", res.Posts),
		zap.Int("likes", res.Likes),
		zap.Duration("elapsed", res.Elapsed))
	return nil
}
