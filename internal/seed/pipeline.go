// Package seed generates the synthetic users, posts and likes and writes
// them through a Store.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"socialseed/internal/config"
	"socialseed/internal/fake"
	"socialseed/internal/model"
	"socialseed/internal/progress"
	"socialseed/internal/sample"

	"go.uber.org/zap"
)

// Faker supplies identities and post text.
type Faker interface {
	Profile() fake.Profile
	Sentence() string
	Text() string
}

// Result summarises a finished run.
type Result struct {
	Categories int
	Users      int
	Posts      int
	Likes      int
	Elapsed    time.Duration
}

// Pipeline runs one seeding pass. Build it with New; it is single use and
// not safe for concurrent use.
type Pipeline struct {
	cfg        config.Seed
	params     Params
	categories []string
	store      Store
	log        *zap.Logger
	faker      Faker
	src        rand.Source
	now        func() time.Time
	progress   progress.Factory
}

type Option func(*Pipeline)

func WithParams(p Params) Option { return func(pl *Pipeline) { pl.params = p } }

// WithCategories replaces the category names inserted on reset.
func WithCategories(names []string) Option {
	return func(pl *Pipeline) { pl.categories = names }
}

func WithFaker(f Faker) Option { return func(pl *Pipeline) { pl.faker = f } }

// WithSource overrides the random source used by every sampler.
func WithSource(src rand.Source) Option { return func(pl *Pipeline) { pl.src = src } }

func WithClock(now func() time.Time) Option { return func(pl *Pipeline) { pl.now = now } }

func WithProgress(f progress.Factory) Option { return func(pl *Pipeline) { pl.progress = f } }

// New builds a pipeline writing into store. categories default to names
// (typically db.DefaultCategories), params to DefaultParams.
func New(cfg config.Seed, store Store, logger *zap.Logger, categories []string, opts ...Option) (*Pipeline, error) {
	pl := &Pipeline{
		cfg:        cfg,
		params:     DefaultParams(),
		categories: categories,
		store:      store,
		log:        logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(pl)
	}
	if pl.src == nil {
		pl.src = sample.NewSource(cfg.RandomSeed)
	}
	if pl.faker == nil {
		pl.faker = fake.New(cfg.RandomSeed)
	}
	if pl.progress == nil {
		pl.progress = progress.Log(logger, cfg.ProgressEvery)
	}
	if cfg.NumUsers < 0 {
		return nil, fmt.Errorf("negative user count %d", cfg.NumUsers)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if err := pl.params.validate(len(pl.categories)); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	return pl, nil
}

// Run resets the schema, then generates and writes users, posts and likes.
// The reset and the generation are two separate transactions; a failure in
// the second leaves an empty schema behind.
func (pl *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	cats, err := pl.store.ResetSchema(ctx, pl.categories)
	if err != nil {
		return res, fmt.Errorf("reset schema: %w", err)
	}
	res.Categories = len(cats)
	pl.log.Info("schema recreated", zap.Int("categories", len(cats)))

	gen, err := pl.newGenerator(cats)
	if err != nil {
		return res, err
	}

	err = pl.store.WithinTx(ctx, func(w Writer) error {
		pl.log.Info("creating fake posters", zap.Int("users", pl.cfg.NumUsers))
		userIDs, posts, err := gen.usersAndPosts(ctx, w)
		if err != nil {
			return err
		}
		res.Users = len(userIDs)

		var postIDs []int64
		if len(posts) > 0 {
			n, err := w.CopyPosts(ctx, posts)
			if err != nil {
				return fmt.Errorf("copy posts: %w", err)
			}
			res.Posts = int(n)
			if postIDs, err = w.PostIDs(ctx); err != nil {
				return fmt.Errorf("list post ids: %w", err)
			}
		}
		pl.log.Info("posts written", zap.Int("total_posts", res.Posts))

		pl.log.Info("creating fake likes")
		likes := gen.likes(userIDs, postIDs, len(posts))
		if len(likes) > 0 {
			n, err := w.CopyLikes(ctx, likes)
			if err != nil {
				return fmt.Errorf("copy likes: %w", err)
			}
			res.Likes = int(n)
		}
		pl.log.Info("likes written", zap.Int("total_likes", res.Likes))
		return nil
	})
	res.Elapsed = time.Since(start)
	if err != nil {
		return res, fmt.Errorf("generate: %w", err)
	}
	return res, nil
}

func (pl *Pipeline) newGenerator(cats []model.Category) (*generator, error) {
	postsDist, err := sample.NewNegativeBinomial(pl.params.PostsR, pl.params.PostsP, pl.src)
	if err != nil {
		return nil, fmt.Errorf("posts distribution: %w", err)
	}
	likesDist, err := sample.NewNegativeBinomial(pl.params.LikesR, pl.params.LikesP, pl.src)
	if err != nil {
		return nil, fmt.Errorf("likes distribution: %w", err)
	}
	ids := make([]int64, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	catDist, err := sample.NewCategorical(ids, pl.params.CategoryWeights, pl.src)
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	now := pl.now()
	return &generator{
		pl:         pl,
		postsDist:  postsDist,
		likesDist:  likesDist,
		categories: catDist,
		visible:    sample.Bernoulli{P: pl.params.VisibleP, Src: pl.src},
		from:       now.AddDate(-pl.params.HistoryYears, 0, 0),
		to:         now,
	}, nil
}
