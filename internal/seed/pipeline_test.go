package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialseed/internal/config"
	"socialseed/internal/fake"
	"socialseed/internal/model"
	"socialseed/internal/progress"
	"socialseed/internal/sample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCategories = []string{"News", "Sports", "Politics", "Entertainment"}

// memStore keeps committed rows in memory. Ids start at firstID and advance
// by step, so tests can check nothing assumes 1-based contiguous ids.
type memStore struct {
	firstID, step int64
	failUsers     error

	categories []model.Category
	users      []model.User
	posts      []model.Post
	likes      []model.Like

	userBatches  []int
	copyPosts    int
	copyLikes    int
	transactions int
}

func newMemStore() *memStore { return &memStore{firstID: 1, step: 1} }

func (s *memStore) ResetSchema(_ context.Context, names []string) ([]model.Category, error) {
	s.categories, s.users, s.posts, s.likes = nil, nil, nil, nil
	for i, n := range names {
		s.categories = append(s.categories, model.Category{ID: int64(i + 1), Name: n})
	}
	return s.categories, nil
}

func (s *memStore) WithinTx(ctx context.Context, fn func(Writer) error) error {
	s.transactions++
	w := &memWriter{s: s, nextUser: s.firstID, nextPost: 1}
	if err := fn(w); err != nil {
		return err
	}
	s.users = append(s.users, w.users...)
	s.posts = append(s.posts, w.posts...)
	s.likes = append(s.likes, w.likes...)
	return nil
}

type memWriter struct {
	s                  *memStore
	nextUser, nextPost int64
	users              []model.User
	posts              []model.Post
	likes              []model.Like
}

func (w *memWriter) InsertUsers(_ context.Context, users []model.User) ([]int64, error) {
	if w.s.failUsers != nil {
		return nil, w.s.failUsers
	}
	w.s.userBatches = append(w.s.userBatches, len(users))
	ids := make([]int64, len(users))
	for i, u := range users {
		u.ID = w.nextUser
		ids[i] = u.ID
		w.users = append(w.users, u)
		w.nextUser += w.s.step
	}
	return ids, nil
}

func (w *memWriter) CopyPosts(_ context.Context, posts []model.Post) (int64, error) {
	w.s.copyPosts++
	for _, p := range posts {
		p.ID = w.nextPost
		w.nextPost++
		w.posts = append(w.posts, p)
	}
	return int64(len(posts)), nil
}

func (w *memWriter) PostIDs(context.Context) ([]int64, error) {
	ids := make([]int64, len(w.posts))
	for i, p := range w.posts {
		ids[i] = p.ID
	}
	return ids, nil
}

func (w *memWriter) CopyLikes(_ context.Context, likes []model.Like) (int64, error) {
	w.s.copyLikes++
	w.likes = append(w.likes, likes...)
	return int64(len(likes)), nil
}

type stubFaker struct{ n int }

func (f *stubFaker) Profile() fake.Profile {
	f.n++
	return fake.Profile{Username: "user", FullName: "Some One", Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
}
func (f *stubFaker) Sentence() string { return "A title." }
func (f *stubFaker) Text() string     { return "Some content." }

func seedConfig(users int) config.Seed {
	return config.Seed{NumUsers: users, BatchSize: 4, ProgressEvery: 10, RandomSeed: 7}
}

func newTestPipeline(t *testing.T, cfg config.Seed, store Store, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithProgress(progress.Nop())}, opts...)
	pl, err := New(cfg, store, zap.NewNop(), testCategories, opts...)
	require.NoError(t, err)
	return pl
}

// Denser params so a ten user run still produces posts and likes.
func denseParams() Params {
	p := DefaultParams()
	p.PostsR, p.PostsP = 4, 0.5
	p.LikesR, p.LikesP = 3, 0.5
	return p
}

func TestRunTenUsers(t *testing.T) {
	store := newMemStore()
	pl := newTestPipeline(t, seedConfig(10), store, WithParams(denseParams()), WithFaker(fake.New(7)))

	res, err := pl.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Categories)
	assert.Equal(t, 10, res.Users)
	require.Len(t, store.categories, 4)
	require.Len(t, store.users, 10)
	assert.Equal(t, len(store.posts), res.Posts)
	assert.Equal(t, len(store.likes), res.Likes)
	require.NotEmpty(t, store.posts)

	userIDs := map[int64]bool{}
	for _, u := range store.users {
		userIDs[u.ID] = true
		assert.NotEmpty(t, u.Username)
		assert.NotEmpty(t, u.FullName)
	}
	catIDs := map[int64]bool{}
	for _, c := range store.categories {
		catIDs[c.ID] = true
	}
	var maxPost int64
	for _, p := range store.posts {
		assert.True(t, userIDs[p.PosterID], "poster %d", p.PosterID)
		assert.True(t, catIDs[p.CategoryID], "category %d", p.CategoryID)
		maxPost = max(maxPost, p.ID)
	}

	type key struct{ user, post int64 }
	seen := map[key]bool{}
	perUser := map[int64]int{}
	for _, l := range store.likes {
		k := key{l.UserID, l.PostID}
		assert.False(t, seen[k], "duplicate like %+v", k)
		seen[k] = true
		assert.True(t, userIDs[l.UserID])
		assert.LessOrEqual(t, l.PostID, maxPost)
		assert.GreaterOrEqual(t, l.PostID, int64(1))
		perUser[l.UserID]++
	}
	for u, n := range perUser {
		assert.LessOrEqual(t, n, len(store.posts), "user %d", u)
	}
}

func TestRunNoPostsSkipsInserts(t *testing.T) {
	store := newMemStore()
	params := DefaultParams()
	// p = 1 means every trial succeeds: zero failures, zero posts.
	params.PostsP = 1
	pl := newTestPipeline(t, seedConfig(25), store, WithParams(params), WithFaker(&stubFaker{}))

	res, err := pl.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, res.Users)
	assert.Zero(t, res.Posts)
	assert.Zero(t, res.Likes)
	assert.Zero(t, store.copyPosts, "no posts insert expected")
	assert.Zero(t, store.copyLikes, "no likes insert expected")
}

func TestRunZeroUsers(t *testing.T) {
	store := newMemStore()
	pl := newTestPipeline(t, seedConfig(0), store, WithFaker(&stubFaker{}))

	res, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Categories)
	assert.Zero(t, res.Users)
	assert.Empty(t, store.userBatches)
	assert.Zero(t, store.copyPosts)
}

func TestRunBatchesUsers(t *testing.T) {
	store := newMemStore()
	cfg := seedConfig(10)
	cfg.BatchSize = 3
	pl := newTestPipeline(t, cfg, store, WithFaker(&stubFaker{}))

	_, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 3, 1}, store.userBatches)
	assert.Equal(t, 1, store.transactions)
}

func TestRunUsesReturnedUserIDs(t *testing.T) {
	store := newMemStore()
	store.firstID, store.step = 500, 7
	pl := newTestPipeline(t, seedConfig(12), store, WithParams(denseParams()), WithFaker(&stubFaker{}))

	_, err := pl.Run(context.Background())
	require.NoError(t, err)

	ids := map[int64]bool{}
	for _, u := range store.users {
		ids[u.ID] = true
	}
	require.NotEmpty(t, store.likes)
	for _, l := range store.likes {
		assert.True(t, ids[l.UserID], "like from unknown user %d", l.UserID)
	}
	for _, p := range store.posts {
		assert.True(t, ids[p.PosterID], "post from unknown user %d", p.PosterID)
	}
}

func TestRunOneCategoryPerUser(t *testing.T) {
	store := newMemStore()
	pl := newTestPipeline(t, seedConfig(200), store, WithParams(denseParams()), WithFaker(&stubFaker{}))

	_, err := pl.Run(context.Background())
	require.NoError(t, err)

	byUser := map[int64]int64{}
	for _, p := range store.posts {
		if c, ok := byUser[p.PosterID]; ok {
			require.Equal(t, c, p.CategoryID, "user %d has posts in two categories", p.PosterID)
		}
		byUser[p.PosterID] = p.CategoryID
	}
}

func TestRunTimestampsWithinHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	pl := newTestPipeline(t, seedConfig(50), store,
		WithParams(denseParams()), WithFaker(&stubFaker{}), WithClock(func() time.Time { return now }))

	_, err := pl.Run(context.Background())
	require.NoError(t, err)

	from := now.AddDate(-5, 0, 0)
	for _, p := range store.posts {
		require.False(t, p.CreatedAt.Before(from))
		require.False(t, p.CreatedAt.After(now))
	}
	for _, l := range store.likes {
		require.False(t, l.CreatedAt.Before(from))
		require.False(t, l.CreatedAt.After(now))
	}
}

func TestRunDistributions(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	store := newMemStore()
	params := DefaultParams()
	params.PostsR, params.PostsP = 10, 0.5
	params.LikesP = 1
	cfg := seedConfig(20000)
	cfg.BatchSize = 1000
	pl := newTestPipeline(t, cfg, store, WithParams(params), WithFaker(&stubFaker{}), WithSource(sample.NewSource(3)))

	_, err := pl.Run(context.Background())
	require.NoError(t, err)
	require.Greater(t, len(store.posts), 100000)

	visible := 0
	for _, p := range store.posts {
		if p.Visible {
			visible++
		}
	}
	assert.InDelta(t, 0.97, float64(visible)/float64(len(store.posts)), 0.005)

	// Share of users per category, one draw per posting user.
	userCat := map[int64]int64{}
	for _, p := range store.posts {
		userCat[p.PosterID] = p.CategoryID
	}
	counts := map[int64]int{}
	for _, c := range userCat {
		counts[c]++
	}
	for i, w := range params.CategoryWeights {
		assert.InDelta(t, w, float64(counts[int64(i+1)])/float64(len(userCat)), 0.02, "category %d", i+1)
	}
}

func TestRunRollsBackOnError(t *testing.T) {
	store := newMemStore()
	store.failUsers = errors.New("boom")
	pl := newTestPipeline(t, seedConfig(5), store, WithFaker(&stubFaker{}))

	_, err := pl.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.failUsers)
	assert.Empty(t, store.users)
	assert.Len(t, store.categories, 4)
}

func TestNewValidates(t *testing.T) {
	store := newMemStore()
	log := zap.NewNop()

	_, err := New(seedConfig(1), store, log, []string{"only"})
	assert.Error(t, err, "weights do not match categories")

	cfg := seedConfig(1)
	cfg.BatchSize = 0
	_, err = New(cfg, store, log, testCategories)
	assert.Error(t, err)

	bad := DefaultParams()
	bad.VisibleP = 2
	_, err = New(seedConfig(1), store, log, testCategories, WithParams(bad))
	assert.Error(t, err)

	bad = DefaultParams()
	bad.PostsR = 0
	pl, err := New(seedConfig(1), store, log, testCategories, WithParams(bad), WithProgress(progress.Nop()))
	require.NoError(t, err)
	_, err = pl.Run(context.Background())
	assert.Error(t, err)
}
