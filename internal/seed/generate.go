package seed

import (
	"context"
	"fmt"
	"time"

	"socialseed/internal/model"
	"socialseed/internal/sample"
)

// generator holds the samplers for one run.
type generator struct {
	pl         *Pipeline
	postsDist  sample.NegativeBinomial
	likesDist  sample.NegativeBinomial
	categories *sample.Categorical[int64]
	visible    sample.Bernoulli
	from, to   time.Time
}

// usersAndPosts inserts NumUsers users in chunks of BatchSize and builds the
// posts of each one as soon as its id is known. Posts are returned, not
// written.
func (g *generator) usersAndPosts(ctx context.Context, w Writer) ([]int64, []model.Post, error) {
	total := g.pl.cfg.NumUsers
	userIDs := make([]int64, 0, total)
	var posts []model.Post

	prog := g.pl.progress("users", total)
	defer prog.Finish()

	chunk := make([]model.User, 0, g.pl.cfg.BatchSize)
	for done := 0; done < total; {
		chunk = chunk[:0]
		for len(chunk) < cap(chunk) && done+len(chunk) < total {
			p := g.pl.faker.Profile()
			chunk = append(chunk, model.User{Username: p.Username, FullName: p.FullName, Birthday: p.Birthday})
		}

		ids, err := w.InsertUsers(ctx, chunk)
		if err != nil {
			return nil, nil, fmt.Errorf("insert users %d..%d: %w", done, done+len(chunk), err)
		}
		if len(ids) != len(chunk) {
			return nil, nil, fmt.Errorf("insert users: got %d ids for %d rows", len(ids), len(chunk))
		}

		for _, id := range ids {
			posts = g.appendPosts(posts, id)
			prog.Add(1)
		}
		userIDs = append(userIDs, ids...)
		done += len(chunk)
	}
	return userIDs, posts, nil
}

// appendPosts samples how many posts posterID writes and in which category.
func (g *generator) appendPosts(posts []model.Post, posterID int64) []model.Post {
	n := g.postsDist.Rand()
	if n == 0 {
		return posts
	}
	category := g.categories.Rand()
	for i := 0; i < n; i++ {
		posts = append(posts, model.Post{
			Title:      g.pl.faker.Sentence(),
			Content:    g.pl.faker.Text(),
			CreatedAt:  sample.Between(g.pl.src, g.from, g.to),
			Visible:    g.visible.Rand(),
			PosterID:   posterID,
			CategoryID: category,
		})
	}
	return posts
}

// likes gives every user a sampled number of likes on distinct posts.
// The count is capped at totalPosts and at the number of known post ids.
func (g *generator) likes(userIDs, postIDs []int64, totalPosts int) []model.Like {
	var likes []model.Like

	prog := g.pl.progress("likes", len(userIDs))
	defer prog.Finish()

	for _, userID := range userIDs {
		n := min(g.likesDist.Rand(), totalPosts, len(postIDs))
		for _, idx := range sample.Distinct(n, len(postIDs), g.pl.src) {
			likes = append(likes, model.Like{
				UserID:    userID,
				PostID:    postIDs[idx],
				CreatedAt: sample.Between(g.pl.src, g.from, g.to),
			})
		}
		prog.Add(1)
	}
	return likes
}
