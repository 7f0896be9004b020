package seed

import "fmt"

// Params fixes the statistical shape of the generated data.
type Params struct {
	// Posts per user ~ NegativeBinomial(PostsR, PostsP).
	PostsR, PostsP float64
	// Likes per user ~ NegativeBinomial(LikesR, LikesP), capped at the
	// number of posts.
	LikesR, LikesP float64
	// CategoryWeights line up with the category list; each user files all
	// of their posts under one sampled category.
	CategoryWeights []float64
	// VisibleP is the chance a post is visible.
	VisibleP float64
	// HistoryYears bounds post and like timestamps to [now-HistoryYears, now].
	HistoryYears int
}

// DefaultParams: most users post rarely, a few post a lot.
func DefaultParams() Params {
	return Params{
		PostsR:          0.04,
		PostsP:          0.01,
		LikesR:          0.5,
		LikesP:          0.001,
		CategoryWeights: []float64{0.1, 0.3, 0.1, 0.5},
		VisibleP:        0.97,
		HistoryYears:    5,
	}
}

func (p Params) validate(numCategories int) error {
	if len(p.CategoryWeights) != numCategories {
		return fmt.Errorf("%d category weights for %d categories", len(p.CategoryWeights), numCategories)
	}
	if p.VisibleP < 0 || p.VisibleP > 1 {
		return fmt.Errorf("visible probability %v out of [0, 1]", p.VisibleP)
	}
	if p.HistoryYears <= 0 {
		return fmt.Errorf("history must be at least one year, got %d", p.HistoryYears)
	}
	return nil
}
