// Package sample holds the random distributions that shape the seeded data.
//
// Every sampler draws from a caller supplied rand.Source, so a whole run is
// reproducible from one seed.
package sample

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// NewSource returns a PCG source for seed. A zero seed picks a time-based one.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// NegativeBinomial counts failures before R successes with success
// probability P per trial. R may be fractional.
//
// It is drawn as a Gamma-Poisson mixture: lambda ~ Gamma(shape R, scale
// (1-P)/P), k ~ Poisson(lambda). This matches numpy's negative_binomial(n, p).
type NegativeBinomial struct {
	R, P float64
	Src  rand.Source
}

func NewNegativeBinomial(r, p float64, src rand.Source) (NegativeBinomial, error) {
	if r <= 0 {
		return NegativeBinomial{}, fmt.Errorf("negative binomial: r must be > 0, got %v", r)
	}
	if p <= 0 || p > 1 {
		return NegativeBinomial{}, fmt.Errorf("negative binomial: p must be in (0, 1], got %v", p)
	}
	return NegativeBinomial{R: r, P: p, Src: src}, nil
}

// Rand draws one count.
func (nb NegativeBinomial) Rand() int {
	if nb.P == 1 {
		return 0
	}
	// gonum's Gamma takes a rate, the inverse of the scale.
	lambda := distuv.Gamma{Alpha: nb.R, Beta: nb.P / (1 - nb.P), Src: nb.Src}.Rand()
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: nb.Src}.Rand())
}

// Mean is R(1-P)/P.
func (nb NegativeBinomial) Mean() float64 {
	return nb.R * (1 - nb.P) / nb.P
}

// Categorical picks one of a fixed set of values with fixed weights.
type Categorical[T any] struct {
	values []T
	dist   distuv.Categorical
}

// NewCategorical pairs values with weights. Weights need not sum to one.
func NewCategorical[T any](values []T, weights []float64, src rand.Source) (*Categorical[T], error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("categorical: no values")
	}
	if len(values) != len(weights) {
		return nil, fmt.Errorf("categorical: %d values but %d weights", len(values), len(weights))
	}
	var sum float64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("categorical: negative weight %v at %d", w, i)
		}
		sum += w
	}
	if sum == 0 {
		return nil, fmt.Errorf("categorical: weights sum to zero")
	}
	return &Categorical[T]{
		values: append([]T(nil), values...),
		dist:   distuv.NewCategorical(weights, src),
	}, nil
}

func (c *Categorical[T]) Rand() T {
	return c.values[int(c.dist.Rand())]
}

// Bernoulli reports true with probability P.
type Bernoulli struct {
	P   float64
	Src rand.Source
}

func (b Bernoulli) Rand() bool {
	return distuv.Bernoulli{P: b.P, Src: b.Src}.Rand() == 1
}

// Between returns a time uniformly drawn from [lo, hi).
func Between(src rand.Source, lo, hi time.Time) time.Time {
	span := hi.Sub(lo)
	if span <= 0 {
		return lo
	}
	return lo.Add(time.Duration(rand.New(src).Int64N(int64(span))))
}

// Distinct returns k distinct indices from [0, n), without replacement.
// k is capped at n.
func Distinct(k, n int, src rand.Source) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idxs := make([]int, k)
	sampleuv.WithoutReplacement(idxs, n, src)
	return idxs
}
