package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"
)

// FetchFunc performs one logical feed request.
type FetchFunc func(ctx context.Context, posterIDs []int64, limit int) error

type BenchConfig struct {
	Concurrency int
	Requests    int
	Limit       int
	// Subs is the number of poster ids per request.
	Subs int
	// Window > 0 adds a created_at cutoff of now-Window to each request.
	Window time.Duration
	Seed   uint64
}

// Summary aggregates per-request latencies.
type Summary struct {
	Requests int
	Errors   int
	Avg      time.Duration
	P95      time.Duration
	QPS      float64
	Total    time.Duration
}

// ErrNoSuccess is returned when every request failed.
var ErrNoSuccess = errors.New("no successful requests")

// Bench runs cfg.Requests fetches from cfg.Concurrency workers, each request
// subscribing to cfg.Subs poster ids drawn from posterIDs.
func Bench(ctx context.Context, cfg BenchConfig, posterIDs []int64, fetch FetchFunc) (Summary, error) {
	if len(posterIDs) == 0 {
		return Summary{}, fmt.Errorf("no posters to subscribe to")
	}
	if cfg.Concurrency <= 0 || cfg.Requests <= 0 || cfg.Subs <= 0 {
		return Summary{}, fmt.Errorf("concurrency, requests and subs must be positive")
	}

	// result is a per-request measurement for aggregation.
	type result struct {
		latency time.Duration
		err     error
	}

	// jobs is a bounded channel; each entry indicates "run one request".
	jobs := make(chan struct{}, cfg.Requests)
	results := make(chan result, cfg.Requests)
	for i := 0; i < cfg.Requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(cfg.Concurrency)

	startAll := time.Now()
	for w := 0; w < cfg.Concurrency; w++ {
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(w)))
		go func() {
			defer wg.Done()
			for range jobs {
				ids := make([]int64, cfg.Subs)
				for i := range ids {
					ids[i] = posterIDs[rng.IntN(len(posterIDs))]
				}
				callCtx := ctx
				if cfg.Window > 0 {
					callCtx = WithCutoff(ctx, time.Now().Add(-cfg.Window))
				}
				start := time.Now()
				err := fetch(callCtx, ids, cfg.Limit)
				results <- result{latency: time.Since(start), err: err}
			}
		}()
	}
	wg.Wait()
	close(results)
	total := time.Since(startAll)

	var latencies []time.Duration
	var errs int
	for r := range results {
		if r.err != nil {
			errs++
			continue
		}
		latencies = append(latencies, r.latency)
	}
	return Summarize(latencies, errs, total)
}

// Summarize computes average latency, p95 and QPS over successful requests.
func Summarize(latencies []time.Duration, errs int, total time.Duration) (Summary, error) {
	if len(latencies) == 0 {
		return Summary{Errors: errs, Total: total}, fmt.Errorf("%w (errors=%d)", ErrNoSuccess, errs)
	}
	sorted := append([]time.Duration(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}
	p95 := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	s := Summary{
		Requests: len(sorted),
		Errors:   errs,
		Avg:      sum / time.Duration(len(sorted)),
		P95:      sorted[max(p95, 0)],
		Total:    total,
	}
	if total > 0 {
		s.QPS = float64(len(sorted)) / total.Seconds()
	}
	return s, nil
}
