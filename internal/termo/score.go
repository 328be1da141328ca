// internal/termo/score.go
//
// Scoring engine: ranks guesses by the Shannon entropy of the partition they
// induce over the candidate pool.
//
// Notes:
//   - The histogram is a flat [NumPatterns]int indexed by Pattern.Code, so
//     Entropy allocates nothing per comparison.
//   - The universe is split into contiguous shards, one errgroup goroutine
//     each; every shard writes only its own slice of the result.

package termo

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Certain is the score of the sole remaining candidate: guessing it ends the game.
var Certain = math.Inf(1)

// cancelCheckEvery bounds how many guesses a shard scores between context checks.
const cancelCheckEvery = 64

// Scores maps each guess to its expected information gain in bits.
type Scores map[Word]float64

// Ranked is one entry of Scores.Top.
type Ranked struct {
	Word  Word    `json:"word"`
	Score float64 `json:"score"`
}

// Entropy returns the expected bits of information guess reveals about a
// hidden word drawn uniformly from pool. pool must not be empty.
func Entropy(guess Word, pool []Word) float64 {
	var hist [NumPatterns]int
	for _, h := range pool {
		hist[Fit(guess, h).Code()]++
	}
	n := float64(len(pool))
	var e float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		e += p * math.Log2(1/p)
	}
	return e
}

// Score scores every word of universe against pool using all CPUs.
func Score(universe, pool []Word) Scores {
	s, _ := ScoreContext(context.Background(), universe, pool, 0)
	return s
}

// ScoreContext is Score with cancellation and an explicit worker count
// (workers <= 0 means GOMAXPROCS).
//
// A pool of one word short-circuits to {word: Certain} whatever the universe
// holds; an empty pool yields empty Scores.
func ScoreContext(ctx context.Context, universe, pool []Word, workers int) (Scores, error) {
	switch len(pool) {
	case 0:
		return Scores{}, nil
	case 1:
		return Scores{pool[0]: Certain}, nil
	}
	if len(universe) == 0 {
		return Scores{}, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	shard := (len(universe) + workers - 1) / workers
	values := make([]float64, len(universe))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(universe); lo += shard {
		hi := min(lo+shard, len(universe))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				values[i] = Entropy(universe[i], pool)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make(Scores, len(universe))
	for i, w := range universe {
		scores[w] = values[i]
	}
	return scores, nil
}

// better reports whether (w, v) outranks (best, bestScore): higher score
// first, then the lexicographically smaller word.
func better(w Word, v float64, best Word, bestScore float64) bool {
	if v != bestScore {
		return v > bestScore
	}
	return w.Less(best)
}

// Best returns the highest scoring word. Ties go to the lexicographically
// smallest word so the result never depends on map iteration order.
func (s Scores) Best() (Word, float64, bool) {
	var best Word
	bestScore := math.Inf(-1)
	found := false
	for w, v := range s {
		if !found || better(w, v, best, bestScore) {
			best, bestScore, found = w, v, true
		}
	}
	return best, bestScore, found
}

// Top returns up to n entries ordered the same way Best chooses.
func (s Scores) Top(n int) []Ranked {
	out := make([]Ranked, 0, len(s))
	for w, v := range s {
		out = append(out, Ranked{Word: w, Score: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return better(out[i].Word, out[i].Score, out[j].Word, out[j].Score)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
