package termo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Aggregate scores every branch (an alternative history) on its own and
// recommends the guess with the highest summed score. A word missing from a
// branch's scores contributes zero for that branch. Candidates is the total
// pool size over all branches.
func (s *Solver) Aggregate(branches [][]Constraint) (Recommendation, error) {
	return s.AggregateContext(context.Background(), branches)
}

// AggregateContext is Aggregate with cancellation. Branches are scored
// concurrently, at most parallelism() at a time.
func (s *Solver) AggregateContext(ctx context.Context, branches [][]Constraint) (Recommendation, error) {
	if len(branches) == 0 {
		return Recommendation{}, ErrNoBranches
	}

	perBranch := make([]Scores, len(branches))
	pools := make([]int, len(branches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism())
	for i, history := range branches {
		g.Go(func() error {
			scores, pool, err := s.scoreHistory(ctx, history)
			if err != nil {
				return fmt.Errorf("branch %d: %w", i, err)
			}
			perBranch[i], pools[i] = scores, pool
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Recommendation{}, err
	}

	total := Scores{}
	candidates := 0
	for i, scores := range perBranch {
		for w, v := range scores {
			total[w] += v
		}
		candidates += pools[i]
	}
	w, v, _ := total.Best()
	return Recommendation{Word: w, Score: v, Candidates: candidates}, nil
}
