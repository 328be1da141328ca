// Package bench measures the solver by letting it play every answer.
package bench

import (
	"context"
	"fmt"

	"github.com/matheusvictorello/termo-solver/internal/game"
	"github.com/matheusvictorello/termo-solver/internal/termo"
)

// Result summarizes a benchmark run.
type Result struct {
	Opening      termo.Word
	Games        int
	Wins         int
	Distribution map[int]int // guesses taken → games won with that many
	Lost         []termo.Word
}

// AvgGuesses is the mean number of guesses over won games.
func (r Result) AvgGuesses() float64 {
	if r.Wins == 0 {
		return 0
	}
	total := 0
	for n, c := range r.Distribution {
		total += n * c
	}
	return float64(total) / float64(r.Wins)
}

// Run plays one game per answer with s. The opening guess is solved once
// and reused. done, when non-nil, is called after every game.
func Run(ctx context.Context, s *termo.Solver, answers []termo.Word, done func()) (Result, error) {
	res := Result{Distribution: map[int]int{}}
	opening, err := s.SolveContext(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("opening: %w", err)
	}
	res.Opening = opening.Word

	for _, answer := range answers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		g := game.New(answer)
		if err := game.Autoplay(g, s, res.Opening); err != nil {
			return res, fmt.Errorf("answer %s: %w", answer, err)
		}
		res.Games++
		if g.Won {
			res.Wins++
			res.Distribution[len(g.History)]++
		} else {
			res.Lost = append(res.Lost, answer)
		}
		if done != nil {
			done()
		}
	}
	return res, nil
}
