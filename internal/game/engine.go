// internal/game/engine.go
//
// Game engine for a single puzzle session.
// Responsibilities:
//   - Create games with a fixed number of rows.
//   - Validate and apply guesses (word format, dictionary membership).
//   - Score guesses with termo.Fit and keep the resulting constraints,
//     which are exactly the history the solver consumes.
//   - Track state transitions: playing → won/lost.

package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matheusvictorello/termo-solver/internal/termo"
)

const defaultRows = 6

var (
	ErrFinished  = errors.New("game finished")
	ErrNotInList = errors.New("not in word list")
)

// New constructs a game around answer.
func New(answer termo.Word) *Game {
	return &Game{
		ID:        uuid.NewString(),
		Answer:    answer,
		Rows:      defaultRows,
		CreatedAt: time.Now().UTC(),
	}
}

// ApplyGuess validates guess against lex, scores it, and records the round.
// It returns the feedback and the resulting state.
func (g *Game) ApplyGuess(guess string, lex Lexicon) (termo.Pattern, State, error) {
	if g.Finished {
		return termo.Pattern{}, g.State(), ErrFinished
	}
	w, err := termo.ParseWord(guess)
	if err != nil {
		return termo.Pattern{}, g.State(), err
	}
	if lex != nil && !lex.Contains(w) {
		return termo.Pattern{}, g.State(), fmt.Errorf("%w: %s", ErrNotInList, w)
	}

	p := termo.Fit(w, g.Answer)
	g.History = append(g.History, termo.Constraint{Guess: w, Pattern: p})

	if p == termo.Solved {
		g.Finished, g.Won = true, true
	} else if len(g.History) >= g.Rows {
		g.Finished = true
	}
	return p, g.State(), nil
}

// State reports the current lifecycle state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Rounds returns a copy of the history, safe to hand to the solver.
func (g *Game) Rounds() []termo.Constraint {
	return append([]termo.Constraint(nil), g.History...)
}

// Autoplay plays g to the end, always guessing what s recommends. The
// first guess is opening when it is non-zero, which saves scoring the whole
// dictionary against itself on every game.
func Autoplay(g *Game, s *termo.Solver, opening termo.Word) error {
	for !g.Finished {
		var guess termo.Word
		if len(g.History) == 0 && opening != (termo.Word{}) {
			guess = opening
		} else {
			rec, err := s.Solve(g.Rounds())
			if err != nil {
				return err
			}
			guess = rec.Word
		}
		if _, _, err := g.ApplyGuess(guess.String(), nil); err != nil {
			return err
		}
	}
	return nil
}
