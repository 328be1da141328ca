// internal/termo/solver.go
//
// Constraint filter and solver.
// Responsibilities:
//   - Parse history given as text ("tarso:WPPWW,morto:RRWWW").
//   - Narrow the dictionary to the words consistent with every constraint.
//   - Score the whole dictionary against that pool and pick the best guess.
//
// Notes:
//   - The dictionary is shared and never modified; each narrowing step
//     builds a fresh membership set over dictionary indices.
//   - Candidate pools come out in dictionary order.

package termo

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Constraint is one played round: the word guessed and the feedback shown.
type Constraint struct {
	Guess   Word    `json:"guess"`
	Pattern Pattern `json:"pattern"`
}

// ParseConstraint parses a guess and its R/P/W feedback.
func ParseConstraint(guess, pattern string) (Constraint, error) {
	w, err := ParseWord(guess)
	if err != nil {
		return Constraint{}, err
	}
	p, err := ParsePattern(pattern)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Guess: w, Pattern: p}, nil
}

// ParseHistory parses comma separated guess:PATTERN pairs. An empty string
// is an empty history.
func ParseHistory(s string) ([]Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	history := make([]Constraint, 0, len(parts))
	for i, part := range parts {
		guess, pattern, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: round %d %q is not guess:PATTERN", ErrInvalidPattern, i+1, part)
		}
		c, err := ParseConstraint(guess, pattern)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		history = append(history, c)
	}
	return history, nil
}

// ValidateHistory checks every guess in history is a real word. Histories
// decoded field by field (JSON) can carry zero Words that ParseWord never saw.
func ValidateHistory(history []Constraint) error {
	for i, c := range history {
		if !c.Guess.Valid() {
			return fmt.Errorf("%w: round %d has no guess", ErrInvalidWord, i+1)
		}
	}
	return nil
}

// UnmarshalJSON decodes {"guess":..., "pattern":...}. Both fields are
// required; a missing or null pattern would otherwise read as all Right.
func (c *Constraint) UnmarshalJSON(b []byte) error {
	var raw struct {
		Guess   *Word    `json:"guess"`
		Pattern *Pattern `json:"pattern"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Guess == nil {
		return fmt.Errorf("%w: missing guess", ErrInvalidWord)
	}
	if raw.Pattern == nil {
		return fmt.Errorf("%w: missing pattern", ErrInvalidPattern)
	}
	c.Guess, c.Pattern = *raw.Guess, *raw.Pattern
	return nil
}

func (c Constraint) String() string { return c.Guess.String() + ":" + c.Pattern.String() }

// Admits reports whether hidden would have produced the observed feedback.
func (c Constraint) Admits(hidden Word) bool { return Fit(c.Guess, hidden) == c.Pattern }

// Filter returns a new slice with the words of pool that c admits.
func Filter(pool []Word, c Constraint) []Word {
	out := make([]Word, 0, len(pool))
	for _, h := range pool {
		if c.Admits(h) {
			out = append(out, h)
		}
	}
	return out
}

// Recommendation is the solver's answer for one history.
type Recommendation struct {
	Word       Word    `json:"word"`
	Score      float64 `json:"score"`
	Candidates int     `json:"candidates"`
}

// Solver recommends guesses over a fixed dictionary.
type Solver struct {
	dict []Word

	// Workers caps the scoring goroutines; zero means GOMAXPROCS.
	Workers int
}

// NewSolver returns a solver over dict. dict is shared, not copied, and must
// not be modified afterwards.
func NewSolver(dict []Word) *Solver {
	return &Solver{dict: dict}
}

// parallelism is Workers, or GOMAXPROCS when Workers is not set.
func (s *Solver) parallelism() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Dictionary returns the solver's word list.
func (s *Solver) Dictionary() []Word { return s.dict }

// Narrow returns the dictionary indices of the words consistent with history.
func (s *Solver) Narrow(history []Constraint) *bitset.BitSet {
	n := uint(len(s.dict))
	set := bitset.New(n)
	set.FlipRange(0, n)
	for _, c := range history {
		if set.None() {
			break
		}
		next := bitset.New(n)
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			if c.Admits(s.dict[i]) {
				next.Set(i)
			}
		}
		set = next
	}
	return set
}

// Candidates returns the words consistent with history, in dictionary order.
func (s *Solver) Candidates(history []Constraint) []Word {
	set := s.Narrow(history)
	pool := make([]Word, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		pool = append(pool, s.dict[i])
	}
	return pool
}

// Solve recommends the next guess for history.
func (s *Solver) Solve(history []Constraint) (Recommendation, error) {
	return s.SolveContext(context.Background(), history)
}

// SolveContext is Solve with cancellation of the scoring pass.
func (s *Solver) SolveContext(ctx context.Context, history []Constraint) (Recommendation, error) {
	scores, pool, err := s.scoreHistory(ctx, history)
	if err != nil {
		return Recommendation{}, err
	}
	w, v, _ := scores.Best()
	return Recommendation{Word: w, Score: v, Candidates: pool}, nil
}

// Rank is SolveContext that also returns the n best guesses, best first.
func (s *Solver) Rank(ctx context.Context, history []Constraint, n int) (Recommendation, []Ranked, error) {
	scores, pool, err := s.scoreHistory(ctx, history)
	if err != nil {
		return Recommendation{}, nil, err
	}
	w, v, _ := scores.Best()
	return Recommendation{Word: w, Score: v, Candidates: pool}, scores.Top(n), nil
}

func (s *Solver) scoreHistory(ctx context.Context, history []Constraint) (Scores, int, error) {
	pool := s.Candidates(history)
	if len(pool) == 0 {
		return nil, 0, ErrEmptyCandidatePool
	}
	scores, err := ScoreContext(ctx, s.dict, pool, s.parallelism())
	if err != nil {
		return nil, 0, err
	}
	return scores, len(pool), nil
}
