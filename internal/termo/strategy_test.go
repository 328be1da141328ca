package termo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(t *testing.T, s string) []Constraint {
	t.Helper()
	h, err := ParseHistory(s)
	require.NoError(t, err)
	return h
}

func TestAggregateSumsBranches(t *testing.T) {
	dict := words(t, "carro", "morto", "sorte", "barco", "torno", "praga", "drama")
	solver := NewSolver(dict)
	branches := [][]Constraint{history(t, "tarso:WPPWW"), nil}

	want := Scores{}
	for _, b := range branches {
		for w, v := range Score(dict, solver.Candidates(b)) {
			want[w] += v
		}
	}
	ww, wv, _ := want.Best()

	rec, err := solver.Aggregate(branches)
	require.NoError(t, err)
	assert.Equal(t, ww, rec.Word)
	assert.InDelta(t, wv, rec.Score, 1e-12)
	assert.Equal(t, 2+len(dict), rec.Candidates)
}

func TestAggregateSameBranchTwice(t *testing.T) {
	solver := NewSolver(words(t, "carro", "morto", "sorte", "barco", "torno", "praga", "drama"))
	h := history(t, "tarso:WPPWW")
	rec, err := solver.Aggregate([][]Constraint{h, h})
	require.NoError(t, err)
	assert.Equal(t, "drama", rec.Word.String())
	assert.Equal(t, 2.0, rec.Score)
}

func TestAggregateMissingWordsCountZero(t *testing.T) {
	solver := NewSolver(words(t, "carro", "morto", "sorte", "barco", "torno", "praga", "drama"))
	// the second branch scores only sorte
	rec, err := solver.Aggregate([][]Constraint{history(t, "tarso:WPPWW"), history(t, "tarso:PWRPP")})
	require.NoError(t, err)
	assert.Equal(t, "sorte", rec.Word.String())
	assert.True(t, math.IsInf(rec.Score, 1))
}

func TestAggregateErrors(t *testing.T) {
	solver := NewSolver(words(t, toyDictionary...))
	_, err := solver.Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoBranches)

	_, err = solver.Aggregate([][]Constraint{nil, history(t, "tarso:WPPWW")})
	assert.ErrorIs(t, err, ErrEmptyCandidatePool)
}

func TestAggregateManyBranches(t *testing.T) {
	solver := NewSolver(words(t, "carro", "morto", "sorte", "barco", "torno", "praga", "drama"))
	solver.Workers = 2
	h := history(t, "tarso:WPPWW")
	branches := make([][]Constraint, 25)
	for i := range branches {
		branches[i] = h
	}
	rec, err := solver.Aggregate(branches)
	require.NoError(t, err)
	assert.Equal(t, "drama", rec.Word.String())
	assert.InDelta(t, 25.0, rec.Score, 1e-9)
	assert.Equal(t, 50, rec.Candidates)
}
