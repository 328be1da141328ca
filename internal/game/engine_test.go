package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvictorello/termo-solver/internal/termo"
	"github.com/matheusvictorello/termo-solver/internal/words"
)

func dictionary(t *testing.T) *words.Dictionary {
	t.Helper()
	list, err := termo.ParseWords("carro", "morto", "sorte", "barco", "torno", "praga", "drama", "tarso")
	require.NoError(t, err)
	return words.New(list)
}

func TestApplyGuess(t *testing.T) {
	dict := dictionary(t)
	g := New(termo.MustParseWord("carro"))
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, StatePlaying, g.State())

	p, state, err := g.ApplyGuess("barco", dict)
	require.NoError(t, err)
	assert.Equal(t, "WRRPR", p.String())
	assert.Equal(t, StatePlaying, state)

	_, _, err = g.ApplyGuess("xyzzy", dict)
	assert.ErrorIs(t, err, ErrNotInList)
	_, _, err = g.ApplyGuess("carr", dict)
	assert.ErrorIs(t, err, termo.ErrInvalidWord)
	assert.Len(t, g.History, 1)

	p, state, err = g.ApplyGuess("CARRO", dict)
	require.NoError(t, err)
	assert.Equal(t, termo.Solved, p)
	assert.Equal(t, StateWon, state)

	_, _, err = g.ApplyGuess("morto", dict)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestApplyGuessLoses(t *testing.T) {
	dict := dictionary(t)
	g := New(termo.MustParseWord("carro"))
	var state State
	for i := 0; i < defaultRows; i++ {
		_, s, err := g.ApplyGuess("morto", dict)
		require.NoError(t, err)
		state = s
	}
	assert.Equal(t, StateLost, state)
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}

func TestRoundsIsACopy(t *testing.T) {
	g := New(termo.MustParseWord("carro"))
	_, _, err := g.ApplyGuess("morto", nil)
	require.NoError(t, err)
	r := g.Rounds()
	r[0].Guess = termo.MustParseWord("sorte")
	assert.Equal(t, "morto", g.History[0].Guess.String())
}

func TestAutoplay(t *testing.T) {
	dict := dictionary(t)
	s := termo.NewSolver(dict.Words())
	for _, answer := range dict.Words() {
		g := New(answer)
		// each informative guess shrinks the pool by at least one word
		g.Rows = dict.Len() + 1
		require.NoError(t, Autoplay(g, s, termo.Word{}))
		assert.True(t, g.Won, answer.String())
		// every recommendation stays consistent with the feedback so far
		for i, c := range g.History {
			assert.Equal(t, termo.Fit(c.Guess, answer), c.Pattern, "%s round %d", answer, i)
		}
	}
}
