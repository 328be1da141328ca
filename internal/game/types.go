// internal/game/types.go
//
// Core type definitions for a played puzzle.
// Defines:
//   - State: coarse lifecycle of a game (playing/won/lost).
//   - Game: hidden word plus the history of rounds played against it.

package game

import (
	"time"

	"github.com/matheusvictorello/termo-solver/internal/termo"
)

// State is the lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Lexicon decides which guesses are accepted.
type Lexicon interface {
	Contains(w termo.Word) bool
}

// Game holds one puzzle session.
type Game struct {
	ID        string             // Unique game identifier (UUID).
	PlayerID  string             // Owner, empty for anonymous play.
	Answer    termo.Word         // The hidden word.
	Daily     string             // Date key for daily games, empty otherwise.
	Rows      int                // Maximum number of guesses (6).
	History   []termo.Constraint // Rounds played so far.
	CreatedAt time.Time
	Finished  bool
	Won       bool
}
