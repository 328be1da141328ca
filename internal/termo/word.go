// internal/termo/word.go
//
// Word is the boundary type for everything the solver compares.
// Construction goes through ParseWord, so Fit and the scoring engine only
// ever see five lowercase a–z letters and never have to validate again.

package termo

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// WordLen is the number of letters in every word of the puzzle.
const WordLen = 5

// alphabetSize is the number of letters in the fixed alphabet (a–z).
const alphabetSize = 26

var (
	ErrInvalidWord        = errors.New("invalid word")
	ErrInvalidPattern     = errors.New("invalid pattern")
	ErrEmptyCandidatePool = errors.New("no candidate word satisfies the history")
	ErrNoBranches         = errors.New("no branches to aggregate")
)

// Word is an immutable five-letter word. The zero value is not a valid word.
type Word [WordLen]byte

// ParseWord trims and lowercases s and checks it is exactly WordLen letters a–z.
func ParseWord(s string) (Word, error) {
	var w Word
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != WordLen {
		return w, fmt.Errorf("%w: %q must have %d letters", ErrInvalidWord, s, WordLen)
	}
	for i := 0; i < WordLen; i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return Word{}, fmt.Errorf("%w: %q contains %q outside a-z", ErrInvalidWord, s, c)
		}
		w[i] = c
	}
	return w, nil
}

// MustParseWord is ParseWord for literals; it panics on invalid input.
func MustParseWord(s string) Word {
	w, err := ParseWord(s)
	if err != nil {
		panic(err)
	}
	return w
}

// ParseWords parses every string in list, failing on the first invalid one.
func ParseWords(list ...string) ([]Word, error) {
	out := make([]Word, 0, len(list))
	for _, s := range list {
		w, err := ParseWord(s)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// Valid reports whether every letter of w is in a–z. Only the zero Word
// (or one built by hand) fails.
func (w Word) Valid() bool {
	for _, c := range w {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func (w Word) String() string { return string(w[:]) }

// Less orders words lexicographically.
func (w Word) Less(other Word) bool { return bytes.Compare(w[:], other[:]) < 0 }

// Count returns how many times letter c occurs in w.
func (w Word) Count(c byte) int {
	n := 0
	for _, x := range w {
		if x == c {
			n++
		}
	}
	return n
}

// MarshalText renders the word as its letters, so Word works as a JSON string.
func (w Word) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// UnmarshalText parses a JSON string through ParseWord.
func (w *Word) UnmarshalText(b []byte) error {
	parsed, err := ParseWord(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
