// internal/termo/pattern.go
//
// Status and Pattern types plus the base-3 codec.
//
// Text form (configuration, CLI, HTTP):
//   R = Right, P = Place, W = Wrong, one character per position.
//
// Codec:
//   Code() = Σ digit(status_i) · 3^i with Right=0, Place=1, Wrong=2, so the
//   leftmost position has weight 1 and the rightmost 81. Every pattern maps
//   to exactly one id in [0, NumPatterns).

package termo

import (
	"fmt"
	"strings"
)

// Status is the feedback for a single letter position.
type Status uint8

const (
	Right Status = iota // letter in the right position
	Place               // letter present elsewhere, within the duplicate budget
	Wrong               // letter contributes nothing at this position
)

// NumPatterns is the number of distinct patterns (3^WordLen).
const NumPatterns = 243

// Pattern is the feedback for one guess: one Status per position.
type Pattern [WordLen]Status

// Solved is the all-Right pattern.
var Solved = Pattern{Right, Right, Right, Right, Right}

func (s Status) String() string {
	switch s {
	case Right:
		return "R"
	case Place:
		return "P"
	case Wrong:
		return "W"
	}
	return "?"
}

// ParsePattern parses a five character R/P/W string (case-insensitive).
func ParsePattern(s string) (Pattern, error) {
	var p Pattern
	s = strings.TrimSpace(s)
	if len(s) != WordLen {
		return p, fmt.Errorf("%w: %q must have %d characters", ErrInvalidPattern, s, WordLen)
	}
	for i := 0; i < WordLen; i++ {
		switch s[i] {
		case 'R', 'r':
			p[i] = Right
		case 'P', 'p':
			p[i] = Place
		case 'W', 'w':
			p[i] = Wrong
		default:
			return Pattern{}, fmt.Errorf("%w: %q contains %q, want one of R, P, W", ErrInvalidPattern, s, s[i])
		}
	}
	return p, nil
}

func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(WordLen)
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Code returns the histogram bucket id of p, in [0, NumPatterns).
func (p Pattern) Code() int {
	code := 0
	for i := WordLen - 1; i >= 0; i-- {
		code = code*3 + int(p[i])
	}
	return code
}

// DecodePattern is the inverse of Pattern.Code. It panics when code is
// outside [0, NumPatterns), like an out-of-range index would.
func DecodePattern(code int) Pattern {
	if code < 0 || code >= NumPatterns {
		panic(fmt.Sprintf("termo: pattern code %d out of range", code))
	}
	var p Pattern
	for i := 0; i < WordLen; i++ {
		p[i] = Status(code % 3)
		code /= 3
	}
	return p
}

func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Pattern) UnmarshalText(b []byte) error {
	parsed, err := ParsePattern(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
