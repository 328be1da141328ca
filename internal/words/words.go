// internal/words/words.go
//
// Dictionary loading for the solver.
//
// Responsibilities:
//   - Read a line-oriented word list from a file, any io.Reader, or the
//     embedded default in assets/words.txt.
//   - Normalize (trim, lowercase), skip blank lines and # comments.
//   - Reject the whole list on the first malformed word, naming its line.
//   - Drop duplicates, keeping the first occurrence and the file order.
//
// Selection (Open):
//   - WORDS_FILE set  → load that file.
//   - otherwise       → embedded default list.
//
// A Dictionary is read-only once built and safe to share between goroutines.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/matheusvictorello/termo-solver/assets"
	"github.com/matheusvictorello/termo-solver/internal/termo"
)

// ErrEmpty is returned when a source holds no words at all.
var ErrEmpty = errors.New("words: dictionary is empty")

// Dictionary is an ordered, duplicate-free list of words.
type Dictionary struct {
	words []termo.Word
	index map[termo.Word]int
}

// New builds a Dictionary from already parsed words, dropping duplicates.
func New(list []termo.Word) *Dictionary {
	d := &Dictionary{
		words: make([]termo.Word, 0, len(list)),
		index: make(map[termo.Word]int, len(list)),
	}
	for _, w := range list {
		d.add(w)
	}
	return d
}

func (d *Dictionary) add(w termo.Word) bool {
	if _, ok := d.index[w]; ok {
		return false
	}
	d.index[w] = len(d.words)
	d.words = append(d.words, w)
	return true
}

// Load reads one word per line from r.
func Load(r io.Reader) (*Dictionary, error) {
	d := New(nil)
	sc := bufio.NewScanner(r)
	line, dups := 0, 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		w, err := termo.ParseWord(s)
		if err != nil {
			return nil, fmt.Errorf("words: line %d: %w", line, err)
		}
		if !d.add(w) {
			dups++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read: %w", err)
	}
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	if dups > 0 {
		log.Debug().Int("duplicates", dups).Msg("dropped duplicate words")
	}
	return d, nil
}

// LoadFile loads a dictionary from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default loads the embedded dictionary.
func Default() (*Dictionary, error) {
	f, err := assets.Words()
	if err != nil {
		return nil, fmt.Errorf("words: embedded list: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Open loads path, or the embedded dictionary when path is empty.
func Open(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Words returns the words in load order. Callers must not modify it.
func (d *Dictionary) Words() []termo.Word { return d.words }

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// Contains reports whether w is in the dictionary.
func (d *Dictionary) Contains(w termo.Word) bool {
	_, ok := d.index[w]
	return ok
}

// Index returns the position of w, or -1.
func (d *Dictionary) Index(w termo.Word) int {
	if i, ok := d.index[w]; ok {
		return i
	}
	return -1
}

// At returns the word at position i.
func (d *Dictionary) At(i int) termo.Word { return d.words[i] }
