package tonality

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnparsableChord = errors.New("unparsable chord")

// Chord is a parsed chord symbol such as "Cmaj7add2" or "F#m7"
type Chord struct {
	Root       string // letter plus optional accidental, e.g. "F#"
	Minor      bool
	Augmented  bool
	Diminished bool
	Major      bool // "maj", only affects a seventh
	Sus        int  // 0, 2 or 4, a bare "sus" keeps the third
	Add        int  // 0 when absent
	Extension  int  // 0 when absent
}

// ParseChord reads `Root[#|b][m|+][maj|dim][N][sus2|sus4|sus][addN]`.
// The root must be an uppercase letter and nothing may follow the symbol.
func ParseChord(symbol string) (Chord, error) {
	var c Chord
	s := strings.TrimSpace(symbol)
	if s == "" || s[0] < 'A' || s[0] > 'H' {
		return c, errors.Wrapf(ErrUnparsableChord, "%q: missing root", symbol)
	}
	root := s[:1]
	s = s[1:]
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "b") {
		root += s[:1]
		s = s[1:]
	}
	c.Root = root

	switch {
	case strings.HasPrefix(s, "maj"):
	case strings.HasPrefix(s, "m"):
		c.Minor = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		c.Augmented = true
		s = s[1:]
	}

	switch {
	case strings.HasPrefix(s, "maj"):
		c.Major = true
		s = s[3:]
	case strings.HasPrefix(s, "dim"):
		c.Diminished = true
		s = s[3:]
	}

	var n int
	n, s = leadingNumber(s)
	c.Extension = n

	switch {
	case strings.HasPrefix(s, "sus2"):
		c.Sus, s = 2, s[4:]
	case strings.HasPrefix(s, "sus4"):
		c.Sus, s = 4, s[4:]
	case strings.HasPrefix(s, "sus"):
		s = s[3:]
	}

	if strings.HasPrefix(s, "add") {
		n, s = leadingNumber(s[3:])
		if n == 0 {
			return c, errors.Wrapf(ErrUnparsableChord, "%q: add without interval", symbol)
		}
		c.Add = n
	}

	if s != "" {
		return c, errors.Wrapf(ErrUnparsableChord, "%q: trailing %q", symbol, s)
	}
	return c, nil
}

// Offsets in semitones from the root, in the order the chord is built
func (c Chord) Offsets() []int {
	offsets := []int{0, 4, 7}
	if c.Minor {
		offsets[1]--
	}
	if c.Augmented {
		offsets[2]++
	}
	if c.Diminished {
		offsets[1]--
		offsets[2]--
	}
	switch c.Sus {
	case 4:
		offsets[1] = 5
	case 2:
		offsets[1] = 2
	}
	if c.Add != 0 {
		offsets = append(offsets, c.Add)
	}
	if c.Extension >= 7 {
		seventh := 10
		if c.Major {
			seventh++
		}
		offsets = append(offsets, seventh)
	}
	if c.Extension >= 9 {
		offsets = append(offsets, 14)
	}
	if c.Extension >= 11 {
		offsets = append(offsets, 17)
	}
	return offsets
}

// ChordOffsets returns the offsets of symbol and the name of its root
func ChordOffsets(symbol string) ([]int, string, error) {
	c, err := ParseChord(symbol)
	if nil != err {
		return nil, "", err
	}
	return c.Offsets(), c.Root, nil
}

// ChordNotes returns the pitches of symbol with the root in octave 4
func ChordNotes(symbol string) ([]Pitch, error) {
	offsets, root, err := ChordOffsets(symbol)
	if nil != err {
		return nil, err
	}
	r, err := NameToPitch(root, false)
	if nil != err {
		return nil, errors.Wrapf(ErrUnparsableChord, "%q: %v", symbol, err)
	}
	notes := make([]Pitch, len(offsets))
	for i, o := range offsets {
		notes[i] = r + Pitch(o)
	}
	return notes, nil
}

func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return 0, s
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:]
}
