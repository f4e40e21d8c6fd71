package tonality

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pitch is a MIDI style note number, 60 is c4
type Pitch int

const (
	ReferencePitch  Pitch = 60
	ReferenceOctave       = 4

	MinPitch Pitch = 0
	MaxPitch Pitch = 127
)

var ErrInvalidNoteName = errors.New("invalid note name")

func (p Pitch) Valid() bool {
	return p >= MinPitch && p <= MaxPitch
}

func (p Pitch) String() string {
	return PitchToNames(p, true)[0]
}

// Class returns the pitch class (0 = c) and the octave number of p
func (p Pitch) Class() (int, int) {
	d := int(p - ReferencePitch)
	return mod(d, 12), floorDiv(d, 12) + ReferenceOctave
}

type noteTable struct {
	letters   map[byte]int
	spellings [12][]string
}

// Built once, never written to afterwards
var names = newNoteTable()

func newNoteTable() *noteTable {
	t := &noteTable{
		letters: map[byte]int{
			'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
			'h': 11, // German b
		},
	}
	for i, s := range []string{"c", "c# db", "d", "d# eb", "e", "f", "f# gb", "g", "g# ab", "a", "a# bb", "b"} {
		t.spellings[i] = strings.Fields(s)
	}
	return t
}

// NameToPitch parses a note name such as "c", "F#", "bb3", "c4#" or "c-1".
// Without applyOctave any octave in the name is ignored and octave 4 is used.
func NameToPitch(name string, applyOctave bool) (Pitch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.Wrap(ErrInvalidNoteName, "empty")
	}

	semitone, ok := names.letters[toLower(name[0])]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidNoteName, "%q: unknown letter", name)
	}

	accidental, octave := 0, ReferenceOctave
	seenAccidental, seenOctave := false, false
	rest := name[1:]
	for len(rest) > 0 {
		switch c := rest[0]; {
		case (c == '#' || c == 'b') && !seenAccidental:
			seenAccidental = true
			if c == '#' {
				accidental = 1
			} else {
				accidental = -1
			}
			rest = rest[1:]
		case (c == '-' || isDigit(c)) && !seenOctave:
			n := 1
			if c == '-' {
				n = 2
			}
			if len(rest) < n || !isDigit(rest[n-1]) {
				return 0, errors.Wrapf(ErrInvalidNoteName, "%q: bad octave", name)
			}
			o, err := strconv.Atoi(rest[:n])
			if nil != err {
				return 0, errors.Wrapf(ErrInvalidNoteName, "%q: %v", name, err)
			}
			seenOctave = true
			octave = o
			rest = rest[n:]
		default:
			return 0, errors.Wrapf(ErrInvalidNoteName, "%q: unexpected %q", name, rest)
		}
	}

	pitch := ReferencePitch + Pitch(semitone+accidental)
	if applyOctave {
		pitch += Pitch((octave - ReferenceOctave) * 12)
	}
	return pitch, nil
}

// PitchToNames returns the spellings of p, sharp first for black keys
func PitchToNames(p Pitch, includeOctave bool) []string {
	class, octave := p.Class()
	spellings := names.spellings[class]
	out := make([]string, len(spellings))
	for i, s := range spellings {
		if includeOctave {
			s += strconv.Itoa(octave)
		}
		out[i] = s
	}
	return out
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
