package game

import "git.lost.host/meutraa/eart/internal/timing"

const (
	Rest    = ""
	Sustain = "-"
)

const (
	MelodyTrack    = "melody"
	ChordTrack     = "chords"
	MetronomeTrack = "metronome"
)

// Track is one token per beat, a token is a rest, a sustain, a note name or a chord symbol
type Track struct {
	Name    string
	Channel int
	Volume  float64
	Tokens  []string
}

type Melody struct {
	ShowNotes bool `yaml:"showNotes"`

	// Generated
	NumNotes      int   `yaml:"numNotes"`
	MaxDistance   *int  `yaml:"maxDistance"`
	StartNotes    []int `yaml:"startNotes"`
	NotesPerChord int   `yaml:"notesPerChord"`

	// Fixed, space separated note names
	Notes string `yaml:"notes"`
}

func (m Melody) Fixed() bool {
	return m.Notes != ""
}

type Definition struct {
	Name      string               `yaml:"name"`
	Tempo     float64              `yaml:"tempo"`
	Signature timing.TimeSignature `yaml:"signature"`
	Chords    string               `yaml:"chords"`
	Melody    Melody               `yaml:"melody"`
}

// WithDefaults fills in 120 bpm and 4/4 where unset
func (d Definition) WithDefaults() Definition {
	if d.Tempo <= 0 {
		d.Tempo = timing.DefaultBPM
	}
	if d.Signature.Upper <= 0 || d.Signature.Lower <= 0 {
		d.Signature = timing.CommonTime
	}
	return d
}

func (d Definition) Grid() timing.Grid {
	d = d.WithDefaults()
	return timing.Grid{BPM: d.Tempo, Signature: d.Signature}
}
