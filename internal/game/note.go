package game

import (
	"time"

	"git.lost.host/meutraa/eart/internal/tonality"
)

// Note is either an expected melody note or a note played by the performer
type Note struct {
	Index        int            // Position in its own sequence
	Pitch        tonality.Pitch // The pitch that should be or was played
	Time         time.Duration  // Offset from the start of the timeline
	Associations []Association
}

// Association pairs a note with a note of the other sequence
type Association struct {
	Index      int           // The associated note's Index
	PitchDelta int           // input - target, in semitones
	TimeDelta  time.Duration // input - target
	Scored     bool
}

func (n *Note) Scored() bool {
	for _, a := range n.Associations {
		if a.Scored {
			return true
		}
	}
	return false
}

// Associate records the pairing on both notes
func Associate(input, target *Note, scored bool) Association {
	a := Association{
		Index:      target.Index,
		PitchDelta: int(input.Pitch - target.Pitch),
		TimeDelta:  input.Time - target.Time,
		Scored:     scored,
	}
	input.Associations = append(input.Associations, a)
	b := a
	b.Index = input.Index
	target.Associations = append(target.Associations, b)
	return a
}

// Clone copies notes so that associations can be added without touching the originals
func Clone(notes []*Note) []*Note {
	out := make([]*Note, len(notes))
	for i, n := range notes {
		c := *n
		c.Associations = nil
		out[i] = &c
	}
	return out
}
