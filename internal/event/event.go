package event

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPitchRange = errors.New("pitch out of range")
	ErrInvalidVelocity   = errors.New("velocity out of range")
	ErrInvalidChannel    = errors.New("invalid channel")
	ErrInvalidTempo      = errors.New("invalid tempo")
)

type Kind uint8

const (
	NoteOn Kind = iota
	NoteOff
	TempoChange
	AllSoundOff
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case TempoChange:
		return "tempo"
	case AllSoundOff:
		return "all-sound-off"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is a timed message on a 1-indexed channel.
// Pitch and Velocity are set for note events, BPM for tempo changes.
type Event struct {
	Kind     Kind
	Channel  int
	Time     time.Duration
	Pitch    tonality.Pitch
	Velocity uint8
	BPM      float64
}

const MaxVelocity = 127

func NewNoteOn(channel int, pitch tonality.Pitch, velocity int, at time.Duration) (Event, error) {
	if err := validNote(channel, pitch); nil != err {
		return Event{}, err
	}
	if velocity < 0 || velocity > MaxVelocity {
		return Event{}, errors.Wrapf(ErrInvalidVelocity, "%d", velocity)
	}
	return Event{Kind: NoteOn, Channel: channel, Time: at, Pitch: pitch, Velocity: uint8(velocity)}, nil
}

func NewNoteOff(channel int, pitch tonality.Pitch, at time.Duration) (Event, error) {
	if err := validNote(channel, pitch); nil != err {
		return Event{}, err
	}
	return Event{Kind: NoteOff, Channel: channel, Time: at, Pitch: pitch}, nil
}

func NewTempoChange(bpm float64, at time.Duration) (Event, error) {
	if bpm <= 0 {
		return Event{}, errors.Wrapf(ErrInvalidTempo, "%v bpm", bpm)
	}
	return Event{Kind: TempoChange, Channel: 1, Time: at, BPM: bpm}, nil
}

func NewAllSoundOff(channel int, at time.Duration) (Event, error) {
	if channel < 1 {
		return Event{}, errors.Wrapf(ErrInvalidChannel, "%d", channel)
	}
	return Event{Kind: AllSoundOff, Channel: channel, Time: at}, nil
}

func validNote(channel int, pitch tonality.Pitch) error {
	if channel < 1 {
		return errors.Wrapf(ErrInvalidChannel, "%d", channel)
	}
	if !pitch.Valid() {
		return errors.Wrapf(ErrInvalidPitchRange, "%d", pitch)
	}
	return nil
}

func (e Event) String() string {
	switch e.Kind {
	case NoteOn:
		return fmt.Sprintf("%v ch%d %v %v vel %d", e.Time, e.Channel, e.Kind, e.Pitch, e.Velocity)
	case NoteOff:
		return fmt.Sprintf("%v ch%d %v %v", e.Time, e.Channel, e.Kind, e.Pitch)
	case TempoChange:
		return fmt.Sprintf("%v %v %v", e.Time, e.Kind, e.BPM)
	}
	return fmt.Sprintf("%v ch%d %v", e.Time, e.Channel, e.Kind)
}

// Flatten concatenates tracks in order
func Flatten(tracks ...[]Event) []Event {
	n := 0
	for _, t := range tracks {
		n += len(t)
	}
	out := make([]Event, 0, n)
	for _, t := range tracks {
		out = append(out, t...)
	}
	return out
}
