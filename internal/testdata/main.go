package testdata

import (
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/goccy/go-yaml"
)

// GetTimeline is a short melody with a note off and a note on sharing every timestamp after the first
func GetTimeline() []event.Event {
	on := func(p tonality.Pitch, ms int) event.Event {
		return event.Event{Kind: event.NoteOn, Channel: 1, Pitch: p, Velocity: 100, Time: time.Duration(ms) * time.Millisecond}
	}
	off := func(p tonality.Pitch, ms int) event.Event {
		return event.Event{Kind: event.NoteOff, Channel: 1, Pitch: p, Time: time.Duration(ms) * time.Millisecond}
	}
	return []event.Event{
		on(60, 0),
		on(62, 100),
		off(60, 100),
		on(64, 250),
		off(62, 250),
		off(64, 400),
	}
}

func GetDefinitions() ([]game.Definition, error) {
	var defs []game.Definition
	if err := yaml.Unmarshal([]byte(definitions), &defs); nil != err {
		return nil, err
	}
	return defs, nil
}

const definitions = `
- name: fixed
  tempo: 120
  chords: C - G -
  melody:
    notes: c d e -
- name: generated
  tempo: 120
  chords: Cmaj7
  melody:
    numNotes: 4
    startNotes: [0]
    maxDistance: 5
    notesPerChord: 4
`
