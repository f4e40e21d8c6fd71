package exercise

import (
	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/generator"
	"git.lost.host/meutraa/eart/internal/score"
	"github.com/pkg/errors"
)

// Exercise is a definition rendered into tracks and the events they play
type Exercise struct {
	Definition game.Definition
	Tracks     []game.Track
	// Events per track, in the order of Tracks
	Events  [][]event.Event
	Targets []*game.Note
}

// Build generates the tracks of def and the events of every track.
// The first event list starts with the tempo of the exercise.
func Build(gen generator.Generator, def game.Definition) (*Exercise, error) {
	def = def.WithDefaults()
	tracks, err := gen.Generate(def)
	if nil != err {
		return nil, err
	}

	ex := &Exercise{Definition: def, Tracks: tracks}
	for i, track := range tracks {
		events, err := generator.TrackEvents(track, def.Tempo)
		if nil != err {
			return nil, errors.Wrapf(err, "level %q", def.Name)
		}
		if i == 0 {
			tempo, err := event.NewTempoChange(def.Tempo, 0)
			if nil != err {
				return nil, errors.Wrapf(err, "level %q", def.Name)
			}
			events = append([]event.Event{tempo}, events...)
		}
		if track.Name == game.MelodyTrack {
			ex.Targets = score.Targets(events)
		}
		ex.Events = append(ex.Events, events)
	}
	return ex, nil
}

// Melody returns the melody track, false when there is none
func (ex *Exercise) Melody() (game.Track, bool) {
	for _, t := range ex.Tracks {
		if t.Name == game.MelodyTrack {
			return t, true
		}
	}
	return game.Track{}, false
}

// Accompaniment is every event list except the melody, keeping the tempo
func (ex *Exercise) Accompaniment() [][]event.Event {
	out := [][]event.Event{}
	for i, t := range ex.Tracks {
		events := ex.Events[i]
		if t.Name == game.MelodyTrack {
			kept := []event.Event{}
			for _, e := range events {
				if e.Kind == event.TempoChange {
					kept = append(kept, e)
				}
			}
			events = kept
		}
		out = append(out, events)
	}
	return out
}
