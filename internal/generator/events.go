package generator

import (
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
)

// TokenPitches resolves a token to the pitches it sounds.
// A sustain returns nil and false, a rest an empty set.
func TokenPitches(token string) ([]tonality.Pitch, bool, error) {
	switch {
	case token == game.Sustain:
		return nil, false, nil
	case token == game.Rest:
		return []tonality.Pitch{}, true, nil
	case strings.ToLower(token) == token:
		p, err := tonality.NameToPitch(token, true)
		if nil != err {
			return nil, false, err
		}
		return []tonality.Pitch{p}, true, nil
	}
	notes, err := tonality.ChordNotes(token)
	if nil != err {
		return nil, false, err
	}
	return notes, true, nil
}

// TrackEvents places token i at i beats and releases the previous notes before
// sounding the next ones. A rest is always appended so every note is released.
func TrackEvents(track game.Track, tempo float64) ([]event.Event, error) {
	if tempo <= 0 {
		return nil, errors.Wrapf(event.ErrInvalidTempo, "%v bpm", tempo)
	}
	beat := time.Duration(float64(time.Minute) / tempo)
	velocity := int(math.Round(track.Volume * event.MaxVelocity))

	tokens := append(append([]string{}, track.Tokens...), game.Rest)
	events := []event.Event{}
	var sounding []tonality.Pitch
	for i, token := range tokens {
		notes, changed, err := TokenPitches(token)
		if nil != err {
			return nil, errors.Wrapf(err, "%s token %d", track.Name, i)
		}
		if !changed {
			continue
		}
		at := time.Duration(i) * beat
		for _, p := range sounding {
			e, err := event.NewNoteOff(track.Channel, p, at)
			if nil != err {
				return nil, errors.Wrapf(err, "%s token %d", track.Name, i)
			}
			events = append(events, e)
		}
		for _, p := range notes {
			e, err := event.NewNoteOn(track.Channel, p, velocity, at)
			if nil != err {
				return nil, errors.Wrapf(err, "%s token %d", track.Name, i)
			}
			events = append(events, e)
		}
		sounding = notes
	}
	return events, nil
}
