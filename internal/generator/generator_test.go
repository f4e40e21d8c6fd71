package generator

import (
	"math/rand"
	"testing"
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func TestChords(t *testing.T) {
	g := New(1)
	track := g.Chords("C - G", 2)
	assert.Equal(t, []string{"C", "-", "-", "-", "G", "-"}, track.Tokens)
	assert.Equal(t, game.ChordTrack, track.Name)
	assert.Equal(t, 2, track.Channel)

	track = g.Chords("C  G", 1)
	assert.Equal(t, []string{"C", "", "G"}, track.Tokens)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		track := g.Chords("C|F|G", 1)
		require.Len(t, track.Tokens, 1)
		seen[track.Tokens[0]] = true
	}
	assert.Equal(t, map[string]bool{"C": true, "F": true, "G": true}, seen)
}

func TestMelodyConstraints(t *testing.T) {
	m := game.Melody{NumNotes: 2, StartNotes: []int{0, 4}, MaxDistance: intp(5)}
	chordNotes, err := tonality.ChordNotes("Cmaj7add2")
	require.NoError(t, err)
	for seed := int64(0); seed < 100; seed++ {
		g := New(seed)
		track, err := g.Melody(m, g.Chords("Cmaj7add2", 4))
		require.NoError(t, err)
		require.Len(t, track.Tokens, 2)
		assert.Contains(t, []string{"c4", "e4"}, track.Tokens[0])

		first, err := tonality.NameToPitch(track.Tokens[0], true)
		require.NoError(t, err)
		second, err := tonality.NameToPitch(track.Tokens[1], true)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.Contains(t, chordNotes, second)
		d := int(first-second) % 12
		if d < 0 {
			d = -d
		}
		assert.LessOrEqual(t, d, 5)
	}
}

func TestMelodyFallsBackWhenNothingIsClose(t *testing.T) {
	m := game.Melody{NumNotes: 2, StartNotes: []int{0}, MaxDistance: intp(0)}
	g := New(3)
	track, err := g.Melody(m, g.Chords("C F#", 1))
	require.NoError(t, err)
	assert.Equal(t, "c4", track.Tokens[0])
	assert.Contains(t, []string{"f#4", "a#4", "c#5"}, track.Tokens[1])
}

func TestMelodyWithoutChord(t *testing.T) {
	g := New(1)
	_, err := g.Melody(game.Melody{NumNotes: 1}, g.Chords(" C", 1))
	assert.True(t, errors.Is(err, ErrNoChord))

	_, err = g.Melody(game.Melody{NumNotes: 1}, g.Chords("Q", 1))
	assert.True(t, errors.Is(err, tonality.ErrUnparsableChord))
}

func TestMetronome(t *testing.T) {
	g := New(1)
	track, err := g.Metronome(game.Track{Tokens: []string{"", "C", "-", "Am7", "-", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "c3", "c3", "a3", "a3", ""}, track.Tokens)
	assert.Equal(t, 3, track.Channel)
}

func TestGenerateFixed(t *testing.T) {
	def := game.Definition{
		Tempo:  80,
		Chords: "C - - - G - - -",
		Melody: game.Melody{Notes: "g g e - f f d -"},
	}
	tracks, err := New(1).Generate(def)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	assert.Equal(t, game.MelodyTrack, tracks[0].Name)
	assert.Equal(t, []string{"f", "f", "d", "-", "g", "g", "e", "-", "f", "f", "d", "-"}, tracks[0].Tokens)
	assert.Equal(t, []string{"G", "-", "-", "-", "C", "-", "-", "-", "G", "-", "-", "-"}, tracks[1].Tokens)
	assert.Equal(t, []string{"g3", "g3", "g3", "g3", "c3", "c3", "c3", "c3", "g3", "g3", "g3", "g3"}, tracks[2].Tokens)
}

func TestGenerateLeadInFromShortTracks(t *testing.T) {
	def := game.Definition{
		Tempo:  80,
		Chords: "Cmaj7add2",
		Melody: game.Melody{NumNotes: 2, StartNotes: []int{0, 4}, MaxDistance: intp(5)},
	}
	tracks, err := New(7).Generate(def)
	require.NoError(t, err)

	melody := tracks[0].Tokens
	require.Len(t, melody, 6)
	assert.Equal(t, melody[4:], melody[:2])
	assert.Equal(t, []string{"", ""}, melody[2:4])
	assert.Equal(t, []string{"Cmaj7add2", "-", "-", "-", "Cmaj7add2", "-", "-", "-"}, tracks[1].Tokens)
}

func TestGenerateIsDeterministic(t *testing.T) {
	def := game.Definition{
		Chords: "Cadd2 Am7|Dm7 Dm7 Gadd2",
		Melody: game.Melody{NumNotes: 16, StartNotes: []int{0}, MaxDistance: intp(5), NotesPerChord: 4},
	}
	a, err := New(42).Generate(def)
	require.NoError(t, err)
	b, err := New(42).Generate(def)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a[0].Tokens, 20)
}

func TestLeadIn(t *testing.T) {
	tracks := []game.Track{
		{Tokens: []string{"a", "b", "c", "d", "e", "f"}},
		{Tokens: []string{"x", "y"}},
		{},
	}
	LeadIn(tracks, 4)
	assert.Equal(t, []string{"c", "d", "e", "f", "a", "b", "c", "d", "e", "f"}, tracks[0].Tokens)
	assert.Equal(t, []string{"", "", "", "", "x", "y"}, tracks[1].Tokens)
	assert.Equal(t, []string{"", "", "", ""}, tracks[2].Tokens)

	tracks = []game.Track{{Tokens: []string{"a"}}}
	LeadIn(tracks, 0)
	assert.Equal(t, []string{"a"}, tracks[0].Tokens)
}

func TestTrackEvents(t *testing.T) {
	track := game.Track{Name: "test", Channel: 1, Volume: 1, Tokens: []string{"c4", "-", "", "Cmaj7"}}
	events, err := TrackEvents(track, 120)
	require.NoError(t, err)

	on := func(p tonality.Pitch, ms int) event.Event {
		return event.Event{Kind: event.NoteOn, Channel: 1, Pitch: p, Velocity: 127, Time: time.Duration(ms) * time.Millisecond}
	}
	off := func(p tonality.Pitch, ms int) event.Event {
		return event.Event{Kind: event.NoteOff, Channel: 1, Pitch: p, Time: time.Duration(ms) * time.Millisecond}
	}
	assert.Equal(t, []event.Event{
		on(60, 0),
		off(60, 1000),
		on(60, 1500), on(64, 1500), on(67, 1500), on(71, 1500),
		off(60, 2000), off(64, 2000), off(67, 2000), off(71, 2000),
	}, events)
}

func TestTrackEventsRetrigger(t *testing.T) {
	track := game.Track{Channel: 3, Volume: 0.7, Tokens: []string{"c3", "c3"}}
	events, err := TrackEvents(track, 80)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, event.NoteOff, events[1].Kind)
	assert.Equal(t, event.NoteOn, events[2].Kind)
	assert.Equal(t, 750*time.Millisecond, events[1].Time)
	assert.Equal(t, events[1].Time, events[2].Time)
	assert.Equal(t, uint8(89), events[0].Velocity)
}

func TestTrackEventsErrors(t *testing.T) {
	_, err := TrackEvents(game.Track{Channel: 1, Tokens: []string{"x"}}, 120)
	assert.True(t, errors.Is(err, tonality.ErrInvalidNoteName))
	_, err = TrackEvents(game.Track{Channel: 1, Tokens: []string{"Xm"}}, 120)
	assert.True(t, errors.Is(err, tonality.ErrUnparsableChord))
	_, err = TrackEvents(game.Track{Channel: 0, Tokens: []string{"c"}}, 120)
	assert.True(t, errors.Is(err, event.ErrInvalidChannel))
	_, err = TrackEvents(game.Track{Channel: 1}, 0)
	assert.True(t, errors.Is(err, event.ErrInvalidTempo))
}

func TestPickWithoutSource(t *testing.T) {
	g := &DefaultGenerator{}
	assert.Equal(t, 0, g.pick(1))
	g.Rand = rand.New(rand.NewSource(1))
	assert.Less(t, g.pick(3), 3)
}
