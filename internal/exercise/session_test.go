package exercise

import (
	"context"
	"sync"
	"testing"
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/generator"
	"git.lost.host/meutraa/eart/internal/input"
	"git.lost.host/meutraa/eart/internal/score"
	"git.lost.host/meutraa/eart/internal/sequencer"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
	silent int
}

func (r *recorder) Dispatch(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) AllSoundOff() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.silent++
}

func (r *recorder) channel(ch int) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []event.Event{}
	for _, e := range r.events {
		if e.Channel == ch {
			out = append(out, e)
		}
	}
	return out
}

var level = game.Definition{
	Name:   "test",
	Tempo:  120,
	Chords: "C - -",
	Melody: game.Melody{Notes: "c d e"},
}

type fixture struct {
	session *Session
	clock   *sequencer.ManualClock
	out     *recorder
	inputs  *input.Dispatcher

	mu   sync.Mutex
	hits []score.Hit
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		clock:  sequencer.NewManualClock(time.Unix(0, 0)),
		out:    &recorder{},
		inputs: &input.Dispatcher{All: 4},
	}
	gen := generator.New(1)
	gen.LeadInBeats = 0
	f.session = New(f.out, f.inputs, gen,
		WithClock(f.clock),
		WithOnHit(func(h score.Hit) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.hits = append(f.hits, h)
		}),
	)
	_, err := f.session.Prepare(level)
	require.NoError(t, err)
	return f
}

type outcome struct {
	res       score.Result
	completed bool
	err       error
}

func (f *fixture) start(listenFirst bool) <-chan outcome {
	out := make(chan outcome, 1)
	go func() {
		res, completed, err := f.session.Start(context.Background(), listenFirst)
		out <- outcome{res, completed, err}
	}()
	f.clock.BlockUntil(1)
	return out
}

func (f *fixture) advance(d time.Duration) {
	for i := time.Duration(0); i < d; i += sequencer.DefaultQuantum {
		f.clock.Advance(sequencer.DefaultQuantum)
	}
}

func (f *fixture) finish(res <-chan outcome) outcome {
	for {
		select {
		case r := <-res:
			return r
		default:
			f.clock.Advance(sequencer.DefaultQuantum)
		}
	}
}

func (f *fixture) play(p int) {
	e, _ := event.NewNoteOn(1, tonality.Pitch(p), 100, 0)
	f.inputs.Publish(e)
}

func TestBuild(t *testing.T) {
	gen := generator.New(1)
	gen.LeadInBeats = 0
	ex, err := Build(gen, level)
	require.NoError(t, err)

	require.Len(t, ex.Tracks, 3)
	require.Len(t, ex.Events, 3)
	assert.Equal(t, event.TempoChange, ex.Events[0][0].Kind)
	assert.Equal(t, 120.0, ex.Events[0][0].BPM)

	require.Len(t, ex.Targets, 3)
	for i, p := range []int{60, 62, 64} {
		assert.Equal(t, i, ex.Targets[i].Index)
		assert.EqualValues(t, p, ex.Targets[i].Pitch)
		assert.Equal(t, time.Duration(i)*500*time.Millisecond, ex.Targets[i].Time)
	}

	melody, ok := ex.Melody()
	require.True(t, ok)
	assert.Equal(t, []string{"c", "d", "e"}, melody.Tokens)

	accompaniment := ex.Accompaniment()
	require.Len(t, accompaniment, 3)
	require.Len(t, accompaniment[0], 1)
	assert.Equal(t, event.TempoChange, accompaniment[0][0].Kind)
	assert.Equal(t, ex.Events[1], accompaniment[1])
}

func TestStartUnprepared(t *testing.T) {
	s := New(&recorder{}, &input.Dispatcher{}, generator.New(1))
	_, _, err := s.Start(context.Background(), false)
	assert.True(t, errors.Is(err, ErrNotPrepared))
}

func TestPlayAlong(t *testing.T) {
	f := newFixture(t)
	res := f.start(false)

	f.advance(505 * time.Millisecond)
	f.play(62)
	r := f.finish(res)

	require.NoError(t, r.err)
	assert.True(t, r.completed)
	assert.Equal(t, 100, r.res.Score)
	require.Len(t, r.res.Inputs, 1)
	assert.Equal(t, 1, r.res.Stats.Hits)

	require.Len(t, f.hits, 1)
	assert.EqualValues(t, 62, f.hits[0].Target.Pitch)

	echo := f.out.channel(4)
	require.Len(t, echo, 1)
	assert.EqualValues(t, 62, echo[0].Pitch)
	assert.NotEmpty(t, f.out.channel(1))
	assert.Equal(t, score.Idle, f.session.Scorer().Phase())
}

func TestListenFirst(t *testing.T) {
	f := newFixture(t)
	res := f.start(true)

	// Too early, only echoed
	f.play(60)
	for f.session.Scorer().Phase() != score.PlayerTurn {
		f.clock.Advance(sequencer.DefaultQuantum)
	}
	melody := len(f.out.channel(1))
	f.clock.BlockUntil(1)

	f.advance(505 * time.Millisecond)
	f.play(62)
	r := f.finish(res)

	require.NoError(t, r.err)
	assert.True(t, r.completed)
	assert.Equal(t, 100, r.res.Score)
	require.Len(t, r.res.Inputs, 1)
	require.Len(t, f.hits, 1)
	assert.Len(t, f.out.channel(4), 2)
	assert.Equal(t, melody, len(f.out.channel(1)), "melody is not replayed")
}

func TestRepeatedAttemptsStartFresh(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 2; i++ {
		res := f.start(false)
		f.play(60)
		r := f.finish(res)
		require.NoError(t, r.err)
		assert.Equal(t, 100, r.res.Score)
		require.Len(t, r.res.Targets, 3)
		assert.True(t, r.res.Targets[0].Scored())
	}
	assert.False(t, f.session.Exercise().Targets[0].Scored())
}

func TestStop(t *testing.T) {
	f := newFixture(t)
	res := f.start(true)
	f.session.Stop()
	r := f.finish(res)

	require.NoError(t, r.err)
	assert.False(t, r.completed)
	assert.Equal(t, 1, f.out.silent)
	assert.Equal(t, sequencer.Idle, f.session.Timeline().State())
	assert.Equal(t, 0, r.res.Score)
	assert.Empty(t, r.res.Inputs)
}

func TestPrepareWhilePlaying(t *testing.T) {
	f := newFixture(t)
	res := f.start(false)
	_, err := f.session.Prepare(level)
	assert.True(t, errors.Is(err, sequencer.ErrNotIdle))
	f.finish(res)

	_, err = f.session.Prepare(level)
	assert.NoError(t, err)
}

func TestSecondStartLeavesAttemptUntouched(t *testing.T) {
	f := newFixture(t)
	res := f.start(false)

	f.advance(20 * time.Millisecond)
	f.play(60)
	require.Equal(t, 100, f.session.Scorer().Score())

	_, completed, err := f.session.Start(context.Background(), false)
	assert.True(t, errors.Is(err, sequencer.ErrConcurrentPlayback))
	assert.False(t, completed)
	assert.Equal(t, 100, f.session.Scorer().Score())
	assert.Equal(t, score.PlayerTurn, f.session.Scorer().Phase())

	f.advance(480 * time.Millisecond)
	f.play(62)
	r := f.finish(res)

	require.NoError(t, r.err)
	assert.True(t, r.completed)
	assert.Equal(t, 200, r.res.Score)
	assert.Len(t, r.res.Inputs, 2)
	assert.Len(t, f.out.channel(4), 2)

	// The session accepts a new attempt once the first is over
	res = f.start(false)
	r = f.finish(res)
	assert.NoError(t, r.err)
}
