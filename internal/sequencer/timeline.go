package sequencer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/timing"
	"github.com/pkg/errors"
)

var (
	ErrConcurrentPlayback = errors.New("timeline is already playing")
	ErrNotIdle            = errors.New("timeline is not idle")
)

const DefaultQuantum = 5 * time.Millisecond

type State uint8

const (
	Idle State = iota
	Playing
	Cancelling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Cancelling:
		return "cancelling"
	}
	return "unknown"
}

// Dispatcher receives events as they become due, it must not block
type Dispatcher interface {
	Dispatch(e event.Event)
}

type DispatcherFunc func(e event.Event)

func (f DispatcherFunc) Dispatch(e event.Event) {
	f(e)
}

type Option func(t *Timeline)

func WithClock(c Clock) Option {
	return func(t *Timeline) { t.clock = c }
}

// WithQuantum sets the tick period
func WithQuantum(d time.Duration) Option {
	return func(t *Timeline) {
		if d > 0 {
			t.quantum = d
		}
	}
}

// WithBeatCallback is called from the playback goroutine whenever the bar or beat changes
func WithBeatCallback(fn func(timing.BarBeat)) Option {
	return func(t *Timeline) { t.beat = fn }
}

func WithSignature(s timing.TimeSignature) Option {
	return func(t *Timeline) { t.signature = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Timeline) { t.logger = l }
}

// Timeline plays a time sorted list of events against a Clock
type Timeline struct {
	out     Dispatcher
	clock   Clock
	quantum time.Duration
	beat    func(timing.BarBeat)
	logger  *slog.Logger

	mu        sync.Mutex
	signature timing.TimeSignature
	events    []event.Event
	state     State
	bpm       float64
	elapsed   time.Duration
	last      timing.BarBeat
	next      int
}

func New(out Dispatcher, opts ...Option) *Timeline {
	t := &Timeline{
		out:       out,
		clock:     SystemClock{},
		quantum:   DefaultQuantum,
		logger:    slog.Default(),
		signature: timing.CommonTime,
		bpm:       timing.DefaultBPM,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetEvents replaces the timeline with the given tracks, stably sorted by time
func (t *Timeline) SetEvents(tracks ...[]event.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle {
		return errors.Wrap(ErrNotIdle, "set events")
	}
	events := event.Flatten(tracks...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	t.events = events
	return nil
}

func (t *Timeline) Events() []event.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]event.Event{}, t.events...)
}

// SetMaxLength drops everything after max, note offs are pulled back to just before it
func (t *Timeline) SetMaxLength(max time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle {
		return errors.Wrap(ErrNotIdle, "set max length")
	}
	events := t.events[:0]
	for _, e := range t.events {
		if e.Time > max {
			if e.Kind != event.NoteOff {
				continue
			}
			e.Time = max - time.Millisecond
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	t.events = events
	return nil
}

func (t *Timeline) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timeline) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

func (t *Timeline) BPM() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bpm
}

func (t *Timeline) grid() timing.Grid {
	return timing.Grid{BPM: t.bpm, Signature: t.signature}
}

func (t *Timeline) CurrentBarBeat() timing.BarBeat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grid().At(t.elapsed)
}

// LastEventBarBeat is the position of the final event, the zero value when there are no events
func (t *Timeline) LastEventBarBeat() timing.BarBeat {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) == 0 {
		return timing.BarBeat{}
	}
	return t.grid().At(t.events[len(t.events)-1].Time)
}

// Play runs the timeline until every event is dispatched, returning true, or
// until Stop or ctx ends it early, returning false. Only one Play may run at a time.
func (t *Timeline) Play(ctx context.Context) (bool, error) {
	t.mu.Lock()
	if t.state != Idle {
		t.mu.Unlock()
		return false, ErrConcurrentPlayback
	}
	if len(t.events) == 0 {
		t.mu.Unlock()
		return true, nil
	}
	for _, e := range t.events {
		if e.Time > 0 {
			break
		}
		if e.Kind == event.TempoChange {
			t.bpm = e.BPM
		}
	}
	t.state = Playing
	t.elapsed = 0
	t.next = 0
	t.last = timing.BarBeat{}
	count := len(t.events)
	t.mu.Unlock()

	t.logger.Debug("timeline started", "events", count, "bpm", t.BPM())

	start := t.clock.Now()
	ticker := t.clock.NewTicker(t.quantum)
	defer ticker.Stop()

	done := ctx.Done()
	for {
		select {
		case <-done:
			t.Stop()
			done = nil
		case now := <-ticker.C():
			if t.cancelled() {
				t.logger.Debug("timeline stopped", "elapsed", t.Elapsed())
				return false, nil
			}
			if t.step(now.Sub(start)) {
				t.logger.Debug("timeline complete", "elapsed", t.Elapsed())
				return true, nil
			}
		}
	}
}

// Stop asks a running Play to end on its next tick
func (t *Timeline) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Playing {
		t.state = Cancelling
	}
}

func (t *Timeline) cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Cancelling {
		t.state = Idle
		return true
	}
	return false
}

// step advances to elapsed, calls the beat callback when the beat changed and
// dispatches the events due before elapsed, note offs first. It reports whether
// the final event has been dispatched.
func (t *Timeline) step(elapsed time.Duration) bool {
	t.mu.Lock()
	t.elapsed = elapsed
	position := t.grid().At(elapsed)
	changed := !position.SameBeat(t.last)
	if changed {
		t.last = position
	}
	first := t.next
	for t.next < len(t.events) && t.events[t.next].Time < elapsed {
		t.next++
	}
	due := t.events[first:t.next]
	finished := t.next == len(t.events)
	t.mu.Unlock()

	if changed && nil != t.beat {
		t.beat(position)
	}
	for _, e := range due {
		if e.Kind == event.NoteOff {
			t.out.Dispatch(e)
		}
	}
	for _, e := range due {
		if e.Kind != event.NoteOff {
			t.out.Dispatch(e)
		}
	}

	if finished {
		t.mu.Lock()
		t.state = Idle
		t.mu.Unlock()
	}
	return finished
}
