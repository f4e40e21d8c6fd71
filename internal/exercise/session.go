package exercise

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/generator"
	"git.lost.host/meutraa/eart/internal/input"
	"git.lost.host/meutraa/eart/internal/score"
	"git.lost.host/meutraa/eart/internal/sequencer"
	"git.lost.host/meutraa/eart/internal/timing"
	"github.com/pkg/errors"
)

var ErrNotPrepared = errors.New("no exercise prepared")

// Output is where the timeline and the echo of the player's notes go
type Output interface {
	sequencer.Dispatcher
	AllSoundOff()
}

type Option func(s *Session)

func WithClock(c sequencer.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithQuantum(d time.Duration) Option {
	return func(s *Session) { s.quantum = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithOnHit is called for every scored note the player plays
func WithOnHit(fn func(score.Hit)) Option {
	return func(s *Session) { s.onHit = fn }
}

func WithOnBeat(fn func(timing.BarBeat)) Option {
	return func(s *Session) { s.onBeat = fn }
}

// Session runs attempts at one exercise at a time
type Session struct {
	output Output
	inputs *input.Dispatcher
	gen    generator.Generator

	clock   sequencer.Clock
	quantum time.Duration
	logger  *slog.Logger
	onHit   func(score.Hit)
	onBeat  func(timing.BarBeat)

	mu       sync.Mutex
	running  bool
	exercise *Exercise
	timeline *sequencer.Timeline
	scorer   *score.DefaultScorer
}

func New(output Output, inputs *input.Dispatcher, gen generator.Generator, opts ...Option) *Session {
	s := &Session{
		output:  output,
		inputs:  inputs,
		gen:     gen,
		clock:   sequencer.SystemClock{},
		quantum: sequencer.DefaultQuantum,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare builds def and loads it into a fresh timeline
func (s *Session) Prepare(def game.Definition) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || (nil != s.timeline && s.timeline.State() != sequencer.Idle) {
		return nil, errors.Wrap(sequencer.ErrNotIdle, "prepare")
	}

	ex, err := Build(s.gen, def)
	if nil != err {
		return nil, err
	}
	timeline := sequencer.New(s.output,
		sequencer.WithClock(s.clock),
		sequencer.WithQuantum(s.quantum),
		sequencer.WithSignature(ex.Definition.Signature),
		sequencer.WithBeatCallback(s.onBeat),
		sequencer.WithLogger(s.logger),
	)
	if err := timeline.SetEvents(ex.Events...); nil != err {
		return nil, err
	}

	s.exercise = ex
	s.timeline = timeline
	s.scorer = &score.DefaultScorer{Position: timeline, Logger: s.logger}
	s.logger.Debug("exercise prepared", "level", ex.Definition.Name, "targets", len(ex.Targets))
	return ex, nil
}

func (s *Session) prepared() (*Exercise, *sequencer.Timeline, *score.DefaultScorer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exercise, s.timeline, s.scorer
}

func (s *Session) claim() (*Exercise, *sequencer.Timeline, *score.DefaultScorer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nil == s.exercise {
		return nil, nil, nil, ErrNotPrepared
	}
	if s.running || s.timeline.State() != sequencer.Idle {
		return nil, nil, nil, sequencer.ErrConcurrentPlayback
	}
	s.running = true
	return s.exercise, s.timeline, s.scorer, nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

func (s *Session) Exercise() *Exercise {
	ex, _, _ := s.prepared()
	return ex
}

func (s *Session) Timeline() *sequencer.Timeline {
	_, t, _ := s.prepared()
	return t
}

func (s *Session) Scorer() *score.DefaultScorer {
	_, _, sc := s.prepared()
	return sc
}

// Start plays one attempt and returns its result once the timeline is done.
// In listen first mode the melody is played to the player before their turn,
// then the accompaniment is played again without it. completed is false when
// the attempt was stopped. Only one attempt runs at a time, a second Start
// fails with sequencer.ErrConcurrentPlayback and leaves the first untouched.
func (s *Session) Start(ctx context.Context, listenFirst bool) (res score.Result, completed bool, err error) {
	ex, timeline, scorer, err := s.claim()
	if nil != err {
		return score.Result{}, false, err
	}
	defer s.release()

	scorer.Begin(game.Clone(ex.Targets), listenFirst)
	unsubscribe := s.inputs.Subscribe(func(e event.Event) {
		s.output.Dispatch(e)
		hit, ok := scorer.OnNote(e)
		if ok && nil != s.onHit {
			s.onHit(hit)
		}
	})
	defer func() {
		unsubscribe()
		res = scorer.End()
	}()

	if listenFirst {
		if err := timeline.SetEvents(ex.Events...); nil != err {
			return res, false, err
		}
		if completed, err = timeline.Play(ctx); nil != err || !completed {
			return res, completed, err
		}
		scorer.OpenTurn()
		if err := timeline.SetEvents(ex.Accompaniment()...); nil != err {
			return res, false, err
		}
	} else if err := timeline.SetEvents(ex.Events...); nil != err {
		return res, false, err
	}
	completed, err = timeline.Play(ctx)
	return res, completed, err
}

// Stop ends the running attempt and silences every channel
func (s *Session) Stop() {
	if timeline := s.Timeline(); nil != timeline {
		timeline.Stop()
	}
	s.output.AllSoundOff()
}
