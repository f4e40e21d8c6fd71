package score

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"git.lost.host/meutraa/eart/internal/config"
	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/tonality"
)

type DefaultScorer struct {
	Position   Position
	Window     time.Duration    // config.MatchWindow when zero
	Judgements []game.Judgement // config.Judgements when nil
	Logger     *slog.Logger

	mu      sync.Mutex
	phase   Phase
	targets []*game.Note
	inputs  []*game.Note
	score   int
}

// Targets turns the note ons of a melody into the notes to be matched
func Targets(events []event.Event) []*game.Note {
	targets := []*game.Note{}
	for _, e := range events {
		if e.Kind != event.NoteOn {
			continue
		}
		targets = append(targets, &game.Note{Index: len(targets), Pitch: e.Pitch, Time: e.Time})
	}
	return targets
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// Distance ranks a pairing, one semitone weighs as much as a whole second
func Distance(input, target *game.Note) float64 {
	dp := float64(input.Pitch - target.Pitch)
	dt := (input.Time - target.Time).Seconds()
	return dp*dp + dt*dt
}

func (s *DefaultScorer) window() time.Duration {
	if s.Window <= 0 {
		return config.MatchWindow
	}
	return s.Window
}

func (s *DefaultScorer) judgements() []game.Judgement {
	if nil == s.Judgements {
		return config.Judgements
	}
	return s.Judgements
}

func (s *DefaultScorer) logger() *slog.Logger {
	if nil == s.Logger {
		return slog.Default()
	}
	return s.Logger
}

func (s *DefaultScorer) Begin(targets []*game.Note, listenFirst bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = targets
	s.inputs = []*game.Note{}
	s.score = 0
	s.phase = PlayerTurn
	if listenFirst {
		s.phase = AwaitingListen
	}
}

func (s *DefaultScorer) OpenTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == AwaitingListen {
		s.phase = PlayerTurn
	}
}

func (s *DefaultScorer) End() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Idle
	return Result{
		Score:   s.score,
		Targets: s.targets,
		Inputs:  s.inputs,
		Stats:   Summarize(s.targets),
	}
}

func (s *DefaultScorer) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *DefaultScorer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *DefaultScorer) OnNote(e event.Event) (Hit, bool) {
	if e.Kind != event.NoteOn {
		return Hit{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case Idle:
		return Hit{}, false
	case AwaitingListen:
		// Starting on the last beat of the final bar is allowed
		now, last := s.Position.CurrentBarBeat(), s.Position.LastEventBarBeat()
		if now.Bar != last.Bar || now.Beat != now.Signature.Upper {
			s.logger().Debug("dropped early note", "pitch", e.Pitch, "bar", now.Bar, "beat", now.Beat)
			return Hit{}, false
		}
	}
	return s.apply(e.Pitch, s.Position.Elapsed()), true
}

func (s *DefaultScorer) Apply(pitch tonality.Pitch, at time.Duration) Hit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(pitch, at)
}

type ranked struct {
	target   *game.Note
	distance float64
}

func (s *DefaultScorer) apply(pitch tonality.Pitch, at time.Duration) Hit {
	input := &game.Note{Index: len(s.inputs), Pitch: pitch, Time: at}
	s.inputs = append(s.inputs, input)
	hit := Hit{Input: input}

	window := s.window()
	candidates := []ranked{}
	for _, target := range s.targets {
		if target.Scored() || abs(input.Time-target.Time) >= window {
			continue
		}
		candidates = append(candidates, ranked{target, Distance(input, target)})
	}
	if len(candidates) == 0 {
		return hit
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	best := candidates[0]
	game.Associate(input, best.target, true)
	hit.Target = best.target
	hit.Distance = best.distance
	if _, j := game.Judge(s.judgements(), best.distance); nil != j {
		hit.Judgement = j
		hit.Points = j.Points
	}
	s.score += hit.Points
	return hit
}

// Replay scores recorded inputs against fresh copies of the targets
func (s *DefaultScorer) Replay(targets, inputs []*game.Note) Result {
	r := DefaultScorer{Window: s.Window, Judgements: s.Judgements, Logger: s.Logger}
	r.Begin(game.Clone(targets), false)
	for _, in := range inputs {
		r.Apply(in.Pitch, in.Time)
	}
	return r.End()
}
