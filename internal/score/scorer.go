package score

import (
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/timing"
	"git.lost.host/meutraa/eart/internal/tonality"
)

type Phase uint8

const (
	Idle Phase = iota
	AwaitingListen
	PlayerTurn
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingListen:
		return "listen"
	case PlayerTurn:
		return "your turn"
	}
	return "unknown"
}

// Position is where playback currently is, usually a sequencer.Timeline
type Position interface {
	Elapsed() time.Duration
	CurrentBarBeat() timing.BarBeat
	LastEventBarBeat() timing.BarBeat
}

type Scorer interface {
	// Begin an attempt against the targets, awaiting the listen pass when listenFirst
	Begin(targets []*game.Note, listenFirst bool)
	OpenTurn()
	End() Result

	// OnNote scores a live note on, reporting false when it was dropped
	OnNote(e event.Event) (Hit, bool)
	// Apply matches a note played at the given time, regardless of phase
	Apply(pitch tonality.Pitch, at time.Duration) Hit

	Score() int
	Phase() Phase
}

type Hit struct {
	Input     *game.Note
	Target    *game.Note // nil when nothing was close enough
	Distance  float64
	Judgement *game.Judgement
	Points    int
}

type Result struct {
	Score   int
	Targets []*game.Note
	Inputs  []*game.Note
	Stats   Stats
}
