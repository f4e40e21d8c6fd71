package theme

import (
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/score"
	"git.lost.host/meutraa/eart/internal/tonality"
)

type Theme interface {
	RenderTitle(title string) string
	RenderPhase(phase score.Phase) string
	RenderJudgement(j *game.Judgement) string
	// RenderNote draws a target, hit tells whether it has been scored yet
	RenderNote(p tonality.Pitch, hit bool) string
	RenderBeat(beat, upper int) string
}
