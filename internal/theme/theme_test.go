package theme

import (
	"testing"

	"git.lost.host/meutraa/eart/internal/config"
	"git.lost.host/meutraa/eart/internal/score"
	"github.com/stretchr/testify/assert"
)

func TestRenderJudgement(t *testing.T) {
	th := &DefaultTheme{}
	for i := range config.Judgements {
		assert.Contains(t, th.RenderJudgement(&config.Judgements[i]), config.Judgements[i].Name)
	}
	assert.Contains(t, th.RenderJudgement(nil), unknownSym)
}

func TestRenderPhase(t *testing.T) {
	th := &DefaultTheme{}
	assert.Contains(t, th.RenderPhase(score.PlayerTurn), "your turn")
	assert.Contains(t, th.RenderPhase(score.AwaitingListen), "listen")
}

func TestRenderNote(t *testing.T) {
	th := &DefaultTheme{}
	assert.Contains(t, th.RenderNote(61, true), "c#4")
	assert.Contains(t, th.RenderNote(60, false), "c4")
}

func TestRenderBeat(t *testing.T) {
	th := &DefaultTheme{}
	assert.Equal(t, "● ● ○ ○", th.RenderBeat(2, 4))
	assert.Equal(t, "○ ○ ○", th.RenderBeat(0, 3))
}
