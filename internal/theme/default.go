package theme

import (
	"strings"

	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/score"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/charmbracelet/lipgloss"
)

type DefaultTheme struct {
}

const (
	beatSym    = "●"
	restSym    = "○"
	unknownSym = "·"
)

var (
	title = lipgloss.NewStyle().Bold(true)
	faint = lipgloss.NewStyle().Faint(true)

	judgementColors = map[string]lipgloss.Color{
		"Perfect": "#00EC80", // green
		"Great":   "#0076EC", // blue
		"Good":    "#ECC300", // yellow
		"Miss":    "#EC1E00", // red
	}
	phaseColors = map[score.Phase]lipgloss.Color{
		score.Idle:           "#6A6A6A", // grey
		score.AwaitingListen: "#6A00EC", // purple
		score.PlayerTurn:     "#EC8000", // orange
	}
	// Pitch classes of the circle of fifths, c is red
	noteColors = [12]lipgloss.Color{
		"#EC1E00", "#6A00EC", "#ECC300", "#EC006A", "#ADECEC", "#6E9359",
		"#0076EC", "#EC8000", "#6A6A6A", "#00EC80", "#FFFFFF", "#ECC3C3",
	}
)

func (t *DefaultTheme) RenderTitle(s string) string {
	return title.Render(s)
}

func (t *DefaultTheme) RenderPhase(phase score.Phase) string {
	c, ok := phaseColors[phase]
	if !ok {
		return phase.String()
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(phase.String())
}

func (t *DefaultTheme) RenderJudgement(j *game.Judgement) string {
	if nil == j {
		return faint.Render(unknownSym)
	}
	c, ok := judgementColors[j.Name]
	if !ok {
		return j.Name
	}
	return lipgloss.NewStyle().Foreground(c).Render(j.Name)
}

func (t *DefaultTheme) RenderNote(p tonality.Pitch, hit bool) string {
	class, _ := p.Class()
	name := tonality.PitchToNames(p, true)[0]
	if !hit {
		return faint.Render(name)
	}
	return lipgloss.NewStyle().Foreground(noteColors[class*7%12]).Render(name)
}

// RenderBeat draws one symbol per beat of the bar, beats up to beat are filled
func (t *DefaultTheme) RenderBeat(beat, upper int) string {
	var b strings.Builder
	for i := 1; i <= upper; i++ {
		if i <= beat {
			b.WriteString(beatSym)
		} else {
			b.WriteString(restSym)
		}
		if i < upper {
			b.WriteString(" ")
		}
	}
	return b.String()
}
