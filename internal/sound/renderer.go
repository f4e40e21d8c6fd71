package sound

import "git.lost.host/meutraa/eart/internal/tonality"

// Renderer makes the sound of one channel, calls must not block
type Renderer interface {
	NoteOn(p tonality.Pitch, velocity uint8)
	NoteOff(p tonality.Pitch)
	AllSoundOff()
}

type Silent struct{}

func (Silent) NoteOn(tonality.Pitch, uint8) {}
func (Silent) NoteOff(tonality.Pitch)       {}
func (Silent) AllSoundOff()                 {}
