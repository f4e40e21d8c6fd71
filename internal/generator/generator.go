package generator

import "git.lost.host/meutraa/eart/internal/game"

type Generator interface {
	// Generate the melody, chord and metronome tracks of an exercise, each with its lead-in
	Generate(def game.Definition) ([]game.Track, error)
}
