package generator

import (
	"log/slog"
	"math/rand"
	"strings"

	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
)

var ErrNoChord = errors.New("no chord sounding")

const (
	DefaultLeadInBeats   = 4
	DefaultNotesPerChord = 4
)

var (
	melodyTrack    = game.Track{Name: game.MelodyTrack, Channel: 1, Volume: 1}
	chordTrack     = game.Track{Name: game.ChordTrack, Channel: 2, Volume: 0.1}
	metronomeTrack = game.Track{Name: game.MetronomeTrack, Channel: 3, Volume: 0.7}
)

type DefaultGenerator struct {
	Rand        *rand.Rand
	LeadInBeats int
	Logger      *slog.Logger
}

func New(seed int64) *DefaultGenerator {
	return &DefaultGenerator{
		Rand:        rand.New(rand.NewSource(seed)),
		LeadInBeats: DefaultLeadInBeats,
		Logger:      slog.Default(),
	}
}

func (g *DefaultGenerator) logger() *slog.Logger {
	if nil == g.Logger {
		return slog.Default()
	}
	return g.Logger
}

func (g *DefaultGenerator) pick(n int) int {
	if nil == g.Rand {
		return rand.Intn(n)
	}
	return g.Rand.Intn(n)
}

// Chords picks one of each `|` separated alternative and follows it by repeatEach-1 sustains
func (g *DefaultGenerator) Chords(progression string, repeatEach int) game.Track {
	if repeatEach < 1 {
		repeatEach = 1
	}
	track := chordTrack
	for _, token := range strings.Split(progression, " ") {
		alternatives := strings.Split(token, "|")
		track.Tokens = append(track.Tokens, alternatives[g.pick(len(alternatives))])
		for i := 1; i < repeatEach; i++ {
			track.Tokens = append(track.Tokens, game.Sustain)
		}
	}
	return track
}

// latestChord is the last token at or before index that is neither a rest nor a sustain
func latestChord(tokens []string, index int) (string, bool) {
	if index >= len(tokens) {
		index = len(tokens) - 1
	}
	for i := index; i >= 0; i-- {
		if tokens[i] != game.Sustain && tokens[i] != game.Rest {
			return tokens[i], true
		}
	}
	return "", false
}

func (g *DefaultGenerator) Melody(m game.Melody, chords game.Track) (game.Track, error) {
	track := melodyTrack
	var last tonality.Pitch
	for i := 0; i < m.NumNotes; i++ {
		symbol, ok := latestChord(chords.Tokens, i)
		if !ok {
			return track, errors.Wrapf(ErrNoChord, "melody step %d", i)
		}
		notes, err := tonality.ChordNotes(symbol)
		if nil != err {
			return track, err
		}

		candidates := notes
		if i == 0 && len(m.StartNotes) > 0 {
			candidates = make([]tonality.Pitch, len(m.StartNotes))
			for j, offset := range m.StartNotes {
				candidates[j] = notes[0] + tonality.Pitch(offset)
			}
		}

		if i > 0 {
			if nil != m.MaxDistance {
				candidates = g.within(candidates, last, *m.MaxDistance)
			}
			candidates = withoutRepeat(candidates, last)
		}

		last = candidates[g.pick(len(candidates))]
		track.Tokens = append(track.Tokens, tonality.PitchToNames(last, true)[0])
	}
	return track, nil
}

// within keeps candidates at most max semitones from last, measured within an octave.
// When nothing is close enough every candidate is kept.
func (g *DefaultGenerator) within(candidates []tonality.Pitch, last tonality.Pitch, max int) []tonality.Pitch {
	out := make([]tonality.Pitch, 0, len(candidates))
	for _, c := range candidates {
		d := int(last-c) % 12
		if d < 0 {
			d = -d
		}
		if d <= max {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		g.logger().Debug("no candidate within distance, using all", "last", last, "max", max)
		return candidates
	}
	return out
}

func withoutRepeat(candidates []tonality.Pitch, last tonality.Pitch) []tonality.Pitch {
	if len(candidates) < 2 {
		return candidates
	}
	out := make([]tonality.Pitch, 0, len(candidates))
	for _, c := range candidates {
		if c != last {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return candidates
	}
	return out
}

// Metronome plays the root of the sounding chord an octave down on every step
func (g *DefaultGenerator) Metronome(chords game.Track) (game.Track, error) {
	track := metronomeTrack
	track.Tokens = make([]string, len(chords.Tokens))
	for i := range chords.Tokens {
		symbol := game.Rest
		for j := i; j >= 0; j-- {
			if chords.Tokens[j] != game.Sustain {
				symbol = chords.Tokens[j]
				break
			}
		}
		if symbol == game.Rest {
			continue
		}
		notes, err := tonality.ChordNotes(symbol)
		if nil != err {
			return track, err
		}
		track.Tokens[i] = tonality.PitchToNames(notes[0]-12, true)[0]
	}
	return track, nil
}

func (g *DefaultGenerator) Generate(def game.Definition) ([]game.Track, error) {
	var melody, chords game.Track
	if def.Melody.Fixed() {
		chords = g.Chords(def.Chords, 1)
		melody = melodyTrack
		melody.Tokens = strings.Split(def.Melody.Notes, " ")
	} else {
		perChord := def.Melody.NotesPerChord
		if perChord <= 0 {
			perChord = DefaultNotesPerChord
		}
		chords = g.Chords(def.Chords, perChord)
		var err error
		if melody, err = g.Melody(def.Melody, chords); nil != err {
			return nil, errors.Wrapf(err, "generating melody of %q", def.Name)
		}
	}

	metronome, err := g.Metronome(chords)
	if nil != err {
		return nil, errors.Wrapf(err, "generating metronome of %q", def.Name)
	}

	tracks := []game.Track{melody, chords, metronome}
	LeadIn(tracks, g.LeadInBeats)
	return tracks, nil
}

// LeadIn prefixes every track with the last beats of the longest track,
// taken from its own tail and padded with rests.
func LeadIn(tracks []game.Track, beats int) {
	if beats <= 0 {
		return
	}
	longest := 0
	for _, t := range tracks {
		if len(t.Tokens) > longest {
			longest = len(t.Tokens)
		}
	}
	start := longest - beats
	if start < 0 {
		start = 0
	}
	for i := range tracks {
		tokens := tracks[i].Tokens
		lead := make([]string, beats, beats+len(tokens))
		if start < len(tokens) {
			copy(lead, tokens[start:])
		}
		tracks[i].Tokens = append(lead, tokens...)
	}
}
