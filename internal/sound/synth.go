package sound

import (
	"math"
	"sync"
	"time"

	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	DefaultSampleRate beep.SampleRate = 44100
	MaxVoices                         = 6

	// Keeps a full chord from clipping the mix
	headroom = 0.15
)

type Patch struct {
	Attack  time.Duration
	Decay   time.Duration
	Sustain float64 // level after decay, the voice ends there when 0
	Release time.Duration
}

var (
	Piano   = Patch{Attack: 10 * time.Millisecond, Decay: 2 * time.Second, Sustain: 0.2, Release: 300 * time.Millisecond}
	Strings = Patch{Attack: 700 * time.Millisecond, Decay: time.Second, Sustain: 0.8, Release: 500 * time.Millisecond}
	Click   = Patch{Decay: 50 * time.Millisecond}
)

// Speaker mixes every synth into the default audio device
type Speaker struct {
	SampleRate beep.SampleRate

	mixer   beep.Mixer
	mu      sync.Mutex
	started bool
}

func NewSpeaker(sr beep.SampleRate) *Speaker {
	return &Speaker{SampleRate: sr}
}

func (s *Speaker) Start() error {
	if err := speaker.Init(s.SampleRate, s.SampleRate.N(time.Second/30)); nil != err {
		return err
	}
	s.started = true
	speaker.Play(&s.mixer)
	return nil
}

// The mixer is streamed under the speaker lock once started
func (s *Speaker) lock() {
	if s.started {
		speaker.Lock()
		return
	}
	s.mu.Lock()
}

func (s *Speaker) unlock() {
	if s.started {
		speaker.Unlock()
		return
	}
	s.mu.Unlock()
}

func (s *Speaker) Synth(patch Patch, volume float64, tuning tonality.Tuning) *Synth {
	return &Synth{speaker: s, Patch: patch, Volume: volume, Tuning: tuning}
}

// Synth is a polyphonic sine synthesizer playing through a Speaker
type Synth struct {
	Patch  Patch
	Volume float64
	Tuning tonality.Tuning

	speaker *Speaker
	voices  []*voice
}

func (s *Synth) NoteOn(p tonality.Pitch, velocity uint8) {
	s.speaker.lock()
	defer s.speaker.unlock()

	s.prune()
	for _, v := range s.voices {
		if v.pitch == p {
			v.stop()
		}
	}
	s.prune()
	if len(s.voices) >= MaxVoices {
		s.voices[0].stop()
		s.voices = s.voices[1:]
	}

	sr := float64(s.speaker.SampleRate)
	v := &voice{
		pitch:    p,
		step:     s.Tuning.Hz(p) / sr,
		amp:      float64(velocity) / 127 * s.Volume * headroom,
		attack:   s.Patch.Attack.Seconds() * sr,
		decay:    s.Patch.Decay.Seconds() * sr,
		sustain:  s.Patch.Sustain,
		release:  s.Patch.Release.Seconds() * sr,
		released: -1,
	}
	s.voices = append(s.voices, v)
	s.speaker.mixer.Add(v)
}

func (s *Synth) NoteOff(p tonality.Pitch) {
	s.speaker.lock()
	defer s.speaker.unlock()
	for _, v := range s.voices {
		if v.pitch == p {
			v.releaseNow()
		}
	}
}

func (s *Synth) AllSoundOff() {
	s.speaker.lock()
	defer s.speaker.unlock()
	for _, v := range s.voices {
		v.stop()
	}
	s.voices = nil
}

// Active is the number of sounding voices
func (s *Synth) Active() int {
	s.speaker.lock()
	defer s.speaker.unlock()
	s.prune()
	return len(s.voices)
}

func (s *Synth) prune() {
	voices := s.voices[:0]
	for _, v := range s.voices {
		if !v.done {
			voices = append(voices, v)
		}
	}
	s.voices = voices
}

// voice is a single sine oscillator with an envelope, lengths are in samples
type voice struct {
	pitch tonality.Pitch
	step  float64
	phase float64
	amp   float64

	attack, decay, sustain, release float64

	t            float64
	released     float64
	releaseLevel float64
	done         bool
}

func (v *voice) level() float64 {
	switch {
	case v.t < v.attack:
		return v.t / v.attack
	case v.t < v.attack+v.decay:
		return 1 - (1-v.sustain)*(v.t-v.attack)/v.decay
	}
	return v.sustain
}

func (v *voice) releaseNow() {
	if v.released >= 0 || v.done {
		return
	}
	v.releaseLevel = v.level()
	v.released = v.t
}

func (v *voice) stop() {
	v.done = true
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.done {
		return 0, false
	}
	for i := range samples {
		var level float64
		if v.released >= 0 {
			if v.release <= 0 {
				level = 0
			} else {
				level = v.releaseLevel * (1 - (v.t-v.released)/v.release)
			}
		} else {
			level = v.level()
			if v.sustain == 0 && v.t >= v.attack+v.decay {
				level = 0
			}
		}
		if level <= 0 && v.t > v.attack {
			for j := i; j < len(samples); j++ {
				samples[j] = [2]float64{}
			}
			v.done = true
			return len(samples), true
		}

		s := math.Sin(2*math.Pi*v.phase) * v.amp * level
		samples[i] = [2]float64{s, s}
		v.phase += v.step
		v.phase -= math.Floor(v.phase)
		v.t++
	}
	return len(samples), true
}

func (v *voice) Err() error {
	return nil
}
