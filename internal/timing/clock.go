package timing

import (
	"math"
	"time"
)

type TimeSignature struct {
	Upper int `yaml:"upper"`
	Lower int `yaml:"lower"`
}

var CommonTime = TimeSignature{Upper: 4, Lower: 4}

const DefaultBPM = 120.0

// Grid converts between elapsed time and bar/beat coordinates at a fixed tempo.
// Bars and beats are 1-based.
type Grid struct {
	BPM       float64
	Signature TimeSignature
}

type BarBeat struct {
	Bar         int
	BarDecimal  float64
	Beat        int
	BeatDecimal float64
	Seconds     float64
	BPM         float64
	Signature   TimeSignature
}

func (g Grid) signature() TimeSignature {
	if g.Signature.Upper <= 0 || g.Signature.Lower <= 0 {
		return CommonTime
	}
	return g.Signature
}

func (g Grid) SecondsPerBeat() float64 {
	bpm := g.BPM
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return 60 / bpm
}

func (g Grid) SecondsPerBar() float64 {
	sig := g.signature()
	return g.SecondsPerBeat() * float64(sig.Upper) / float64(sig.Lower) * 4
}

func (g Grid) ToBarBeat(seconds float64) BarBeat {
	sig := g.signature()
	barDecimal := seconds/g.SecondsPerBar() + 1
	bar := math.Floor(barDecimal)
	beatDecimal := (barDecimal-bar)*float64(sig.Upper) + 1
	return BarBeat{
		Bar:         int(bar),
		BarDecimal:  barDecimal,
		Beat:        int(math.Floor(beatDecimal)),
		BeatDecimal: beatDecimal,
		Seconds:     seconds,
		BPM:         g.BPM,
		Signature:   sig,
	}
}

func (g Grid) ToSeconds(barDecimal, beatDecimal float64) float64 {
	return g.SecondsPerBar()*(barDecimal-1) + g.SecondsPerBeat()*(beatDecimal-1)
}

func (g Grid) At(d time.Duration) BarBeat {
	return g.ToBarBeat(d.Seconds())
}

func (g Grid) Duration(barDecimal, beatDecimal float64) time.Duration {
	return time.Duration(math.Round(g.ToSeconds(barDecimal, beatDecimal) * float64(time.Second)))
}

func (b BarBeat) Elapsed() time.Duration {
	return time.Duration(math.Round(b.Seconds * float64(time.Second)))
}

// SameBeat reports whether both positions fall on the same bar and beat
func (b BarBeat) SameBeat(o BarBeat) bool {
	return b.Bar == o.Bar && b.Beat == o.Beat
}
