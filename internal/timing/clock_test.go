package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	for _, bpm := range []float64{60, 80, 120, 133} {
		g := Grid{BPM: bpm, Signature: CommonTime}
		for bar := 1; bar <= 16; bar++ {
			for beat := 1.0; beat < 5; beat += 0.25 {
				pos := g.ToBarBeat(g.ToSeconds(float64(bar), beat))
				assert.InDelta(t, float64(bar), pos.BarDecimal-(beat-1)/4, 1e-9)
				assert.InDelta(t, beat, pos.BeatDecimal, 1e-9)
				if beat-float64(int(beat)) != 0 {
					assert.Equal(t, bar, pos.Bar)
					assert.Equal(t, int(beat), pos.Beat)
				}
			}
		}
	}
}

func TestToBarBeat(t *testing.T) {
	g := Grid{BPM: 120, Signature: CommonTime}
	assert.Equal(t, 0.5, g.SecondsPerBeat())
	assert.Equal(t, 2.0, g.SecondsPerBar())

	pos := g.ToBarBeat(0)
	assert.Equal(t, 1, pos.Bar)
	assert.Equal(t, 1, pos.Beat)

	pos = g.ToBarBeat(0.75)
	assert.Equal(t, 1, pos.Bar)
	assert.Equal(t, 2, pos.Beat)
	assert.InDelta(t, 2.5, pos.BeatDecimal, 1e-9)

	pos = g.At(2250 * time.Millisecond)
	assert.Equal(t, 2, pos.Bar)
	assert.Equal(t, 1, pos.Beat)
	assert.Equal(t, 2250*time.Millisecond, pos.Elapsed())

	pos = g.ToBarBeat(7.9)
	assert.Equal(t, 4, pos.Bar)
	assert.Equal(t, 4, pos.Beat)
}

func TestThreeFour(t *testing.T) {
	g := Grid{BPM: 60, Signature: TimeSignature{Upper: 3, Lower: 4}}
	assert.Equal(t, 3.0, g.SecondsPerBar())
	assert.Equal(t, 4.0, g.ToSeconds(2, 2))

	pos := g.ToBarBeat(5.5)
	assert.Equal(t, 2, pos.Bar)
	assert.Equal(t, 3, pos.Beat)
	assert.Equal(t, 4500*time.Millisecond, g.Duration(2, 2.5))
}

func TestDefaults(t *testing.T) {
	g := Grid{}
	assert.Equal(t, 2.0, g.SecondsPerBar())
	assert.Equal(t, CommonTime, g.ToBarBeat(1).Signature)
}

func TestSameBeat(t *testing.T) {
	g := Grid{BPM: 120, Signature: CommonTime}
	assert.True(t, g.ToBarBeat(0.1).SameBeat(g.ToBarBeat(0.4)))
	assert.False(t, g.ToBarBeat(0.4).SameBeat(g.ToBarBeat(0.6)))
}
