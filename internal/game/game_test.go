package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var tiers = []Judgement{
	{Name: "perfect", Distance: 0.01, Points: 100},
	{Name: "great", Distance: 0.05, Points: 50},
	{Name: "good", Distance: 0.09, Points: 10},
	{Name: "miss"},
}

func TestJudge(t *testing.T) {
	for d, expected := range map[float64]int{0: 100, 0.0025: 100, 0.01: 50, 0.049: 50, 0.05: 10, 0.0899: 10, 0.09: 0, 1: 0, 25: 0} {
		_, j := Judge(tiers, d)
		assert.Equal(t, expected, j.Points, d)
	}
	i, j := Judge(nil, 0)
	assert.Equal(t, -1, i)
	assert.Nil(t, j)
}

func TestAssociate(t *testing.T) {
	target := &Note{Index: 3, Pitch: 60, Time: time.Second}
	input := &Note{Index: 0, Pitch: 62, Time: 1050 * time.Millisecond}
	assert.False(t, target.Scored())

	a := Associate(input, target, true)
	assert.Equal(t, 3, a.Index)
	assert.Equal(t, 2, a.PitchDelta)
	assert.Equal(t, 50*time.Millisecond, a.TimeDelta)
	assert.True(t, target.Scored())
	assert.True(t, input.Scored())
	assert.Equal(t, 0, target.Associations[0].Index)

	clones := Clone([]*Note{target})
	assert.False(t, clones[0].Scored())
	assert.True(t, target.Scored())
}

func TestDefinitionDefaults(t *testing.T) {
	d := Definition{}.WithDefaults()
	assert.Equal(t, 120.0, d.Tempo)
	assert.Equal(t, 4, d.Signature.Upper)
	assert.Equal(t, 4, d.Signature.Lower)
	assert.False(t, d.Melody.Fixed())
	assert.Equal(t, 2.0, d.Grid().SecondsPerBar())
}
