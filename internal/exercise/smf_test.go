package exercise

import (
	"bytes"
	"testing"

	"git.lost.host/meutraa/eart/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestSMF(t *testing.T) {
	gen := generator.New(1)
	gen.LeadInBeats = 0
	ex, err := Build(gen, level)
	require.NoError(t, err)

	sm, err := ex.SMF()
	require.NoError(t, err)
	require.Len(t, sm.Tracks, 4)

	var buf bytes.Buffer
	_, err = sm.WriteTo(&buf)
	require.NoError(t, err)

	read, err := smf.ReadFrom(&buf)
	require.NoError(t, err)
	require.Len(t, read.Tracks, 4)
	assert.Equal(t, smf.MetricTicks(TicksPerBeat), read.TimeFormat)

	var ch, key, vel uint8
	var ticks []uint32
	var abs uint32
	for _, ev := range read.Tracks[1] {
		abs += ev.Delta
		if midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
			ticks = append(ticks, abs)
		}
	}
	assert.Equal(t, []uint32{0, 960, 1920}, ticks)
	assert.Equal(t, uint32(0), ex.ticks(0))
}
