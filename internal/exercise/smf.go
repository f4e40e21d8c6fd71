package exercise

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

const TicksPerBeat = 960

// SMF writes the exercise as a multi track standard MIDI file, a tempo
// track followed by one track per generated track
func (ex *Exercise) SMF() (*smf.SMF, error) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerBeat)

	sig := ex.Definition.Signature
	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(uint8(sig.Upper), uint8(sig.Lower)))
	track0.Add(0, smf.MetaTempo(ex.Definition.Tempo))
	track0.Close(0)
	if err := sm.Add(track0); nil != err {
		return nil, errors.Wrap(err, "adding tempo track")
	}

	for i, events := range ex.Events {
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(ex.Tracks[i].Name))
		var last uint32
		for _, e := range events {
			msg, ok := e.Message()
			if !ok {
				continue
			}
			at := ex.ticks(e.Time)
			track.Add(at-last, msg)
			last = at
		}
		track.Close(0)
		if err := sm.Add(track); nil != err {
			return nil, errors.Wrapf(err, "adding %s track", ex.Tracks[i].Name)
		}
	}
	return sm, nil
}

func (ex *Exercise) ticks(d time.Duration) uint32 {
	return uint32(math.Round(d.Minutes() * ex.Definition.Tempo * TicksPerBeat))
}
