package sound

import (
	"log/slog"

	"git.lost.host/meutraa/eart/internal/event"
)

// Output routes events to a renderer per channel, channel 1 is Channels[0]
type Output struct {
	Channels []Renderer
	Logger   *slog.Logger
}

func NewOutput(channels ...Renderer) *Output {
	return &Output{Channels: channels, Logger: slog.Default()}
}

func (o *Output) Dispatch(e event.Event) {
	if e.Kind == event.TempoChange {
		return
	}
	i := e.Channel - 1
	if i < 0 || i >= len(o.Channels) || nil == o.Channels[i] {
		if nil != o.Logger {
			o.Logger.Warn("channel outside bounds", "channel", e.Channel, "channels", len(o.Channels))
		}
		return
	}
	ch := o.Channels[i]
	switch e.Kind {
	case event.NoteOn:
		ch.NoteOn(e.Pitch, e.Velocity)
	case event.NoteOff:
		ch.NoteOff(e.Pitch)
	case event.AllSoundOff:
		ch.AllSoundOff()
	}
}

// AllSoundOff silences every channel
func (o *Output) AllSoundOff() {
	for i := range o.Channels {
		e, _ := event.NewAllSoundOff(i+1, 0)
		o.Dispatch(e)
	}
}
