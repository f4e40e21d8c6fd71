package input

import (
	"context"
	"log/slog"

	"git.lost.host/meutraa/eart/internal/event"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
)

// MIDIIn publishes notes from a MIDI input port
type MIDIIn struct {
	Port   int
	Logger *slog.Logger
}

func (m *MIDIIn) Receive(msg midi.Message, d *Dispatcher) {
	e, ok := event.FromMessage(msg, 0)
	if !ok {
		return
	}
	d.Publish(e)
}

func (m *MIDIIn) Run(ctx context.Context, d *Dispatcher) error {
	logger := m.Logger
	if nil == logger {
		logger = slog.Default()
	}
	in, err := midi.InPort(m.Port)
	if nil != err {
		return errors.Wrapf(err, "unable to find midi input %d", m.Port)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		m.Receive(msg, d)
	}, midi.HandleError(func(err error) {
		logger.Error("midi input", "port", in.String(), "err", err)
	}))
	if nil != err {
		return errors.Wrapf(err, "unable to listen to %v", in)
	}
	logger.Info("midi input connected", "port", in.String())
	<-ctx.Done()
	stop()
	return in.Close()
}

func InPorts() []string {
	ports := []string{}
	for _, p := range midi.GetInPorts() {
		ports = append(ports, p.String())
	}
	return ports
}
