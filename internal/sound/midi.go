package sound

import (
	"log/slog"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// MIDIOut sends every channel to an external MIDI device
type MIDIOut struct {
	Send   func(msg midi.Message) error
	Logger *slog.Logger

	port drivers.Out
}

func OpenMIDIOut(port int) (*MIDIOut, error) {
	out, err := midi.OutPort(port)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to find midi output %d", port)
	}
	send, err := midi.SendTo(out)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to open midi output %v", out)
	}
	return &MIDIOut{Send: send, Logger: slog.Default(), port: out}, nil
}

func (m *MIDIOut) Close() error {
	if nil == m.port {
		return nil
	}
	return m.port.Close()
}

func (m *MIDIOut) Channel(channel int) Renderer {
	return &midiChannel{out: m, channel: channel}
}

func (m *MIDIOut) send(e event.Event) {
	msg, ok := e.Message()
	if !ok {
		return
	}
	if err := m.Send(msg); nil != err && nil != m.Logger {
		m.Logger.Error("unable to send midi message", "msg", msg.String(), "err", err)
	}
}

type midiChannel struct {
	out     *MIDIOut
	channel int
}

func (c *midiChannel) NoteOn(p tonality.Pitch, velocity uint8) {
	c.out.send(event.Event{Kind: event.NoteOn, Channel: c.channel, Pitch: p, Velocity: velocity})
}

func (c *midiChannel) NoteOff(p tonality.Pitch) {
	c.out.send(event.Event{Kind: event.NoteOff, Channel: c.channel, Pitch: p})
}

func (c *midiChannel) AllSoundOff() {
	c.out.send(event.Event{Kind: event.AllSoundOff, Channel: c.channel})
}

func OutPorts() []string {
	ports := []string{}
	for _, p := range midi.GetOutPorts() {
		ports = append(ports, p.String())
	}
	return ports
}
