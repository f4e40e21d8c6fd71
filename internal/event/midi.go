package event

import (
	"time"

	"git.lost.host/meutraa/eart/internal/tonality"
	"gitlab.com/gomidi/midi/v2"
)

// Controller number of the channel mode message "all sound off"
const allSoundOffController = 120

func midiChannel(channel int) uint8 {
	c := channel - 1
	if c < 0 {
		c = 0
	}
	if c > 15 {
		c = 15
	}
	return uint8(c)
}

// Message converts e to its wire form. Tempo changes have none.
func (e Event) Message() (midi.Message, bool) {
	ch := midiChannel(e.Channel)
	switch e.Kind {
	case NoteOn:
		return midi.NoteOn(ch, uint8(e.Pitch), e.Velocity), true
	case NoteOff:
		return midi.NoteOff(ch, uint8(e.Pitch)), true
	case AllSoundOff:
		return midi.ControlChange(ch, allSoundOffController, 0), true
	}
	return nil, false
}

// FromMessage reads note and all sound off messages, a note on with zero velocity is a note off
func FromMessage(msg midi.Message, at time.Duration) (Event, bool) {
	var ch, key, vel, controller, value uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return Event{Kind: NoteOn, Channel: int(ch) + 1, Time: at, Pitch: tonality.Pitch(key), Velocity: vel}, true
	case msg.GetNoteEnd(&ch, &key):
		return Event{Kind: NoteOff, Channel: int(ch) + 1, Time: at, Pitch: tonality.Pitch(key)}, true
	case msg.GetControlChange(&ch, &controller, &value) && controller == allSoundOffController:
		return Event{Kind: AllSoundOff, Channel: int(ch) + 1, Time: at}, true
	}
	return Event{}, false
}
