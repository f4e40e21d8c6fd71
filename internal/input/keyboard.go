package input

import (
	"context"
	"log/slog"
	"time"

	"git.lost.host/meutraa/eart/internal/event"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

var ErrQuit = errors.New("quit")

const (
	DefaultKeys     = "awsedftgyhujkolp;'"
	DefaultHold     = 250 * time.Millisecond
	DefaultVelocity = 100
)

// Keyboard plays notes from the computer keyboard laid out like a piano,
// the first key plays Base. Terminals do not report key releases so every
// note is held for Hold.
type Keyboard struct {
	Keys   []rune
	Base   tonality.Pitch
	Hold   time.Duration
	Logger *slog.Logger
}

func NewKeyboard(keys string, base tonality.Pitch) *Keyboard {
	if keys == "" {
		keys = DefaultKeys
	}
	return &Keyboard{Keys: []rune(keys), Base: base, Hold: DefaultHold, Logger: slog.Default()}
}

func (k *Keyboard) Pitch(r rune) (tonality.Pitch, bool) {
	for i, c := range k.Keys {
		if r == c {
			return k.Base + tonality.Pitch(i), true
		}
	}
	return 0, false
}

// Handle turns a key press into a note on followed by a note off
func (k *Keyboard) Handle(ev keyboard.KeyEvent, d *Dispatcher) error {
	if nil != ev.Err {
		return errors.Wrap(ev.Err, "reading keyboard")
	}
	if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC {
		return ErrQuit
	}
	p, ok := k.Pitch(ev.Rune)
	if !ok {
		return nil
	}
	on, err := event.NewNoteOn(1, p, DefaultVelocity, 0)
	if nil != err {
		if nil != k.Logger {
			k.Logger.Warn("key out of range", "key", string(ev.Rune), "err", err)
		}
		return nil
	}
	d.Publish(on)
	off, _ := event.NewNoteOff(1, p, 0)
	time.AfterFunc(k.Hold, func() { d.Publish(off) })
	return nil
}

// Run reads keys until ctx ends or the player quits
func (k *Keyboard) Run(ctx context.Context, d *Dispatcher) error {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	defer func() {
		if err := keyboard.Close(); nil != err && nil != k.Logger {
			k.Logger.Error("unable to close keyboard", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-keys:
			if err := k.Handle(ev, d); nil != err {
				return err
			}
		}
	}
}
