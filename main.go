package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"git.lost.host/meutraa/eart/internal/config"
	"git.lost.host/meutraa/eart/internal/exercise"
	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/generator"
	"git.lost.host/meutraa/eart/internal/history"
	"git.lost.host/meutraa/eart/internal/input"
	"git.lost.host/meutraa/eart/internal/level"
	"git.lost.host/meutraa/eart/internal/render"
	"git.lost.host/meutraa/eart/internal/sound"
	"git.lost.host/meutraa/eart/internal/theme"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/pkg/errors"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger writes to the log file, or stderr unless the terminal is taken by the player
func newLogger(interactive bool) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case *config.LogFile != "":
		f, err := os.OpenFile(*config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if nil != err {
			return nil, closer, errors.Wrap(err, "unable to open log file")
		}
		w = f
		closer = func() { f.Close() }
	case interactive:
		w = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevels[*config.LogLevel]}))
	return logger, closer, nil
}

func loadLevels() ([]game.Definition, error) {
	if *config.Levels != "" {
		return level.LoadFile(*config.Levels)
	}
	return level.Default()
}

func newGenerator(logger *slog.Logger) *generator.DefaultGenerator {
	seed := *config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := generator.New(seed)
	gen.LeadInBeats = *config.LeadIn
	gen.Logger = logger
	return gen
}

func run(args []string) error {
	cmd, err := config.Parse(args)
	if nil != err {
		return err
	}

	logger, closeLog, err := newLogger(cmd == config.Play.FullCommand())
	if nil != err {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	defs, err := loadLevels()
	if nil != err {
		return err
	}

	switch cmd {
	case config.List.FullCommand():
		for i, d := range defs {
			fmt.Printf("%2v) %-24v %5v bpm  %v\n", i+1, d.Name, d.Tempo, d.Chords)
		}
		return nil
	case config.Devices.FullCommand():
		fmt.Println("MIDI inputs:")
		for i, p := range input.InPorts() {
			fmt.Printf("%3v) %v\n", i, p)
		}
		fmt.Println("MIDI outputs:")
		for i, p := range sound.OutPorts() {
			fmt.Printf("%3v) %v\n", i, p)
		}
		return nil
	case config.Export.FullCommand():
		return export(defs, logger)
	}
	return play(defs, logger)
}

func export(defs []game.Definition, logger *slog.Logger) error {
	def, err := level.Find(defs, *config.ExportLevel)
	if nil != err {
		return err
	}
	ex, err := exercise.Build(newGenerator(logger), def)
	if nil != err {
		return err
	}
	sm, err := ex.SMF()
	if nil != err {
		return err
	}
	if err := sm.WriteFile(*config.ExportFile); nil != err {
		return errors.Wrapf(err, "unable to write %s", *config.ExportFile)
	}
	logger.Info("exported", "level", def.Name, "file", *config.ExportFile)
	return nil
}

// openOutput builds the melody, chord, metronome and echo channels
func openOutput(logger *slog.Logger) (*sound.Output, func(), error) {
	switch *config.Output {
	case "speaker":
		tuning := tonality.Tuning{ReferenceHz: *config.Tuning, Temperament: tonality.EqualTemperament{}}
		sp := sound.NewSpeaker(sound.DefaultSampleRate)
		if err := sp.Start(); nil != err {
			logger.Error("unable to open speaker", "err", err)
			return nil, nil, errors.Wrap(err, "unable to open speaker")
		}
		out := sound.NewOutput(
			sp.Synth(sound.Piano, 0.6, tuning),
			sp.Synth(sound.Strings, 0.6, tuning),
			sp.Synth(sound.Click, 1, tuning),
			sp.Synth(sound.Piano, 0.6, tuning),
		)
		out.Logger = logger
		return out, func() {}, nil
	case "midi":
		m, err := sound.OpenMIDIOut(*config.MIDIOut)
		if nil != err {
			logger.Error("unable to open midi output", "port", *config.MIDIOut, "err", err)
			return nil, nil, err
		}
		m.Logger = logger
		out := sound.NewOutput(m.Channel(1), m.Channel(2), m.Channel(3), m.Channel(4))
		out.Logger = logger
		return out, func() { m.Close() }, nil
	}
	out := sound.NewOutput(sound.Silent{}, sound.Silent{}, sound.Silent{}, sound.Silent{})
	out.Logger = logger
	return out, func() {}, nil
}

func play(defs []game.Definition, logger *slog.Logger) error {
	if *config.Level != "" {
		def, err := level.Find(defs, *config.Level)
		if nil != err {
			return err
		}
		defs = []game.Definition{def}
	}
	if *config.Tempo > 0 {
		for i := range defs {
			defs[i].Tempo = *config.Tempo
		}
	}

	output, closeOutput, err := openOutput(logger)
	if nil != err {
		return err
	}
	defer closeOutput()

	store := &history.Store{Logger: logger}
	if err := store.Init(); nil != err {
		return err
	}
	defer store.Deinit()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	// Everything the player plays is echoed on channel 4
	inputs := &input.Dispatcher{All: 4}
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	var source interface {
		Run(ctx context.Context, d *input.Dispatcher) error
	}
	switch *config.Input {
	case "midi":
		source = &input.MIDIIn{Port: *config.MIDIIn, Logger: logger}
	default:
		base, err := tonality.NameToPitch(*config.BaseNote, true)
		if nil != err {
			return err
		}
		kb := input.NewKeyboard(*config.Keys, base)
		kb.Logger = logger
		source = kb
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := source.Run(ctx, inputs); nil != err {
			if !errors.Is(err, input.ErrQuit) {
				logger.Error("input stopped", "err", err)
			}
			cancel()
		}
	}()

	r := render.NewDefaultRenderer()
	if err := r.Init(); nil != err {
		return err
	}
	program := &Program{
		History:  store,
		Theme:    &theme.DefaultTheme{},
		Renderer: r,
		Logger:   logger,
	}
	program.Session = exercise.New(output, inputs, newGenerator(logger),
		exercise.WithQuantum(*config.Tick),
		exercise.WithLogger(logger),
		exercise.WithOnHit(program.OnHit),
		exercise.WithOnBeat(program.OnBeat),
	)
	go func() {
		<-ctx.Done()
		program.Session.Stop()
	}()

	err = program.Run(ctx, defs, *config.Repeat, *config.ListenFirst)
	output.AllSoundOff()
	if derr := r.Deinit(); nil != derr && nil == err {
		err = derr
	}
	if nil != err {
		return err
	}

	for _, def := range defs {
		if best, ok := program.Bests[def.Name]; ok {
			fmt.Printf("%v: best %v\n", def.Name, best)
		}
	}
	return nil
}
