package config

import (
	"time"

	"git.lost.host/meutraa/eart/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("eart", "Ear training: listen to a short melody over chords and play it back.")

	LogLevel = app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").Enum("debug", "info", "warn", "error")
	LogFile  = app.Flag("log-file", "Write logs to this file").String()

	Play        = app.Command("play", "Play exercises").Default()
	Level       = Play.Arg("level", "Level name or number, all levels when empty").String()
	Levels      = app.Flag("levels", "YAML file of level definitions").ExistingFile()
	Tempo       = Play.Flag("tempo", "Override the level tempo").Float64()
	LeadIn      = app.Flag("lead-in", "Beats of lead-in before the exercise").Default("4").Int()
	Seed        = app.Flag("seed", "Random seed, time based when 0").Default("0").Int64()
	Tick        = Play.Flag("tick", "Timeline tick period").Default("5ms").Duration()
	FramePeriod = Play.Flag("frame-period", "Render frame period").Default("16ms").Short('p').Duration()
	ListenFirst = Play.Flag("listen-first", "Listen to the melody before your turn").Short('l').Bool()
	Repeat      = Play.Flag("repeat", "Attempts per level").Default("1").Short('r').Int()
	Input       = Play.Flag("input", "Input surface").Default("keyboard").Enum("keyboard", "midi")
	MIDIIn      = Play.Flag("midi-in", "MIDI input port number").Default("0").Int()
	Output      = Play.Flag("output", "Sound output").Default("speaker").Enum("speaker", "midi", "none")
	MIDIOut     = Play.Flag("midi-out", "MIDI output port number").Default("0").Int()
	Tuning      = Play.Flag("tuning", "Frequency of a4").Default("440").Float64()
	Keys        = Play.Flag("keys", "Keyboard keys from the base note upwards").Default("awsedftgyhujkolp;'").String()
	BaseNote    = Play.Flag("base-note", "Note of the first key").Default("c4").String()

	List = app.Command("list", "List levels")

	Export      = app.Command("export", "Write a generated level as a standard MIDI file")
	ExportLevel = Export.Arg("level", "Level name or number").Required().String()
	ExportFile  = Export.Arg("file", "Output .mid file").Required().String()

	Devices = app.Command("devices", "List MIDI ports")

	// Point tiers by ranking distance, ascending, the last one catches everything else
	Judgements = []game.Judgement{
		{Distance: 0.01, Points: 100, Name: "Perfect"},
		{Distance: 0.05, Points: 50, Name: "Great"},
		{Distance: 0.09, Points: 10, Name: "Good"},
		{Points: 0, Name: "Miss"},
	}

	// Input notes further than this from every target are not matched
	MatchWindow = 300 * time.Millisecond
)

// Parse the command line, returning the selected command
func Parse(args []string) (string, error) {
	app.Version("0.3.0")
	app.HelpFlag.Short('h')
	return app.Parse(args)
}
