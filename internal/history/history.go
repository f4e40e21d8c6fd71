package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/score"
	"git.lost.host/meutraa/eart/internal/tonality"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Store keeps the attempts of the running process, nothing is written to disk
type Store struct {
	Logger *slog.Logger

	db *sql.DB
}

type Attempt struct {
	ID      uuid.UUID
	Sum     string
	Score   int
	Created time.Time
	Inputs  []*game.Note
}

type InputsCompact struct {
	Pitch tonality.Pitch  `msgpack:"p"`
	Times []time.Duration `msgpack:"t"`
}

// compactInputs groups input times by pitch, in order of first appearance
func compactInputs(inputs []*game.Note) []InputsCompact {
	ins := []InputsCompact{}
	index := map[tonality.Pitch]int{}
	for _, in := range inputs {
		i, ok := index[in.Pitch]
		if !ok {
			i = len(ins)
			index[in.Pitch] = i
			ins = append(ins, InputsCompact{Pitch: in.Pitch})
		}
		ins[i].Times = append(ins[i].Times, in.Time)
	}
	return ins
}

// uncompactInputs restores the inputs in the order they were played
func uncompactInputs(inputs []InputsCompact) []*game.Note {
	notes := []*game.Note{}
	for _, in := range inputs {
		for _, t := range in.Times {
			notes = append(notes, &game.Note{Pitch: in.Pitch, Time: t})
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	for i, n := range notes {
		n.Index = i
	}
	return notes
}

// Sum identifies an exercise by its tempo and melody
func Sum(tempo float64, melody game.Track) string {
	h := sha256.Sum256([]byte(strconv.FormatFloat(tempo, 'f', -1, 64) + "|" + strings.Join(melody.Tokens, " ")))
	return base64.StdEncoding.EncodeToString(h[:])
}

func (s *Store) Init() error {
	db, err := sql.Open("sqlite3", ":memory:")
	if nil != err {
		return errors.Wrap(err, "unable to open attempt log")
	}
	// Every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	initStatement := `
	create table if not exists attempts
	  (
		  id text not null primary key,
		  sum text not null,
		  score integer not null,
		  created integer not null,
		  inputs blob
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return errors.Wrap(err, "unable to create attempt log")
	}
	s.db = db
	return nil
}

func (s *Store) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *Store) logger() *slog.Logger {
	if nil == s.Logger {
		return slog.Default()
	}
	return s.Logger
}

func (s *Store) Save(sum string, result score.Result) (Attempt, error) {
	data, err := msgpack.Marshal(compactInputs(result.Inputs))
	if nil != err {
		return Attempt{}, errors.Wrap(err, "unable to marshal inputs")
	}
	a := Attempt{
		ID:      uuid.New(),
		Sum:     sum,
		Score:   result.Score,
		Created: time.Now(),
		Inputs:  result.Inputs,
	}
	_, err = s.db.Exec("insert into attempts(id, sum, score, created, inputs) values(?, ?, ?, ?, ?)",
		a.ID.String(), sum, a.Score, a.Created.UnixNano(), data)
	if nil != err {
		return Attempt{}, errors.Wrap(err, "unable to save attempt")
	}
	return a, nil
}

// Load returns the attempts at an exercise, oldest first
func (s *Store) Load(sum string) ([]Attempt, error) {
	rows, err := s.db.Query("select id, score, created, inputs from attempts where sum = ? order by created, rowid", sum)
	if nil != err {
		return nil, errors.Wrap(err, "unable to load attempts")
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		var id string
		var points int
		var created int64
		var data []byte
		if err := rows.Scan(&id, &points, &created, &data); nil != err {
			return nil, errors.Wrap(err, "unable to read attempt")
		}
		var ins []InputsCompact
		if err := msgpack.Unmarshal(data, &ins); nil != err {
			s.logger().Warn("unable to unmarshal attempt inputs", "id", id, "err", err)
			continue
		}
		a := Attempt{Sum: sum, Score: points, Created: time.Unix(0, created), Inputs: uncompactInputs(ins)}
		if a.ID, err = uuid.Parse(id); nil != err {
			s.logger().Warn("bad attempt id", "id", id, "err", err)
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Best is the highest score at an exercise, false when it was never attempted
func (s *Store) Best(sum string) (int, bool, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("select max(score) from attempts where sum = ?", sum).Scan(&best); nil != err {
		return 0, false, errors.Wrap(err, "unable to query best score")
	}
	return int(best.Int64), best.Valid, nil
}

// Rescore replays an attempt against the targets it was played to
func Rescore(scorer *score.DefaultScorer, targets []*game.Note, a Attempt) score.Result {
	return scorer.Replay(targets, a.Inputs)
}
