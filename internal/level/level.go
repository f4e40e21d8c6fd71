package level

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/eart/internal/game"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

var ErrUnknownLevel = errors.New("unknown level")

//go:embed levels.yaml
var builtin []byte

// Default is the built in catalog
func Default() ([]game.Definition, error) {
	return Load(bytes.NewReader(builtin))
}

func Load(r io.Reader) ([]game.Definition, error) {
	var defs []game.Definition
	if err := yaml.NewDecoder(r).Decode(&defs); nil != err {
		return nil, errors.Wrap(err, "unable to decode levels")
	}
	for i := range defs {
		defs[i] = defs[i].WithDefaults()
		if defs[i].Name == "" {
			defs[i].Name = strconv.Itoa(i + 1)
		}
	}
	return defs, nil
}

func LoadFile(path string) ([]game.Definition, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Find selects a level by its name or its 1-based position
func Find(defs []game.Definition, key string) (game.Definition, error) {
	for _, d := range defs {
		if strings.EqualFold(d.Name, key) {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(key); nil == err && n >= 1 && n <= len(defs) {
		return defs[n-1], nil
	}
	return game.Definition{}, errors.Wrapf(ErrUnknownLevel, "%q", key)
}
