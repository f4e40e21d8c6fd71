package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/eart/internal/game"
	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	Hits       int
	Misses     int
	MeanOffset time.Duration // positive when playing late
	StdDev     time.Duration
}

// Summarize counts matched targets and the spread of their timing offsets
func Summarize(targets []*game.Note) Stats {
	var st Stats
	offsets := []float64{}
	for _, n := range targets {
		matched := false
		for _, a := range n.Associations {
			if a.Scored {
				matched = true
				offsets = append(offsets, float64(a.TimeDelta))
				break
			}
		}
		if matched {
			st.Hits++
		} else {
			st.Misses++
		}
	}
	if len(offsets) > 0 {
		st.MeanOffset = time.Duration(math.Round(stat.Mean(offsets, nil)))
	}
	if len(offsets) > 1 {
		st.StdDev = time.Duration(math.Round(stat.StdDev(offsets, nil)))
	}
	return st
}
