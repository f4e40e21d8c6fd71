package score

import (
	"math"
	"testing"
	"time"

	"git.lost.host/meutraa/eart/internal/game"
	"git.lost.host/meutraa/eart/internal/tonality"
)

var result float64

func BenchmarkDistance(b *testing.B) {
	total := 0.0
	p := &game.Note{Pitch: 60, Time: time.Millisecond * 12456}
	q := &game.Note{Pitch: 62, Time: time.Millisecond * 12656}
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		total += Distance(p, q)
	}

	result = total
}

type distanceTest struct {
	PitchDelta tonality.Pitch
	TimeDelta  time.Duration
	Expected   float64
}

var distanceTests = []distanceTest{
	{0, 0, 0},
	{0, 50 * time.Millisecond, 0.0025},
	{0, -50 * time.Millisecond, 0.0025},
	{0, 100 * time.Millisecond, 0.01},
	{0, 299 * time.Millisecond, 0.089401},
	{1, 0, 1},
	{-2, 0, 4},
	{1, 100 * time.Millisecond, 1.01},
}

func TestDistance(t *testing.T) {
	target := &game.Note{Pitch: 60, Time: time.Second}
	for _, test := range distanceTests {
		input := &game.Note{Pitch: target.Pitch + test.PitchDelta, Time: target.Time + test.TimeDelta}
		d := Distance(input, target)
		if math.Abs(d-test.Expected) > 1e-9 {
			t.Log("  Pitch delta:", test.PitchDelta)
			t.Log("   Time delta:", test.TimeDelta)
			t.Log("     Distance:", d)
			t.Log("     Expected:", test.Expected)
			t.Fail()
		}
		if Distance(target, input) != d {
			t.Log("distance is not symmetric for", test)
			t.Fail()
		}
	}
}
