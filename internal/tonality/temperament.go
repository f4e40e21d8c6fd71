package tonality

import "math"

const ConcertPitch = 440.0

// Pitch 69 (a4) sounds at the reference frequency
const referenceA Pitch = 69

type Temperament interface {
	// Ratio of p to the frequency of c4
	Ratio(p Pitch) float64
}

// Ratios of each semitone above c within one octave
var equalTemperament = [12]float64{
	1, 1.059463, 1.122462, 1.189207, 1.259921, 1.334840,
	1.414214, 1.498307, 1.587401, 1.681793, 1.781797, 1.887749,
}

type EqualTemperament struct{}

func (EqualTemperament) Ratio(p Pitch) float64 {
	return EqualTemperamentRatio(p)
}

// EqualTemperamentRatio is exactly 1 at c4 and doubles every octave
func EqualTemperamentRatio(p Pitch) float64 {
	d := int(p - ReferencePitch)
	return math.Ldexp(equalTemperament[mod(d, 12)], floorDiv(d, 12))
}

type Tuning struct {
	ReferenceHz float64
	Temperament Temperament
}

func DefaultTuning() Tuning {
	return Tuning{ReferenceHz: ConcertPitch, Temperament: EqualTemperament{}}
}

// Hz of p so that a4 sounds at ReferenceHz
func (t Tuning) Hz(p Pitch) float64 {
	temperament := t.Temperament
	if nil == temperament {
		temperament = EqualTemperament{}
	}
	ref := t.ReferenceHz
	if ref <= 0 {
		ref = ConcertPitch
	}
	return temperament.Ratio(p) * ref / temperament.Ratio(referenceA)
}
