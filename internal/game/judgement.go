package game

// Judgement is a points tier awarded when the ranking distance is below Distance
type Judgement struct {
	Name     string
	Distance float64
	Points   int
}

// Judge returns the first tier the distance falls under, tiers must be ascending.
// The last tier is used when no threshold matches.
func Judge(judgements []Judgement, distance float64) (int, *Judgement) {
	for i := 0; i < len(judgements)-1; i++ {
		if distance < judgements[i].Distance {
			return i, &judgements[i]
		}
	}
	if len(judgements) == 0 {
		return -1, nil
	}
	i := len(judgements) - 1
	return i, &judgements[i]
}
