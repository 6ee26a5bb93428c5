package domain

import "math"

const (
	MinRating = 1.0
	MaxRating = 5.0
)

// ValidRating reports whether r lies within [MinRating, MaxRating].
func ValidRating(r float64) bool {
	return !math.IsNaN(r) && r >= MinRating && r <= MaxRating
}

// RoundScore rounds half-up to one fractional digit, the precision every
// averaged score is exposed with.
func RoundScore(v float64) float64 {
	// the epsilon absorbs binary representation error (3.65 is 3.6499999...)
	return math.Floor(v*10+0.5+1e-9) / 10
}

// Tally is the full-precision state behind a running mean: the sum of every
// accepted rating and how many there were. Only Score is rounded.
type Tally struct {
	Sum   float64
	Count int
}

// RestoreTally rebuilds a tally from stored fields. Rows written before the
// sum was kept carry only the rounded score, which is then the best estimate.
func RestoreTally(score *float64, sum float64, count int) Tally {
	if count <= 0 {
		return Tally{}
	}
	if sum == 0 && score != nil {
		sum = *score * float64(count)
	}
	return Tally{Sum: sum, Count: count}
}

// Add folds rating into the tally. An invalid rating leaves it unchanged.
func (t Tally) Add(rating float64) (Tally, error) {
	if !ValidRating(rating) {
		return t, ErrInvalidArgument
	}
	if t.Count < 0 {
		t = Tally{}
	}
	return Tally{Sum: t.Sum + rating, Count: t.Count + 1}, nil
}

// Score is the mean of every rating, rounded half-up to one decimal. It is
// nil while no rating has been received.
func (t Tally) Score() *float64 {
	if t.Count <= 0 {
		return nil
	}
	v := RoundScore(t.Sum / float64(t.Count))
	return &v
}
