package engine

import (
	"math"

	"github.com/pbaille/voyago/internal/domain"
)

// Normalize rescales ratings to 0–5 across this set. When every rating is
// equal each one maps to 5.0.
func Normalize(ratings []float64) []float64 {
	out := make([]float64, len(ratings))
	if len(ratings) == 0 {
		return out
	}
	mn, mx := minMax(ratings)
	for i, r := range ratings {
		if mx > mn {
			out[i] = (r - mn) / (mx - mn) * maxRating
		} else {
			out[i] = maxRating
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	mn, mx := values[0], values[0]
	for _, v := range values[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}

// Sanitize returns a copy of p with malformed numbers replaced: ratings
// outside 0–5 become 0, negative fees become 0, durations <=0 become 1h
func Sanitize(p domain.Place) domain.Place {
	if !finite(p.Rating) || p.Rating < 0 || p.Rating > maxRating {
		p.Rating = 0
	}
	if !finite(p.EntranceFee) || p.EntranceFee < 0 {
		p.EntranceFee = 0
	}
	if !finite(p.VisitHours) || p.VisitHours <= 0 {
		p.VisitHours = 1.0
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
