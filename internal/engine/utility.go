package engine

import (
	"math"

	"github.com/pbaille/voyago/internal/domain"
)

// Utility weights
const (
	WeightRating        = 0.5
	WeightAffordability = 0.3
	WeightDuration      = 0.2
)

// Utility blends normalized rating, affordability against budget and a
// logarithmic preference for shorter visits into one score in about [0,1]
func Utility(sp domain.ScoredPlace, budget float64) float64 {
	rating := sp.NormalizedRating / maxRating
	afford := math.Min(1.0, budget/(sp.EstimatedCost+1.0))
	duration := 1.0 / (1.0 + math.Log1p(sp.VisitHours))
	return WeightRating*rating + WeightAffordability*afford + WeightDuration*duration
}
