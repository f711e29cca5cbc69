package engine

import (
	"sort"
	"strings"

	"github.com/pbaille/voyago/internal/domain"
)

// Recommend ranks candidates for params and returns at most TopN places,
// best first. Places tied on score keep their catalog order.
//
// An unmatched destination falls back to every candidate, but a category or
// significance filter that leaves nothing yields an empty result.
func (e *Engine) Recommend(candidates []domain.Place, params domain.TripParameters) []domain.ScoredPlace {
	set := MatchDestination(candidates, params.Destination)
	if len(set) == 0 {
		set = sanitizeAll(candidates)
	}
	set = keepIn(set, params.Categories, func(p domain.Place) string { return p.Category })
	set = keepIn(set, params.Significance, func(p domain.Place) string { return p.Significance })
	if len(set) == 0 {
		return []domain.ScoredPlace{}
	}

	ratings := make([]float64, len(set))
	for i, p := range set {
		ratings[i] = p.Rating
	}
	normalized := Normalize(ratings)

	// ranking never depends on how the traveler gets there
	factor := e.cfg.Modes.Fallback()

	scored := make([]domain.ScoredPlace, len(set))
	for i, p := range set {
		sp := domain.ScoredPlace{
			Place:            p,
			NormalizedRating: normalized[i],
			EstimatedCost:    round2(DiscountedCost(BaseCost(p.EntranceFee, p.Rating, factor), params.NumDays)),
		}
		sp.UtilityScore = Utility(sp, params.Budget)
		scored[i] = sp
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].UtilityScore > scored[b].UtilityScore
	})
	if len(scored) > e.cfg.TopN {
		scored = scored[:e.cfg.TopN]
	}
	return scored
}

// MatchDestination returns sanitized copies of the places whose city or
// state equals destination, ignoring case
func MatchDestination(places []domain.Place, destination string) []domain.Place {
	var out []domain.Place
	for _, p := range places {
		if strings.EqualFold(p.City, destination) || strings.EqualFold(p.State, destination) {
			out = append(out, Sanitize(p))
		}
	}
	return out
}

func keepIn(places []domain.Place, allowed []string, field func(domain.Place) string) []domain.Place {
	if len(allowed) == 0 {
		return places
	}
	want := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		want[a] = struct{}{}
	}
	var out []domain.Place
	for _, p := range places {
		if _, ok := want[field(p)]; ok {
			out = append(out, p)
		}
	}
	return out
}

func sanitizeAll(places []domain.Place) []domain.Place {
	out := make([]domain.Place, len(places))
	for i, p := range places {
		out[i] = Sanitize(p)
	}
	return out
}
