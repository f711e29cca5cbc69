package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/pbaille/voyago/internal/domain"
)

// BuildItinerary fills days greedily with selected, in order, starting each
// day at DayStartHour. When the next visit would push the day past
// MaxHoursPerDay it moves to the following day without checking that it
// fits there, so an oversized visit still gets a day of its own. Places that
// would land after the last trip day are dropped.
//
// Item costs use the trip's actual travel mode at full price; the total adds
// the per-day transit estimate.
func (e *Engine) BuildItinerary(selected []domain.Place, params domain.TripParameters) (domain.Itinerary, error) {
	if len(selected) == 0 {
		return domain.Itinerary{}, ErrEmptySelection
	}

	factor := e.cfg.Modes.Factor(params.TravelMode)

	day, used := 1, 0.0
	items := make([]domain.ItineraryItem, 0, len(selected))
	var total float64

	for _, raw := range selected {
		p := Sanitize(raw)
		duration := p.VisitHours

		if used+duration > e.cfg.MaxHoursPerDay {
			day++
			used = 0
		}
		if day > params.NumDays {
			break
		}

		start := e.cfg.DayStartHour + used
		cost := BaseCost(p.EntranceFee, p.Rating, factor)
		total += cost

		items = append(items, domain.ItineraryItem{
			Day:           day,
			PlaceName:     p.Name,
			StartTime:     FormatClock(start),
			EndTime:       FormatClock(start + duration),
			Notes:         "Type: " + p.Category,
			EstimatedCost: round2(cost),
		})
		used += duration
	}

	transit := TransitEstimate(e.cfg.TransitPerDay, factor, params.NumDays)
	return domain.Itinerary{
		Items:       items,
		TransitCost: round2(transit),
		TotalCost:   round2(total + transit),
	}, nil
}

// SelectPlaces picks the places to schedule for params. Named places are
// taken from catalog when any are given, otherwise the FallbackTopN best
// rated places at the destination. Either way the result is ordered by
// rating, highest first.
func (e *Engine) SelectPlaces(catalog []domain.Place, params domain.TripParameters) []domain.Place {
	var picked []domain.Place
	if len(params.SelectedPlaces) > 0 {
		want := make(map[string]struct{}, len(params.SelectedPlaces))
		for _, n := range params.SelectedPlaces {
			want[n] = struct{}{}
		}
		for _, p := range catalog {
			if _, ok := want[p.Name]; ok {
				picked = append(picked, Sanitize(p))
			}
		}
	} else {
		picked = MatchDestination(catalog, params.Destination)
	}

	sort.SliceStable(picked, func(a, b int) bool {
		return picked[a].Rating > picked[b].Rating
	})
	if len(params.SelectedPlaces) == 0 && len(picked) > e.cfg.FallbackTopN {
		picked = picked[:e.cfg.FallbackTopN]
	}
	return picked
}

// FormatClock renders decimal hours as a 24-hour "HH:MM" string, rounding
// to the nearest minute. Hours past midnight are not wrapped.
func FormatClock(hours float64) string {
	total := int(math.Round(hours * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
