package engine

import (
	"math"

	"github.com/pbaille/voyago/internal/domain"
)

const (
	maxRating       = 5.0
	ratingPenalty   = 0.2
	amortizeDays    = 3.0
	travelDayGrowth = 0.1
)

// BaseCost estimates the cost of visiting one place. Higher-rated places
// carry a smaller markup and the travel-mode factor scales the whole figure.
func BaseCost(fee, rating, factor float64) float64 {
	return fee * (1 + ratingPenalty*(1-rating/maxRating)) * factor
}

// DiscountedCost spreads base over a multi-day trip, reaching full cost at
// three days
func DiscountedCost(base float64, numDays int) float64 {
	return base * math.Min(1.0, float64(numDays)/amortizeDays)
}

// TransitEstimate is the flat per-day trip overhead
func TransitEstimate(perDay, factor float64, numDays int) float64 {
	return perDay * factor * float64(numDays)
}

// TravelFees returns the fare for mode over numDays, growing 10% per extra
// day, along with the base fare it was derived from
func (e *Engine) TravelFees(mode string, numDays int) (fees, base float64) {
	base = e.cfg.TravelCosts.Factor(mode)
	fees = base * (1 + float64(numDays-1)*travelDayGrowth)
	return fees, base
}

// SpendReport totals the travel fare and the recorded expenses of a trip
func (e *Engine) SpendReport(mode string, numDays int, expenses []domain.Expense) domain.SpendReport {
	fees, base := e.TravelFees(mode, numDays)
	var spent float64
	for _, x := range expenses {
		spent += x.Amount
	}
	return domain.SpendReport{
		ActuallySpent:  round2(fees + spent),
		TravelFees:     round2(fees),
		ExpensesTotal:  round2(spent),
		TravelMode:     mode,
		NumDays:        numDays,
		BaseTravelCost: base,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
