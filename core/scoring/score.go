package scoring

import (
	"math"

	"marketplace-search-api/core/domain"
)

const (
	// PriorMean is the neutral rating low-volume averages are pulled toward
	PriorMean = 3.0

	// PriorWeight is the number of virtual reviews at PriorMean
	PriorWeight = 10.0

	// MaxVerifiedBonus is awarded for a verified ratio of 1
	MaxVerifiedBonus = 0.15

	// MaxResponseBonus is awarded for an instant response, decaying to zero at ResponseWindowHours
	MaxResponseBonus    = 0.10
	ResponseWindowHours = 24.0

	// MaxRecencyBonus is awarded for a review today, decaying to zero at RecencyWindowDays
	MaxRecencyBonus   = 0.05
	RecencyWindowDays = 90.0

	// MaxTrustBonus caps the sum of all trust bonuses
	MaxTrustBonus = 0.25

	MaxScore = 5.0
)

// Inputs are the signals a marketplace score is computed from
type Inputs struct {
	AverageRating float64
	ReviewCount   *int
	TrustMetrics  *domain.TrustMetrics
}

// InputsFor collects score inputs from a listing
func InputsFor(l *domain.Listing) Inputs {
	count := l.Rating.ReviewCount
	return Inputs{
		AverageRating: l.Rating.Average,
		ReviewCount:   &count,
		TrustMetrics:  l.TrustMetrics,
	}
}

// ComputeMarketplaceScore returns the composite score in [0, 5] rounded to
// one decimal. It is monotonically non-decreasing in AverageRating.
func ComputeMarketplaceScore(in Inputs) float64 {
	base := clamp(in.AverageRating, 0, MaxScore)

	if in.ReviewCount != nil {
		n := math.Max(0, float64(*in.ReviewCount))
		base = (PriorWeight*PriorMean + n*base) / (PriorWeight + n)
	}

	return round1(clamp(base+TrustBonus(in.TrustMetrics), 0, MaxScore))
}

// TrustBonus returns the capped additive bonus for trust signals
func TrustBonus(tm *domain.TrustMetrics) float64 {
	if tm == nil {
		return 0
	}

	bonus := 0.0
	if tm.VerifiedRatio != nil {
		bonus += MaxVerifiedBonus * clamp(*tm.VerifiedRatio, 0, 1)
	}
	if tm.ResponseTimeHours != nil {
		bonus += MaxResponseBonus * decay(*tm.ResponseTimeHours, ResponseWindowHours)
	}
	if tm.ReviewRecencyDays != nil {
		bonus += MaxRecencyBonus * decay(*tm.ReviewRecencyDays, RecencyWindowDays)
	}
	return math.Min(bonus, MaxTrustBonus)
}

// decay maps 0 to 1 and window (or beyond) to 0, linearly
func decay(v, window float64) float64 {
	if v < 0 {
		v = 0
	}
	return clamp(1-v/window, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
