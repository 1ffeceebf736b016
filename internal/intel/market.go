package intel

import (
	"sort"

	"github.com/mlutsenko/prevet/internal/model"
)

// Feasibility classifies how realistic the required market penetration is.
type Feasibility string

const (
	FeasibilityAchievable  Feasibility = "achievable"
	FeasibilityAggressive  Feasibility = "aggressive"
	FeasibilityUnrealistic Feasibility = "unrealistic"
)

// Standing is one competitor with its derived market position.
type Standing struct {
	model.Competitor
	MarketSharePct float64 `json:"market_share_pct"` // 0 when visits are unknown
	ARPUEstimate   string  `json:"arpu_estimate"`    // coarse bucket, e.g. "$40-60/mo"
}

// Analysis is the full output of the market and strategy calculator.
type Analysis struct {
	TotalMarketVisits int64      `json:"total_market_visits"`
	UnknownTraffic    int        `json:"unknown_traffic"` // competitors with no visit data
	Ranked            []Standing `json:"ranked"`

	TargetAnnualRevenue    float64 `json:"target_annual_revenue"`
	RequiredAnnualVisitors float64 `json:"required_annual_visitors"`
	RequiredMonthlyVisits  float64 `json:"required_monthly_visits"`
	PenetrationPct         float64 `json:"penetration_pct"`

	Feasibility       Feasibility `json:"feasibility"`
	PremiumMultiplier float64     `json:"premium_multiplier"` // target ARPU vs reference
}

// Calculator derives market size, feasibility, and pricing heuristics from a
// normalized competitor set. All divisions guard the zero denominator and
// resolve to 0; the calculator never fails.
type Calculator struct {
	policy model.MarketPolicy
}

// NewCalculator creates a calculator with the given policy constants.
func NewCalculator(policy model.MarketPolicy) *Calculator {
	return &Calculator{policy: policy}
}

// Calculate runs the full market analysis.
//
// Competitors with unknown visit counts contribute 0 to the market total and
// receive a 0% share. That matches the historical reports but understates
// the real market; UnknownTraffic surfaces how many records were affected.
func (c *Calculator) Calculate(competitors []model.Competitor, pos model.PositioningInput) *Analysis {
	a := &Analysis{}

	for i := range competitors {
		if competitors[i].Traffic.CurrentVisits == nil {
			a.UnknownTraffic++
		}
		a.TotalMarketVisits += competitors[i].CurrentVisitsOrZero()
	}

	// Descending by visits; stable so equal (and unknown) entries keep
	// their input order.
	ranked := make([]model.Competitor, len(competitors))
	copy(ranked, competitors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CurrentVisitsOrZero() > ranked[j].CurrentVisitsOrZero()
	})

	for i := range ranked {
		a.Ranked = append(a.Ranked, Standing{
			Competitor:     ranked[i],
			MarketSharePct: c.marketShare(&ranked[i], a.TotalMarketVisits),
			ARPUEstimate:   c.arpuEstimate(&ranked[i]),
		})
	}

	a.TargetAnnualRevenue = float64(pos.TargetUsers) * pos.TargetARPU * 12

	if c.policy.ConversionRate > 0 {
		a.RequiredAnnualVisitors = float64(pos.TargetUsers) / c.policy.ConversionRate
	}
	a.RequiredMonthlyVisits = a.RequiredAnnualVisitors / 12

	if a.TotalMarketVisits > 0 {
		a.PenetrationPct = a.RequiredMonthlyVisits / float64(a.TotalMarketVisits) * 100
	}
	a.Feasibility = c.feasibility(a.PenetrationPct)

	if c.policy.ReferenceARPU > 0 {
		a.PremiumMultiplier = pos.TargetARPU / c.policy.ReferenceARPU
	}

	return a
}

func (c *Calculator) marketShare(comp *model.Competitor, total int64) float64 {
	if total == 0 || comp.Traffic.CurrentVisits == nil {
		return 0
	}
	return float64(*comp.Traffic.CurrentVisits) / float64(total) * 100
}

// feasibility applies the fixed bands, inclusive at the lower bound: a
// penetration of exactly 5 is already aggressive, exactly 10 already
// unrealistic.
func (c *Calculator) feasibility(penetrationPct float64) Feasibility {
	switch {
	case penetrationPct >= c.policy.UnrealisticAt:
		return FeasibilityUnrealistic
	case penetrationPct >= c.policy.AggressiveAt:
		return FeasibilityAggressive
	default:
		return FeasibilityAchievable
	}
}

// arpuEstimate buckets a competitor's likely ARPU by traffic volume.
// Unknown traffic lands in the lowest bucket.
func (c *Calculator) arpuEstimate(comp *model.Competitor) string {
	visits := comp.CurrentVisitsOrZero()
	switch {
	case visits > c.policy.HighTrafficFloor:
		return "$40-60/mo"
	case visits > c.policy.MidTrafficFloor:
		return "$20-40/mo"
	default:
		return "$10-30/mo"
	}
}
