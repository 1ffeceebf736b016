// Package scorecard computes the composite validation score for one tool
// from aggregated funnel counts. The engine is read-only and idempotent:
// scoring the same store contents twice yields the same result.
package scorecard

import (
	"context"
	"fmt"
	"math"

	"github.com/mlutsenko/prevet/internal/model"
	"github.com/mlutsenko/prevet/internal/store"
)

// Engine computes scorecards against a validation store.
type Engine struct {
	store  store.Store
	policy model.ScorePolicy
}

// NewEngine creates an engine with the given policy constants.
func NewEngine(st store.Store, policy model.ScorePolicy) *Engine {
	return &Engine{store: st, policy: policy}
}

// Score queries the three collections for the tool and computes the
// weighted 0-500 composite.
func (e *Engine) Score(ctx context.Context, tool string) (*model.Scorecard, error) {
	visitors, err := e.store.CountVisits(ctx, tool)
	if err != nil {
		return nil, fmt.Errorf("visits for %q: %w", tool, err)
	}
	clicks, err := e.store.CountCTAClicks(ctx, tool)
	if err != nil {
		return nil, fmt.Errorf("cta clicks for %q: %w", tool, err)
	}
	interviews, err := e.store.ListInterviews(ctx, tool)
	if err != nil {
		return nil, fmt.Errorf("interviews for %q: %w", tool, err)
	}

	counts := model.FunnelCounts{
		Visitors:   visitors,
		CTAClicks:  clicks,
		Interviews: len(interviews),
	}
	for _, iv := range interviews {
		if iv.WouldPay {
			counts.WouldPay++
		}
		if iv.Urgency == model.UrgencyHigh {
			counts.HighUrgency++
		}
	}

	sc := e.Compute(counts)
	sc.Tool = tool
	return sc, nil
}

// Compute derives the scorecard from funnel counts alone. Every division
// guards the zero denominator and resolves to 0; no input produces NaN or
// infinity.
func (e *Engine) Compute(counts model.FunnelCounts) *model.Scorecard {
	sc := &model.Scorecard{Counts: counts}

	if counts.Visitors > 0 {
		sc.CTAConversionPct = float64(counts.CTAClicks) / float64(counts.Visitors) * 100
	}
	if counts.Interviews > 0 {
		sc.WouldPayPct = float64(counts.WouldPay) / float64(counts.Interviews) * 100
	}

	sc.VisitorScore = clamp100(float64(counts.Visitors) / e.policy.VisitorDivisor)
	sc.CTAScore = clamp100(sc.CTAConversionPct * e.policy.CTAMultiplier)
	sc.InterviewScore = clamp100(float64(counts.Interviews) * e.policy.InterviewMultiplier)
	sc.WouldPayScore = clamp100(sc.WouldPayPct / e.policy.WouldPayDivisor)

	// The quantitative subtotal truncates, matching the historical
	// scorecards; the band decision uses the untruncated percentage.
	sc.QuantitativeTotal = int(sc.VisitorScore + sc.CTAScore + sc.InterviewScore + sc.WouldPayScore)
	sc.QualitativeTotal = int(clamp100(float64(counts.HighUrgency) * e.policy.UrgencyMultiplier))
	sc.TotalScore = sc.QuantitativeTotal + sc.QualitativeTotal
	sc.Percentage = float64(sc.TotalScore) / 500 * 100
	sc.Decision = e.Decide(sc.Percentage)

	return sc
}

// Decide maps a percentage to the decision band. Thresholds are inclusive:
// exactly 60 is GREEN, exactly 40 is YELLOW.
func (e *Engine) Decide(percentage float64) model.Decision {
	switch {
	case percentage >= e.policy.GreenAt:
		return model.DecisionGreen
	case percentage >= e.policy.YellowAt:
		return model.DecisionYellow
	default:
		return model.DecisionRed
	}
}

func clamp100(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}
