package scorecard

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mlutsenko/prevet/internal/model"
)

// fakeStore is an in-memory validation store for engine tests.
type fakeStore struct {
	visits     map[string]int
	clicks     map[string]int
	interviews map[string][]model.Interview
	err        error
}

func (f *fakeStore) CountVisits(_ context.Context, tool string) (int, error) {
	return f.visits[tool], f.err
}

func (f *fakeStore) CountCTAClicks(_ context.Context, tool string) (int, error) {
	return f.clicks[tool], f.err
}

func (f *fakeStore) ListInterviews(_ context.Context, tool string) ([]model.Interview, error) {
	return f.interviews[tool], f.err
}

func (f *fakeStore) AddInterview(_ context.Context, iv model.Interview) error {
	if f.interviews == nil {
		f.interviews = make(map[string][]model.Interview)
	}
	f.interviews[iv.Tool] = append(f.interviews[iv.Tool], iv)
	return f.err
}

func (f *fakeStore) RecordVisit(_ context.Context, tool string, _ time.Time) error {
	if f.visits == nil {
		f.visits = make(map[string]int)
	}
	f.visits[tool]++
	return f.err
}

func (f *fakeStore) RecordCTAClick(_ context.Context, tool string, _ time.Time) error {
	if f.clicks == nil {
		f.clicks = make(map[string]int)
	}
	f.clicks[tool]++
	return f.err
}

func (f *fakeStore) Close() {}

func testEngine(st *fakeStore) *Engine {
	return NewEngine(st, model.DefaultConfig().Score)
}

func interview(tool string, wouldPay bool, urgency model.Urgency) model.Interview {
	return model.Interview{
		Tool:      tool,
		Contact:   "test contact",
		Date:      time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		PainScore: 7,
		WouldPay:  wouldPay,
		Urgency:   urgency,
	}
}

func TestEngine_Compute_AllZeroCounts(t *testing.T) {
	sc := testEngine(&fakeStore{}).Compute(model.FunnelCounts{})

	if sc.TotalScore != 0 {
		t.Errorf("Expected total 0, got %d", sc.TotalScore)
	}
	if sc.Decision != model.DecisionRed {
		t.Errorf("Expected RED, got %s", sc.Decision)
	}
	if sc.CTAConversionPct != 0 || sc.WouldPayPct != 0 {
		t.Errorf("Zero denominators must resolve to 0, got %v / %v",
			sc.CTAConversionPct, sc.WouldPayPct)
	}
	if math.IsNaN(sc.Percentage) || math.IsInf(sc.Percentage, 0) {
		t.Errorf("Percentage must be finite, got %v", sc.Percentage)
	}
}

func TestEngine_Compute_SubScoresClampAt100(t *testing.T) {
	sc := testEngine(&fakeStore{}).Compute(model.FunnelCounts{
		Visitors:    1000, // 1000/5 = 200, clamped
		CTAClicks:   500,  // 50% conversion * 10 = 500, clamped
		Interviews:  40,   // 40*5 = 200, clamped
		WouldPay:    40,   // 100% / 0.3, clamped
		HighUrgency: 25,   // 25*10 = 250, clamped
	})

	if sc.VisitorScore != 100 || sc.CTAScore != 100 || sc.InterviewScore != 100 || sc.WouldPayScore != 100 {
		t.Errorf("Expected all sub-scores clamped to 100, got %v %v %v %v",
			sc.VisitorScore, sc.CTAScore, sc.InterviewScore, sc.WouldPayScore)
	}
	if sc.QuantitativeTotal != 400 || sc.QualitativeTotal != 100 || sc.TotalScore != 500 {
		t.Errorf("Expected a perfect 500, got %d+%d=%d",
			sc.QuantitativeTotal, sc.QualitativeTotal, sc.TotalScore)
	}
	if sc.Decision != model.DecisionGreen {
		t.Errorf("Expected GREEN at 100%%, got %s", sc.Decision)
	}
}

func TestEngine_Compute_WorkedExample(t *testing.T) {
	// 350 visitors, 28 clicks (8%), 12 interviews, 6 would pay (50%),
	// 7 high urgency.
	sc := testEngine(&fakeStore{}).Compute(model.FunnelCounts{
		Visitors:    350,
		CTAClicks:   28,
		Interviews:  12,
		WouldPay:    6,
		HighUrgency: 7,
	})

	if sc.VisitorScore != 70 {
		t.Errorf("Expected visitor score 70, got %v", sc.VisitorScore)
	}
	if math.Abs(sc.CTAScore-80) > 0.0001 {
		t.Errorf("Expected CTA score 80, got %v", sc.CTAScore)
	}
	if sc.InterviewScore != 60 {
		t.Errorf("Expected interview score 60, got %v", sc.InterviewScore)
	}
	if sc.WouldPayScore != 100 {
		t.Errorf("Expected would-pay score clamped to 100, got %v", sc.WouldPayScore)
	}
	if sc.QuantitativeTotal != 310 {
		t.Errorf("Expected quantitative subtotal 310, got %d", sc.QuantitativeTotal)
	}
	if sc.QualitativeTotal != 70 {
		t.Errorf("Expected qualitative subtotal 70, got %d", sc.QualitativeTotal)
	}
	if sc.TotalScore != 380 {
		t.Errorf("Expected total 380, got %d", sc.TotalScore)
	}
	if math.Abs(sc.Percentage-76) > 0.0001 {
		t.Errorf("Expected 76%%, got %v", sc.Percentage)
	}
	if sc.Decision != model.DecisionGreen {
		t.Errorf("Expected GREEN, got %s", sc.Decision)
	}
}

func TestEngine_Compute_QuantitativeSubtotalTruncates(t *testing.T) {
	// Visitor score 7/5 = 1.4; the subtotal drops the fraction.
	sc := testEngine(&fakeStore{}).Compute(model.FunnelCounts{
		Visitors:   7,
		CTAClicks:  1, // 14.29% conversion, CTA score clamps to 100
		Interviews: 1, // 5
		WouldPay:   1, // 100% / 0.3 clamps to 100
	})

	if sc.QuantitativeTotal != 206 {
		t.Errorf("Expected truncated subtotal 206, got %d", sc.QuantitativeTotal)
	}
}

func TestEngine_Decide_Boundaries(t *testing.T) {
	engine := testEngine(&fakeStore{})

	cases := []struct {
		percentage float64
		want       model.Decision
	}{
		{100, model.DecisionGreen},
		{60, model.DecisionGreen}, // lower bound is inclusive
		{59.999, model.DecisionYellow},
		{40, model.DecisionYellow},
		{39.999, model.DecisionRed},
		{0, model.DecisionRed},
	}
	for _, tc := range cases {
		if got := engine.Decide(tc.percentage); got != tc.want {
			t.Errorf("Decide(%v): expected %s, got %s", tc.percentage, tc.want, got)
		}
	}
}

func TestEngine_Score_AggregatesInterviews(t *testing.T) {
	st := &fakeStore{
		visits: map[string]int{"biddeed": 350},
		clicks: map[string]int{"biddeed": 28},
		interviews: map[string][]model.Interview{
			"biddeed": {
				interview("biddeed", true, model.UrgencyHigh),
				interview("biddeed", true, model.UrgencyMedium),
				interview("biddeed", false, model.UrgencyHigh),
				interview("biddeed", false, model.UrgencyLow),
			},
		},
	}

	sc, err := testEngine(st).Score(context.Background(), "biddeed")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if sc.Tool != "biddeed" {
		t.Errorf("Unexpected tool: %q", sc.Tool)
	}
	want := model.FunnelCounts{
		Visitors:    350,
		CTAClicks:   28,
		Interviews:  4,
		WouldPay:    2,
		HighUrgency: 2,
	}
	if sc.Counts != want {
		t.Errorf("Expected counts %+v, got %+v", want, sc.Counts)
	}
}

func TestEngine_Score_UnknownToolScoresZero(t *testing.T) {
	st := &fakeStore{visits: map[string]int{"other": 100}}

	sc, err := testEngine(st).Score(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sc.TotalScore != 0 || sc.Decision != model.DecisionRed {
		t.Errorf("Expected 0/RED for unknown tool, got %d/%s", sc.TotalScore, sc.Decision)
	}
}

func TestEngine_Score_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	st := &fakeStore{err: storeErr}

	_, err := testEngine(st).Score(context.Background(), "biddeed")
	if !errors.Is(err, storeErr) {
		t.Errorf("Expected wrapped store error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "biddeed") {
		t.Errorf("Expected tool name in error, got %v", err)
	}
}

func TestEngine_Compute_Idempotent(t *testing.T) {
	engine := testEngine(&fakeStore{})
	counts := model.FunnelCounts{Visitors: 123, CTAClicks: 9, Interviews: 3, WouldPay: 1, HighUrgency: 1}

	first := engine.Compute(counts)
	second := engine.Compute(counts)

	if *first != *second {
		t.Errorf("Identical counts must score identically: %+v vs %+v", first, second)
	}
}
