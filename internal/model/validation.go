package model

import "time"

// Urgency classifies how urgently an interviewee needs the problem solved.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Interview is one manually logged customer interview. Append-only: records
// are never mutated or deleted once stored.
type Interview struct {
	Tool          string    `json:"tool"`
	Contact       string    `json:"contact_name"`
	Date          time.Time `json:"interview_date"`
	PainScore     int       `json:"pain_score"` // 1-10
	WouldPay      bool      `json:"would_pay"`
	PaymentAmount float64   `json:"payment_amount"`
	Urgency       Urgency   `json:"urgency"`
	Notes         string    `json:"notes,omitempty"`
}

// FunnelCounts are the aggregate counts the scorecard is computed from,
// derived from the store at query time.
type FunnelCounts struct {
	Visitors    int `json:"visitors"`
	CTAClicks   int `json:"cta_clicks"`
	Interviews  int `json:"interviews"`
	WouldPay    int `json:"would_pay"`
	HighUrgency int `json:"high_urgency"`
}

// Decision is the tri-state validation verdict.
type Decision string

const (
	DecisionGreen  Decision = "GREEN"  // proceed to build
	DecisionYellow Decision = "YELLOW" // pivot required
	DecisionRed    Decision = "RED"    // kill project
)

// Scorecard is the full scoring breakdown for one tool. All sub-scores are
// clamped to [0,100]; the quantitative subtotal spans [0,400] and the grand
// total [0,500].
type Scorecard struct {
	Tool   string       `json:"tool"`
	Counts FunnelCounts `json:"counts"`

	VisitorScore   float64 `json:"visitor_score"`
	CTAScore       float64 `json:"cta_score"`
	InterviewScore float64 `json:"interview_score"`
	WouldPayScore  float64 `json:"would_pay_score"`

	CTAConversionPct float64 `json:"cta_conversion_pct"`
	WouldPayPct      float64 `json:"would_pay_pct"`

	QuantitativeTotal int      `json:"quantitative_total"` // 0-400
	QualitativeTotal  int      `json:"qualitative_total"`  // 0-100
	TotalScore        int      `json:"total_score"`        // 0-500
	Percentage        float64  `json:"percentage"`         // 0-100
	Decision          Decision `json:"decision"`
}
