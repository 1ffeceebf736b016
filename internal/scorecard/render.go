package scorecard

import (
	"fmt"
	"io"
	"strings"

	"github.com/mlutsenko/prevet/internal/model"
)

// RenderText writes the human-readable scorecard summary.
func RenderText(w io.Writer, sc *model.Scorecard) {
	rule := strings.Repeat("═", 60)

	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "  VALIDATION SCORECARD: %s\n", sc.Tool)
	fmt.Fprintf(w, "%s\n", rule)

	fmt.Fprintf(w, "\nQUANTITATIVE METRICS:\n")
	fmt.Fprintf(w, "  Landing page visits: %d (%d/100)\n", sc.Counts.Visitors, int(sc.VisitorScore))
	fmt.Fprintf(w, "  CTA conversion:      %.1f%% (%d/100)\n", sc.CTAConversionPct, int(sc.CTAScore))
	fmt.Fprintf(w, "  User interviews:     %d (%d/100)\n", sc.Counts.Interviews, int(sc.InterviewScore))
	fmt.Fprintf(w, "  Would pay:           %.1f%% (%d/100)\n", sc.WouldPayPct, int(sc.WouldPayScore))
	fmt.Fprintf(w, "  Subtotal:            %d/400\n", sc.QuantitativeTotal)

	fmt.Fprintf(w, "\nQUALITATIVE SIGNALS:\n")
	fmt.Fprintf(w, "  High urgency: %d\n", sc.Counts.HighUrgency)
	fmt.Fprintf(w, "  Subtotal:     %d/100\n", sc.QualitativeTotal)

	fmt.Fprintf(w, "\nTOTAL SCORE: %d/500 (%.0f%%)\n", sc.TotalScore, sc.Percentage)
	fmt.Fprintf(w, "STATUS: %s\n", statusLine(sc.Decision))
	fmt.Fprintf(w, "\nDECISION: %s\n", decisionLine(sc.Decision))
	fmt.Fprintf(w, "%s\n", rule)
}

func statusLine(d model.Decision) string {
	switch d {
	case model.DecisionGreen:
		return "GREEN - PROCEED TO BUILD"
	case model.DecisionYellow:
		return "YELLOW - PIVOT REQUIRED"
	default:
		return "RED - KILL PROJECT"
	}
}

func decisionLine(d model.Decision) string {
	switch d {
	case model.DecisionGreen:
		return "Build the MVP immediately."
	case model.DecisionYellow:
		return "Pivot pricing or target market, then re-validate."
	default:
		return "Kill the project and move to the next tool."
	}
}
