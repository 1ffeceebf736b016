package intel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mlutsenko/prevet/internal/model"
)

// notAvailable is the explicit marker for measurements the source did not
// provide. A gap must never render as a blank cell or a zero.
const notAvailable = "N/A"

// Renderer turns an analysis into report artifacts. It only formats; every
// number it prints was computed upstream. Output is deterministic for
// identical inputs, including the passed-in timestamps.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// ReportInput bundles everything the renderer needs.
type ReportInput struct {
	Analysis    *Analysis
	Positioning model.PositioningInput
	ScrapedAt   time.Time // freshness of the underlying snapshot data
	GeneratedAt time.Time
	Insight     string // optional LLM positioning notes, may be empty
}

// RenderMarkdown produces the full executive-summary document.
func (r *Renderer) RenderMarkdown(in ReportInput) string {
	var b strings.Builder
	a := in.Analysis
	pos := in.Positioning

	// Header / metadata.
	b.WriteString("# Competitive Intelligence Report\n")
	fmt.Fprintf(&b, "## %s - Market Analysis\n\n", pos.ProductName)
	fmt.Fprintf(&b, "**Generated:** %s  \n", in.GeneratedAt.UTC().Format("January 2, 2006, 15:04 UTC"))
	b.WriteString("**Data Source:** SimilarWeb (via Apify actor)  \n")
	fmt.Fprintf(&b, "**Competitors Analyzed:** %d  \n", len(a.Ranked))
	fmt.Fprintf(&b, "**Total Market Traffic:** %s monthly visits\n\n---\n\n", groupInt(a.TotalMarketVisits))

	// Positioning summary.
	fmt.Fprintf(&b, "## %s Positioning\n\n", pos.ProductName)
	fmt.Fprintf(&b, "**Product Focus:** %s  \n", pos.ProductFocus)
	fmt.Fprintf(&b, "**Target Users:** %s  \n", groupInt(pos.TargetUsers))
	fmt.Fprintf(&b, "**Target ARPU:** $%s/month  \n", trimFloat(pos.TargetARPU))
	fmt.Fprintf(&b, "**Target ARR:** $%s\n\n---\n\n", groupInt(int64(a.TargetAnnualRevenue)))

	// Ranked overview table.
	b.WriteString("## Competitor Traffic Overview\n\n")
	b.WriteString("| Rank | Platform | Monthly Visits | Market Share | Bounce Rate | Pages/Visit | Time on Site |\n")
	b.WriteString("|------|----------|---------------|--------------|-------------|-------------|--------------|\n")
	for i, st := range a.Ranked {
		fmt.Fprintf(&b, "| #%d | **%s** | %s | %s | %s | %s | %s |\n",
			i+1,
			st.Domain,
			fmtOptInt(st.Traffic.CurrentVisits),
			fmtShare(st),
			fmtOptPct(st.Engagement.BounceRate),
			fmtOptFloat(st.Engagement.PagesPerVisit, 2),
			fmtDuration(st.Engagement.TimeOnSiteSeconds),
		)
	}
	b.WriteString("\n---\n\n## Detailed Competitor Analysis\n\n")

	for i, st := range a.Ranked {
		r.writeDetail(&b, i+1, &st)
	}

	r.writeStrategy(&b, a, pos)
	r.writeBenchmarks(&b, pos)
	r.writePricing(&b, a, pos)

	if in.Insight != "" {
		b.WriteString("## Positioning Notes (LLM-generated)\n\n")
		b.WriteString("_Narrative only; no figure above was produced or altered by the model._\n\n")
		b.WriteString(strings.TrimSpace(in.Insight))
		b.WriteString("\n\n---\n\n")
	}

	r.writeDataQuality(&b, a, in.ScrapedAt)

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "Generated by prevet on %s. Re-run monthly to track competitor growth trends.\n",
			in.GeneratedAt.UTC().Format("2006-01-02"))
	}

	return b.String()
}

func (r *Renderer) writeDetail(b *strings.Builder, rank int, st *Standing) {
	fmt.Fprintf(b, "### %d. %s\n\n", rank, st.Domain)

	b.WriteString("**Rankings:**\n")
	if st.Rankings.GlobalRank != nil {
		fmt.Fprintf(b, "- Global: #%s\n", groupInt(*st.Rankings.GlobalRank))
	}
	if st.Rankings.CountryRank != nil {
		fmt.Fprintf(b, "- %s: #%s\n", st.Rankings.CountryCode, groupInt(*st.Rankings.CountryRank))
	}
	if st.Rankings.Category != "" && st.Rankings.Category != notAvailable {
		fmt.Fprintf(b, "- Category: %s\n", categoryLabel(st.Rankings.Category))
	}
	if st.Rankings.CategoryRank != nil {
		fmt.Fprintf(b, "- Category Rank: #%s\n", groupInt(*st.Rankings.CategoryRank))
	}
	if st.Rankings.GlobalRank == nil && st.Rankings.CountryRank == nil && st.Rankings.CategoryRank == nil {
		fmt.Fprintf(b, "- %s\n", notAvailable)
	}
	b.WriteString("\n")

	if trend := lastMonths(st.Traffic.MonthlyVisits, 3); len(trend) >= 2 {
		b.WriteString("**Traffic Trend (Last 3 Months):**\n")
		for _, m := range trend {
			fmt.Fprintf(b, "- %s: %s\n", m.label, groupInt(m.visits))
		}
		b.WriteString("\n")
	}

	if sources := rankedSources(st.TrafficSources); len(sources) > 0 {
		b.WriteString("**Traffic Sources:**\n")
		for _, src := range sources {
			fmt.Fprintf(b, "- %s: %.2f%%\n", src.name, src.share*100)
		}
		b.WriteString("\n")
	}

	if len(st.TopCountries) > 0 {
		b.WriteString("**Geographic Distribution (Top 5):**\n")
		for _, country := range st.TopCountries {
			code := country.CountryCode
			if code == "" {
				code = notAvailable
			}
			fmt.Fprintf(b, "- %s: %.2f%%\n", code, country.Share*100)
		}
		b.WriteString("\n")
	}

	if st.Description != "" {
		fmt.Fprintf(b, "**Description:**  \n%s\n\n", st.Description)
	}

	b.WriteString("---\n\n")
}

func (r *Renderer) writeStrategy(b *strings.Builder, a *Analysis, pos model.PositioningInput) {
	fmt.Fprintf(b, "## Strategic Insights for %s\n\n", pos.ProductName)

	b.WriteString("### Market Size\n\n")
	fmt.Fprintf(b, "- Total addressable market (combined competitor traffic): %s monthly visits\n", groupInt(a.TotalMarketVisits))
	fmt.Fprintf(b, "- Target ARR: $%s\n\n", groupInt(int64(a.TargetAnnualRevenue)))

	b.WriteString("### Traffic Requirements\n\n")
	b.WriteString("Assuming a 15% annual visitor-to-user conversion rate:\n\n")
	b.WriteString("```\n")
	fmt.Fprintf(b, "Required annual visitors:   %s\n", groupInt(int64(a.RequiredAnnualVisitors+0.5)))
	fmt.Fprintf(b, "Required monthly visits:    %s\n", groupInt(int64(a.RequiredMonthlyVisits+0.5)))
	fmt.Fprintf(b, "Market penetration needed:  %.2f%%\n", a.PenetrationPct)
	b.WriteString("```\n\n")

	b.WriteString("### Feasibility Verdict\n\n")
	switch a.Feasibility {
	case FeasibilityAchievable:
		b.WriteString("**ACHIEVABLE** - required penetration is below 5% of current market traffic.\n\n")
	case FeasibilityAggressive:
		b.WriteString("**AGGRESSIVE** - required penetration is between 5% and 10%; plan for a differentiated wedge.\n\n")
	default:
		b.WriteString("**UNREALISTIC** - required penetration exceeds 10% of current market traffic; revisit targets or niche down.\n\n")
	}
}

// writeBenchmarks emits the fixed engagement-benchmark targets carried over
// from the original report template.
func (r *Renderer) writeBenchmarks(b *strings.Builder, pos model.PositioningInput) {
	b.WriteString("### Engagement Benchmarks\n\n")
	fmt.Fprintf(b, "| Metric | Best in Class | Good | Target for %s |\n", pos.ProductName)
	b.WriteString("|--------|---------------|------|----------------|\n")
	b.WriteString("| Bounce Rate | <40% | 40-50% | <45% |\n")
	b.WriteString("| Pages per Visit | 8-10 | 5-7 | 5-7 |\n")
	b.WriteString("| Time on Site | 5+ min | 3-5 min | 3-5 min |\n")
	b.WriteString("| Direct Traffic | 70%+ | 60-70% | 60%+ |\n\n")
}

func (r *Renderer) writePricing(b *strings.Builder, a *Analysis, pos model.PositioningInput) {
	b.WriteString("### Pricing Strategy\n\n")
	b.WriteString("Competitor ARPU estimates (by traffic volume):\n\n")
	for _, st := range a.Ranked {
		fmt.Fprintf(b, "- %s: estimated %s\n", st.Domain, st.ARPUEstimate)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "%s target ARPU is $%s/month, a %.1fx premium over the $%s reference competitor ARPU.\n\n---\n\n",
		pos.ProductName, trimFloat(pos.TargetARPU), a.PremiumMultiplier, trimFloat(40))
}

func (r *Renderer) writeDataQuality(b *strings.Builder, a *Analysis, scrapedAt time.Time) {
	b.WriteString("## Data Quality Notes\n\n")
	b.WriteString("- Source: SimilarWeb estimates via Apify; typically accurate to within +/-20%.\n")
	fmt.Fprintf(b, "- Data date: %s\n", scrapedAt.UTC().Format("2006-01-02"))
	b.WriteString("- Sites below the provider's traffic floor (~1K visits/month) report N/A for some metrics.\n")
	if a.UnknownTraffic > 0 {
		fmt.Fprintf(b, "- %d of %d competitors had no current-visit data; they contribute 0 to the market total, which understates true market size.\n",
			a.UnknownTraffic, len(a.Ranked))
	}
	b.WriteString("\n")
}

// WriteMarkdown renders and writes the markdown report.
func (r *Renderer) WriteMarkdown(path string, in ReportInput) error {
	if err := os.WriteFile(path, []byte(r.RenderMarkdown(in)), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// snapshotDocument is the JSON artifact layout, kept compatible with the
// historical analysis files.
type snapshotDocument struct {
	Metadata struct {
		ScrapedAt      time.Time `json:"scraped_at"`
		Source         string    `json:"source"`
		NumCompetitors int       `json:"num_competitors"`
	} `json:"metadata"`
	Competitors []Standing `json:"competitors"`
	Analysis    *Analysis  `json:"analysis"`
}

// WriteJSON writes the structured analysis artifact.
func (r *Renderer) WriteJSON(path string, in ReportInput) error {
	var doc snapshotDocument
	doc.Metadata.ScrapedAt = in.ScrapedAt.UTC()
	doc.Metadata.Source = "similarweb/apify"
	doc.Metadata.NumCompetitors = len(in.Analysis.Ranked)
	doc.Competitors = in.Analysis.Ranked
	doc.Analysis = in.Analysis

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// RenderSummary prints the quick per-competitor console summary.
func (r *Renderer) RenderSummary(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "\nQuick summary (%d competitors, %s total monthly visits):\n",
		len(a.Ranked), groupInt(a.TotalMarketVisits))
	for _, st := range a.Ranked {
		fmt.Fprintf(w, "\n  %s\n", strings.ToUpper(st.Domain))
		fmt.Fprintf(w, "    Monthly visits: %s\n", fmtOptInt(st.Traffic.CurrentVisits))
		fmt.Fprintf(w, "    Market share:   %s\n", fmtShare(st))
		fmt.Fprintf(w, "    Bounce rate:    %s\n", fmtOptPct(st.Engagement.BounceRate))
		fmt.Fprintf(w, "    Pages/visit:    %s\n", fmtOptFloat(st.Engagement.PagesPerVisit, 2))
		fmt.Fprintf(w, "    Time on site:   %s\n", fmtDuration(st.Engagement.TimeOnSiteSeconds))
	}
	fmt.Fprintln(w)
}

// Formatting helpers.

type monthPoint struct {
	label  string
	visits int64
}

// lastMonths returns up to n most recent entries. Labels are ISO dates, so
// lexicographic order is chronological.
func lastMonths(monthly map[string]int64, n int) []monthPoint {
	points := make([]monthPoint, 0, len(monthly))
	for label, visits := range monthly {
		points = append(points, monthPoint{label: label, visits: visits})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].label > points[j].label })
	if len(points) > n {
		points = points[:n]
	}
	return points
}

type sourceShare struct {
	name  string
	share float64
}

// rankedSources sorts channels by share descending (name ascending on ties,
// for deterministic output) and drops shares at or below 0.1%.
func rankedSources(sources map[string]float64) []sourceShare {
	ranked := make([]sourceShare, 0, len(sources))
	for name, share := range sources {
		if share > 0.001 {
			ranked = append(ranked, sourceShare{name: name, share: share})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].share != ranked[j].share {
			return ranked[i].share > ranked[j].share
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}

// groupInt formats an integer with comma thousands separators.
func groupInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// trimFloat renders a float without trailing zeros ("297", "39.5").
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fmtOptInt(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return groupInt(*v)
}

func fmtOptFloat(v *float64, decimals int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

func fmtOptPct(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// fmtShare renders the market share, or the gap marker when the share is 0
// because visits were unknown.
func fmtShare(st Standing) string {
	if st.Traffic.CurrentVisits == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", st.MarketSharePct)
}

// fmtDuration renders seconds as "XmYs".
func fmtDuration(seconds *float64) string {
	if seconds == nil {
		return notAvailable
	}
	total := int(*seconds)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// categoryLabel prettifies provider category slugs like
// "finance/real_estate" for display.
func categoryLabel(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}
