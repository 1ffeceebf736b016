// Package insight generates the optional LLM positioning notes appended to
// the intel report. The notes are narrative only: generation happens after
// every figure is computed and nothing here feeds back into a calculation.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mlutsenko/prevet/internal/intel"
	"github.com/mlutsenko/prevet/internal/model"
)

// ErrMissingAPIKey indicates the provider key was not configured.
var ErrMissingAPIKey = errors.New("insight: API key not set (export OPENAI_API_KEY)")

// Provider is one LLM backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Generator adapts a Provider to the pipeline's InsightGenerator contract.
type Generator struct {
	provider  Provider
	maxTokens int
}

// NewGenerator builds a generator for the configured provider. Only OpenAI
// is supported; an empty provider name is a configuration error surfaced by
// the caller before construction.
func NewGenerator(cfg model.LLMConfig) (*Generator, error) {
	switch cfg.Provider {
	case "openai":
		p, err := newOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return &Generator{provider: p, maxTokens: cfg.MaxTokens}, nil
	default:
		return nil, fmt.Errorf("insight: unsupported provider %q", cfg.Provider)
	}
}

// Generate produces the positioning notes for a finished analysis.
func (g *Generator) Generate(ctx context.Context, analysis *intel.Analysis, pos model.PositioningInput) (string, error) {
	notes, err := g.provider.Complete(ctx, BuildPrompt(analysis, pos), g.maxTokens)
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.provider.Name(), err)
	}
	return strings.TrimSpace(notes), nil
}

// BuildPrompt constructs the prompt from computed figures only. The model
// is asked to interpret, never to produce numbers of its own.
func BuildPrompt(analysis *intel.Analysis, pos model.PositioningInput) string {
	var b strings.Builder

	b.WriteString("You are writing the competitive-positioning notes for a market analysis report.\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Use ONLY the figures below; do not invent traffic numbers, prices, or competitor names.\n")
	b.WriteString("2. If the data is too thin to support a conclusion, say so explicitly.\n")
	b.WriteString("3. Write 3-5 short paragraphs: differentiation angle, table-stakes features to match, and pricing posture.\n\n")

	fmt.Fprintf(&b, "Product: %s (%s)\n", pos.ProductName, pos.ProductFocus)
	fmt.Fprintf(&b, "Target: %d users at $%.0f/month\n", pos.TargetUsers, pos.TargetARPU)
	fmt.Fprintf(&b, "Total market traffic: %d monthly visits across %d competitors\n",
		analysis.TotalMarketVisits, len(analysis.Ranked))
	fmt.Fprintf(&b, "Required market penetration: %.2f%% (%s)\n", analysis.PenetrationPct, analysis.Feasibility)

	b.WriteString("\nCompetitors (ranked by traffic):\n")
	for i, st := range analysis.Ranked {
		if i >= 10 {
			fmt.Fprintf(&b, "... and %d more\n", len(analysis.Ranked)-10)
			break
		}
		visits := "unknown visits"
		if st.Traffic.CurrentVisits != nil {
			visits = fmt.Sprintf("%d visits, %.1f%% share", *st.Traffic.CurrentVisits, st.MarketSharePct)
		}
		fmt.Fprintf(&b, "- %s (%s, est. %s)\n", st.Domain, visits, st.ARPUEstimate)
	}

	return b.String()
}
