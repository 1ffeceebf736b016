package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlutsenko/prevet/internal/apify"
	"github.com/mlutsenko/prevet/internal/cache"
	"github.com/mlutsenko/prevet/internal/insight"
	"github.com/mlutsenko/prevet/internal/intel"
	"github.com/mlutsenko/prevet/internal/model"
)

var (
	domainsFlag    string
	productName    string
	productFocus   string
	targetUsers    int64
	targetARPU     float64
	outJSON        string
	outMD          string
	analyzeTimeout time.Duration
	noCache        bool
	noFooter       bool
	httpProxy      string
	httpsProxy     string
	llmEnabled     bool
	llmModel       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze competitor traffic and generate a market report",
	Long: `Analyze fetches one SimilarWeb snapshot per competitor domain (via the
Apify actor), normalizes it, and derives:
- Total market traffic and per-competitor market share
- Required traffic and market penetration for your growth target
- A feasibility verdict and competitor pricing estimates

Snapshots are cached for 24h; the actor runs for 30-60 seconds on a cold set.

Example:
  prevet analyze --domains dealcheck.io,zilculator.com \
    --product-name BidDeed --product-focus "Foreclosure auction intelligence" \
    --target-users 5000 --target-arpu 297 \
    --md report.md --json analysis.json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&domainsFlag, "domains", "", "comma-separated competitor domains (required)")
	analyzeCmd.Flags().StringVar(&productName, "product-name", "", "your product name (required)")
	analyzeCmd.Flags().StringVar(&productFocus, "product-focus", "", "your product focus / niche")
	analyzeCmd.Flags().Int64Var(&targetUsers, "target-users", 0, "target user count at the planning horizon (required)")
	analyzeCmd.Flags().Float64Var(&targetARPU, "target-arpu", 0, "target ARPU in dollars per month (required)")

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "report.md", "output Markdown path")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall timeout (actor runs take 30-60s)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force a fresh actor run)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in the Markdown report")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "append LLM-generated positioning notes (never affects figures)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	domains := splitDomains(domainsFlag)
	if len(domains) == 0 {
		return fmt.Errorf("--domains is required (e.g. --domains dealcheck.io,zilculator.com)")
	}
	if productName == "" {
		return fmt.Errorf("--product-name is required")
	}
	if targetUsers <= 0 {
		return fmt.Errorf("--target-users must be positive")
	}
	if targetARPU <= 0 {
		return fmt.Errorf("--target-arpu must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Apify.Token = apifyToken()
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	pos := model.PositioningInput{
		ProductName:  productName,
		ProductFocus: productFocus,
		TargetUsers:  targetUsers,
		TargetARPU:   targetARPU,
	}

	fetcher, err := apify.NewClient(cfg.Apify, cfg.HTTP)
	if err != nil {
		return err
	}

	var snapCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return err
			}
			dir = filepath.Join(base, "cache")
		}
		snapCache = cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
	}

	var notes intel.InsightGenerator
	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		generator, err := insight.NewGenerator(cfg.LLM)
		if err != nil {
			return err
		}
		notes = generator
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d competitors for %s\n", len(domains), productName)
		for _, d := range domains {
			fmt.Fprintf(os.Stderr, "  • %s\n", d)
		}
		fmt.Fprintln(os.Stderr)
	}

	p := intel.NewPipeline(fetcher, snapCache, cfg, notes)

	result, err := p.Run(ctx, domains, pos)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Total market traffic: %d monthly visits\n", result.Analysis.TotalMarketVisits)
		fmt.Fprintf(os.Stderr, "✓ Required penetration: %.2f%% (%s)\n\n",
			result.Analysis.PenetrationPct, result.Analysis.Feasibility)
	}

	if err := p.RenderOutputs(result, pos, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// apifyToken resolves the Apify credential: environment first, then config.
func apifyToken() string {
	if token := os.Getenv("APIFY_API_TOKEN"); token != "" {
		return token
	}
	return viper.GetString("apify.token")
}

func splitDomains(raw string) []string {
	var domains []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			domains = append(domains, trimmed)
		}
	}
	return domains
}
