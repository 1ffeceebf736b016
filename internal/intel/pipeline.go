package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mlutsenko/prevet/internal/apify"
	"github.com/mlutsenko/prevet/internal/cache"
	"github.com/mlutsenko/prevet/internal/model"
)

// SnapshotFetcher is the snapshot collaborator contract. A fetch failure is
// fatal for the invocation; no partial report is produced.
type SnapshotFetcher interface {
	FetchSnapshots(ctx context.Context, domains []string) ([]apify.Snapshot, error)
}

// InsightGenerator produces the optional narrative positioning notes. It
// runs after all computation and its output feeds no figure.
type InsightGenerator interface {
	Generate(ctx context.Context, analysis *Analysis, pos model.PositioningInput) (string, error)
}

// Pipeline orchestrates the competitive-intel path:
// fetch (or cache hit) -> normalize -> calculate -> render.
type Pipeline struct {
	fetcher    SnapshotFetcher
	cache      cache.Cache // nil when caching is disabled
	cacheTTL   time.Duration
	calculator *Calculator
	renderer   *Renderer
	insight    InsightGenerator // nil when disabled
	verbose    bool
}

// NewPipeline wires a pipeline. cache and insight may be nil.
func NewPipeline(fetcher SnapshotFetcher, snapCache cache.Cache, cfg *model.Config, insight InsightGenerator) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		cache:      snapCache,
		cacheTTL:   cfg.Cache.TTL,
		calculator: NewCalculator(cfg.Market),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		insight:    insight,
		verbose:    cfg.Output.Verbose,
	}
}

// RunResult is the complete outcome of one analysis run.
type RunResult struct {
	Analysis  *Analysis
	ScrapedAt time.Time
	FromCache bool
	Insight   string
}

// cachedDataset is the cache payload: the raw records plus when they were
// scraped, so a cache hit reports the original freshness, not the run time.
type cachedDataset struct {
	ScrapedAt time.Time         `json:"scraped_at"`
	Records   []json.RawMessage `json:"records"`
}

// Run executes the full analysis for one domain set.
func (p *Pipeline) Run(ctx context.Context, domains []string, pos model.PositioningInput) (*RunResult, error) {
	snapshots, scrapedAt, fromCache, err := p.loadSnapshots(ctx, domains)
	if err != nil {
		return nil, err
	}

	competitors := Normalize(snapshots)
	if p.verbose {
		fmt.Fprintf(os.Stderr, "✓ Normalized %d of %d requested domains\n", len(competitors), len(domains))
	}

	analysis := p.calculator.Calculate(competitors, pos)

	result := &RunResult{
		Analysis:  analysis,
		ScrapedAt: scrapedAt,
		FromCache: fromCache,
	}

	if p.insight != nil {
		notes, err := p.insight.Generate(ctx, analysis, pos)
		if err != nil {
			// Narrative generation is best-effort; the report stands without it.
			fmt.Fprintf(os.Stderr, "Warning: positioning notes generation failed: %v\n", err)
		} else {
			result.Insight = notes
		}
	}

	return result, nil
}

func (p *Pipeline) loadSnapshots(ctx context.Context, domains []string) ([]apify.Snapshot, time.Time, bool, error) {
	key := cache.DomainSetKey(domains)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			snapshots, scrapedAt, err := decodeDataset(data)
			if err == nil {
				if p.verbose {
					fmt.Fprintf(os.Stderr, "✓ Using cached snapshots from %s\n", scrapedAt.UTC().Format(time.RFC3339))
				}
				return snapshots, scrapedAt, true, nil
			}
			// A corrupt entry is replaced by a fresh fetch.
			_ = p.cache.Delete(key)
		}
	}

	if p.verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching snapshots for %d domains...\n", len(domains))
	}
	snapshots, err := p.fetcher.FetchSnapshots(ctx, domains)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("fetch snapshots: %w", err)
	}

	scrapedAt := time.Now().UTC()
	if p.cache != nil {
		if data, err := encodeDataset(snapshots, scrapedAt); err == nil {
			_ = p.cache.Set(key, data, p.cacheTTL)
		}
	}
	return snapshots, scrapedAt, false, nil
}

func encodeDataset(snapshots []apify.Snapshot, scrapedAt time.Time) ([]byte, error) {
	ds := cachedDataset{ScrapedAt: scrapedAt, Records: make([]json.RawMessage, 0, len(snapshots))}
	for i := range snapshots {
		ds.Records = append(ds.Records, snapshots[i].Raw)
	}
	return json.Marshal(ds)
}

func decodeDataset(data []byte) ([]apify.Snapshot, time.Time, error) {
	var ds cachedDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, time.Time{}, err
	}
	snapshots := make([]apify.Snapshot, 0, len(ds.Records))
	for _, raw := range ds.Records {
		var snap apify.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, time.Time{}, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, ds.ScrapedAt, nil
}

// RenderOutputs writes the requested artifacts and prints the console summary.
func (p *Pipeline) RenderOutputs(result *RunResult, pos model.PositioningInput, jsonPath, mdPath string) error {
	in := ReportInput{
		Analysis:    result.Analysis,
		Positioning: pos,
		ScrapedAt:   result.ScrapedAt,
		GeneratedAt: time.Now(),
		Insight:     result.Insight,
	}

	if jsonPath != "" {
		if err := p.renderer.WriteJSON(jsonPath, in); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.WriteMarkdown(mdPath, in); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if p.verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(os.Stdout, result.Analysis)
	return nil
}
