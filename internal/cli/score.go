package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlutsenko/prevet/internal/model"
	"github.com/mlutsenko/prevet/internal/scorecard"
	"github.com/mlutsenko/prevet/internal/store"
	"github.com/mlutsenko/prevet/internal/worker"
)

var (
	scoreTools   []string
	scoreJSON    string
	scoreTimeout time.Duration
	scoreWorkers int
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the validation scorecard for one or more tools",
	Long: `Score reads the validation store (landing-page visits, CTA clicks, and
customer interviews) for each tool and computes the weighted 0-500 score:

  visits/5 + cta_conversion%*10 + interviews*5 + would_pay%/0.3   (0-400)
  + high_urgency*10                                               (0-100)

Decision bands: >=60% GREEN (build), >=40% YELLOW (pivot), below RED (kill).

Example:
  prevet score --tool "Zoning Analyst"
  prevet score --tool "Zoning Analyst" --tool "Lien Discovery" --json scores.json`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringArrayVar(&scoreTools, "tool", nil, "tool name to score (repeatable, required)")
	scoreCmd.Flags().StringVar(&scoreJSON, "json", "", "write scorecards as JSON to this path")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 30*time.Second, "overall timeout")
	scoreCmd.Flags().IntVar(&scoreWorkers, "concurrency", 4, "parallel tool queries")
}

func runScore(cmd *cobra.Command, args []string) error {
	if len(scoreTools) == 0 {
		return fmt.Errorf("--tool is required (repeat for multiple tools)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := scorecard.NewEngine(st, model.DefaultConfig().Score)

	// Results are indexed so output order matches the --tool order
	// regardless of which query finishes first.
	cards := make([]*model.Scorecard, len(scoreTools))
	var mu sync.Mutex

	tasks := make([]func(context.Context) error, 0, len(scoreTools))
	for i, tool := range scoreTools {
		tasks = append(tasks, func(ctx context.Context) error {
			card, err := engine.Score(ctx, tool)
			if err != nil {
				return err
			}
			mu.Lock()
			cards[i] = card
			mu.Unlock()
			return nil
		})
	}

	if err := worker.RunAll(ctx, scoreWorkers, tasks); err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	for i, card := range cards {
		if i > 0 {
			fmt.Println()
		}
		scorecard.RenderText(os.Stdout, card)
	}

	if scoreJSON != "" {
		data, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal scorecards: %w", err)
		}
		if err := os.WriteFile(scoreJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write scorecards: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", scoreJSON)
		}
	}

	return nil
}

// openStore connects to the validation store using the resolved DSN.
func openStore(ctx context.Context) (store.Store, error) {
	return store.NewPostgresStore(ctx, storeDSN())
}

// storeDSN resolves the validation-store credential: environment first,
// then config.
func storeDSN() string {
	if dsn := os.Getenv("VALIDATION_DB_URL"); dsn != "" {
		return dsn
	}
	return viper.GetString("store.dsn")
}
