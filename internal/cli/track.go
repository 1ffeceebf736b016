package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	trackTool  string
	trackCount int
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track {visit|cta}",
	Short: "Record landing-page visits or CTA clicks",
	Long: `Record funnel events into the validation store.

Example:
  prevet track visit --tool "Zoning Analyst"
  prevet track cta --tool "Zoning Analyst" --count 3`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"visit", "cta"},
	RunE:      runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVar(&trackTool, "tool", "", "tool name (required)")
	trackCmd.Flags().IntVar(&trackCount, "count", 1, "number of events to record")
}

func runTrack(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if trackTool == "" {
		return fmt.Errorf("--tool is required")
	}
	if trackCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	now := time.Now()
	for i := 0; i < trackCount; i++ {
		switch kind {
		case "visit":
			err = st.RecordVisit(ctx, trackTool, now)
		case "cta":
			err = st.RecordCTAClick(ctx, trackTool, now)
		default:
			return fmt.Errorf("unknown event kind %q (use visit or cta)", kind)
		}
		if err != nil {
			return fmt.Errorf("record %s: %w", kind, err)
		}
	}

	fmt.Printf("✓ Recorded %d %s event(s) for %s\n", trackCount, kind, trackTool)
	return nil
}
