package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlutsenko/prevet/internal/model"
)

var (
	ivTool     string
	ivContact  string
	ivPain     int
	ivWouldPay bool
	ivAmount   float64
	ivUrgency  string
	ivDate     string
	ivNotes    string
)

// interviewCmd represents the interview command group
var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Manage customer interview records",
}

var interviewAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log one customer interview",
	Long: `Log one customer interview into the validation store. Records are
append-only; a correction is a new interview, not an edit.

Example:
  prevet interview add --tool "Zoning Analyst" --contact "J. Doe, Acme Title" \
    --pain-score 8 --would-pay --amount 150 --urgency High \
    --notes "Lost $12k on a missed lien last quarter"`,
	RunE: runInterviewAdd,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.AddCommand(interviewAddCmd)

	interviewAddCmd.Flags().StringVar(&ivTool, "tool", "", "tool name (required)")
	interviewAddCmd.Flags().StringVar(&ivContact, "contact", "", "contact name and company (required)")
	interviewAddCmd.Flags().IntVar(&ivPain, "pain-score", 0, "pain score 1-10 (required)")
	interviewAddCmd.Flags().BoolVar(&ivWouldPay, "would-pay", false, "interviewee would pay for the tool")
	interviewAddCmd.Flags().Float64Var(&ivAmount, "amount", 0, "monthly amount they would pay, in dollars")
	interviewAddCmd.Flags().StringVar(&ivUrgency, "urgency", string(model.UrgencyMedium), "urgency: High, Medium, or Low")
	interviewAddCmd.Flags().StringVar(&ivDate, "date", "", "interview date YYYY-MM-DD (default: today)")
	interviewAddCmd.Flags().StringVar(&ivNotes, "notes", "", "free-text notes")
}

func runInterviewAdd(cmd *cobra.Command, args []string) error {
	iv, err := buildInterview()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.AddInterview(ctx, *iv); err != nil {
		return fmt.Errorf("add interview: %w", err)
	}

	fmt.Printf("✓ Interview added\n")
	fmt.Printf("  Tool:       %s\n", iv.Tool)
	fmt.Printf("  Contact:    %s\n", iv.Contact)
	fmt.Printf("  Pain score: %d/10\n", iv.PainScore)
	fmt.Printf("  Would pay:  %v ($%.2f)\n", iv.WouldPay, iv.PaymentAmount)
	fmt.Printf("  Urgency:    %s\n", iv.Urgency)
	return nil
}

func buildInterview() (*model.Interview, error) {
	if ivTool == "" {
		return nil, fmt.Errorf("--tool is required")
	}
	if ivContact == "" {
		return nil, fmt.Errorf("--contact is required")
	}
	if ivPain < 1 || ivPain > 10 {
		return nil, fmt.Errorf("--pain-score must be between 1 and 10")
	}
	if ivAmount < 0 {
		return nil, fmt.Errorf("--amount must not be negative")
	}

	urgency := model.Urgency(ivUrgency)
	switch urgency {
	case model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow:
	default:
		return nil, fmt.Errorf("--urgency must be High, Medium, or Low")
	}

	date := time.Now()
	if ivDate != "" {
		parsed, err := time.Parse("2006-01-02", ivDate)
		if err != nil {
			return nil, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		date = parsed
	}

	return &model.Interview{
		Tool:          ivTool,
		Contact:       ivContact,
		Date:          date,
		PainScore:     ivPain,
		WouldPay:      ivWouldPay,
		PaymentAmount: ivAmount,
		Urgency:       urgency,
		Notes:         ivNotes,
	}, nil
}
