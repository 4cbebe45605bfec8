package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/fetcher"
	"github.com/wonny/growthscore/internal/store"
	"github.com/wonny/growthscore/pkg/database"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <ticker>",
	Short: "Fetch fundamentals and score a company",
	Long: `Fetches fundamentals through the provider chain and evaluates the
ten profile rules plus red flags.

Example:
  go run ./cmd/fundscore score NVDA
  go run ./cmd/fundscore score NVDA --json
  go run ./cmd/fundscore score NVDA --save --profile ./my-profile.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	// Score flags
	scoreJSON    bool
	scoreSave    bool
	scoreProfile string
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the result as JSON")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "store a snapshot in PostgreSQL")
	scoreCmd.Flags().StringVar(&scoreProfile, "profile", "", "scoring profile YAML (default: SCORING_PROFILE or built-in)")
}

func runScore(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))

	a, err := newApp(scoreProfile)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	f, attempts, err := a.chain.FetchWithAttempts(ctx, ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", ticker, err)
	}
	result := a.engine.Score(f)

	if scoreSave {
		if err := saveSnapshot(ctx, a, result, f); err != nil {
			return err
		}
	}

	if scoreJSON {
		return PrintJSON(result)
	}

	printScore(result, f, fetcher.Summary(attempts), time.Since(start))
	return nil
}

func saveSnapshot(ctx context.Context, a *app, result *contracts.ScoreResult, f *contracts.Fundamentals) error {
	db, err := database.New(ctx, a.cfg)
	if errors.Is(err, database.ErrDisabled) {
		return fmt.Errorf("--save needs DATABASE_URL")
	}
	if err != nil {
		return err
	}
	defer db.Close()

	repo := store.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	snapshot, err := store.NewSnapshot(result, f, a.profileHash)
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, snapshot); err != nil {
		return err
	}

	a.logger.WithFields(map[string]interface{}{
		"ticker":      snapshot.Ticker,
		"snapshot_id": snapshot.ID,
	}).Info("Score snapshot saved")
	return nil
}

func printScore(r *contracts.ScoreResult, f *contracts.Fundamentals, attempts string, elapsed time.Duration) {
	PrintHeader(fmt.Sprintf("Growth Score: %s", r.Ticker),
		[2]string{"Score", fmt.Sprintf("%d / %d (%s)", r.TotalScore, len(contracts.AllRules()), r.Rating)},
		[2]string{"Source", r.DataQuality.Source},
		[2]string{"Providers", attempts},
		[2]string{"Anchor", r.DataQuality.AnchorLabel},
		[2]string{"MarketCap", FormatAmount(f.MarketCap)},
		[2]string{"Profile", r.ProfileID},
	)

	widths := []int{20, 12, 14}
	PrintTableHeader([]string{"Rule", "Verdict", "Value"}, widths)
	for _, key := range contracts.AllRules() {
		rule := r.Rules[key]
		PrintTableRow([]string{string(key), VerdictIcon(rule), FormatValue(rule.Value)}, widths)
		if rule.Note != "" {
			fmt.Printf("   ↳ %s\n", rule.Note)
		}
	}

	fmt.Println()
	if len(r.RedFlags) > 0 {
		PrintWarning("Red flags")
		PrintList(r.RedFlags)
		fmt.Println()
	}

	fmt.Println("Quarterly revenue:")
	for _, q := range r.QuarterlyRevenue {
		fmt.Printf("   %s  %s\n", q.Label, FormatAmount(q.Revenue))
	}

	dq := r.DataQuality
	fmt.Println()
	fmt.Printf("Data quality: %d input quarters, %d/16 with data, %d with revenue, %d unknown rules",
		dq.QuartersInput, dq.QuartersWithData, dq.RevenueQuarters, dq.UnknownRules)
	if dq.SharesAdjusted {
		fmt.Print(", share count split-adjusted")
	}
	fmt.Println()
	PrintSuccess(fmt.Sprintf("Scored in %.2fs", elapsed.Seconds()))
}
