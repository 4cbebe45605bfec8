package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscore/internal/store"
	"github.com/wonny/growthscore/pkg/database"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <ticker>",
	Short: "List saved score snapshots",
	Long: `Lists snapshots stored with "score --save", newest first.

Example:
  go run ./cmd/fundscore history NVDA --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum snapshots to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrDisabled) {
		return fmt.Errorf("history needs DATABASE_URL")
	}
	if err != nil {
		return err
	}
	defer db.Close()

	snapshots, err := store.NewRepository(db.Pool).History(ctx, ticker, historyLimit)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		PrintWarning(fmt.Sprintf("No snapshots for %s", ticker))
		return nil
	}

	widths := []int{8, 20, 6, 22, 12, 12}
	PrintTableHeader([]string{"ID", "Created", "Score", "Rating", "Source", "Profile"}, widths)
	for _, s := range snapshots {
		PrintTableRow([]string{
			strconv.FormatInt(s.ID, 10),
			s.CreatedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(s.TotalScore),
			s.Rating,
			s.Source,
			shortHash(s.ProfileHash),
		}, widths)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
