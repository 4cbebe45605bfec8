package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/fetcher"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <ticker>",
	Short: "Fetch fundamentals without scoring",
	Long: `Runs the provider chain and prints the reconciled quarters.

Example:
  go run ./cmd/fundscore fetch AAPL
  go run ./cmd/fundscore fetch AAPL --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var fetchJSON bool

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the fundamentals as JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))

	a, err := newApp("")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	f, attempts, err := a.chain.FetchWithAttempts(ctx, ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", ticker, err)
	}

	if fetchJSON {
		return PrintJSON(f)
	}

	PrintHeader(fmt.Sprintf("Fundamentals: %s", f.Ticker),
		[2]string{"Source", f.Source},
		[2]string{"Providers", fetcher.Summary(attempts)},
		[2]string{"MarketCap", FormatAmount(f.MarketCap)},
		[2]string{"Quarters", strconv.Itoa(len(f.Quarters))},
	)

	widths := []int{8, 10, 10, 10, 10, 10, 10, 10}
	PrintTableHeader([]string{"Label", "Revenue", "Gross", "OCF", "Capex", "EBITDA", "NetInc", "Shares"}, widths)
	for _, q := range f.Quarters {
		PrintTableRow([]string{
			quarterLabel(q),
			FormatAmount(q.Revenue),
			FormatAmount(q.GrossProfit),
			FormatAmount(q.OCF),
			FormatAmount(q.Capex),
			FormatAmount(q.EBITDA),
			FormatAmount(q.NetIncome),
			FormatAmount(q.DilutedShares),
		}, widths)
	}
	return nil
}

// quarterLabel prefers the fiscal label when the provider reported one
func quarterLabel(q contracts.Quarter) string {
	if q.FiscalYear > 0 && q.FiscalQuarter > 0 {
		return fmt.Sprintf("FY%02dQ%d", q.FiscalYear%100, q.FiscalQuarter)
	}
	return q.Label()
}
