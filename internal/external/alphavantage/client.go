// Package alphavantage adapts the Alpha Vantage fundamentals API into Fundamentals.
package alphavantage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/external"
	"github.com/wonny/growthscore/internal/merge"
	"github.com/wonny/growthscore/internal/normalize"
	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/httputil"
	"github.com/wonny/growthscore/pkg/logger"
)

const (
	providerName = "alphavantage"

	// RetainQuarters is how many periods the adapter keeps
	RetainQuarters = 8
	// MinRevenueQuarters is the minimum number of periods with revenue
	MinRevenueQuarters = 4
)

// Alpha Vantage answers 200 with a "Note"/"Information" body when the
// call budget is spent and "Error Message" for bad symbols
var errorProbe = external.ErrorFields("Note", "Information", "Error Message")

// Client handles communication with Alpha Vantage
// ⭐ SSOT: Alpha Vantage API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new Alpha Vantage client
func NewClient(httpClient *httputil.Client, cfg config.AlphaVantageConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", providerName),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

func (c *Client) get(ctx context.Context, function, ticker string, out interface{}) error {
	params := url.Values{
		"function": {function},
		"symbol":   {ticker},
		"apikey":   {c.apiKey},
	}
	return external.GetJSON(ctx, c.httpClient, providerName, c.baseURL+"?"+params.Encode(), out, errorProbe)
}

// Fetch retrieves the three statements and the company overview concurrently
func (c *Client) Fetch(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	if c.apiKey == "" {
		return nil, contracts.Recoverable(providerName, contracts.ReasonMissingKey, "ALPHAVANTAGE_API_KEY is not set")
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var (
		income  incomeStatement
		balance balanceSheet
		cash    cashFlow
		ov      overview
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.get(gctx, "INCOME_STATEMENT", ticker, &income) })
	g.Go(func() error { return c.get(gctx, "BALANCE_SHEET", ticker, &balance) })
	g.Go(func() error { return c.get(gctx, "CASH_FLOW", ticker, &cash) })
	g.Go(func() error { return c.get(gctx, "OVERVIEW", ticker, &ov) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(income.QuarterlyReports) == 0 {
		return nil, contracts.Recoverable(providerName, contracts.ReasonInvalidFormat,
			"income statement for %s has no quarterly reports", ticker)
	}

	store := merge.NewStore()
	for _, r := range income.QuarterlyReports {
		period, ok := normalize.ParseDate(r.FiscalDateEnding)
		if !ok {
			continue
		}
		store.Apply(r.FiscalDateEnding, merge.Patch{
			Period:      period,
			Revenue:     r.TotalRevenue,
			GrossProfit: r.GrossProfit,
			SGA:         r.SGA,
			RnD:         r.RnD,
			EBITDA:      normalize.First(r.EBITDA, sumAll(r.OperatingIncome, r.DandA)),
			NetIncome:   r.NetIncome,
		})
	}
	for _, r := range cash.QuarterlyReports {
		period, ok := normalize.ParseDate(r.FiscalDateEnding)
		if !ok {
			continue
		}
		store.Apply(r.FiscalDateEnding, merge.Patch{
			Period: period,
			OCF:    r.OperatingCashflow,
			Capex:  normalize.Abs(r.CapitalExpenditures),
		})
	}
	for _, r := range balance.QuarterlyReports {
		period, ok := normalize.ParseDate(r.FiscalDateEnding)
		if !ok {
			continue
		}
		store.Apply(r.FiscalDateEnding, merge.Patch{
			Period:        period,
			Inventory:     r.Inventory,
			Receivables:   r.CurrentNetReceivables,
			Cash:          normalize.First(r.Cash, r.CashAndShortTerm),
			TotalDebt:     normalize.First(r.ShortLongTermDebt, sumAll(r.ShortTermDebt, r.LongTermDebt)),
			// point-in-time count; Alpha Vantage has no diluted average
			DilutedShares: r.SharesOutstanding,
		})
	}

	quarters := store.Quarters(RetainQuarters)
	withRevenue := 0
	for _, q := range quarters {
		if q.Revenue.Valid() {
			withRevenue++
		}
	}
	if withRevenue == 0 {
		return nil, contracts.Recoverable(providerName, contracts.ReasonMissingRevenue, "no revenue reported for %s", ticker)
	}
	if withRevenue < MinRevenueQuarters {
		return nil, contracts.Recoverable(providerName, contracts.ReasonInsufficientData,
			"only %d quarters with revenue for %s, need %d", withRevenue, ticker, MinRevenueQuarters)
	}

	mc := ov.MarketCapitalization
	if v, ok := mc.Get(); !ok || v <= 0 {
		return nil, contracts.Recoverable(providerName, contracts.ReasonMissingMarketCap, "market cap unavailable for %s", ticker)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"quarters": len(quarters),
	}).Debug("Alpha Vantage fundamentals assembled")

	return &contracts.Fundamentals{
		Ticker:    ticker,
		MarketCap: mc,
		Quarters:  quarters,
		Source:    providerName,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// sumAll adds values; unknown if any is unknown
func sumAll(values ...contracts.Num) contracts.Num {
	total := 0.0
	for _, v := range values {
		f, ok := v.Get()
		if !ok {
			return contracts.None()
		}
		total += f
	}
	return contracts.Some(total)
}
