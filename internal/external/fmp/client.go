// Package fmp adapts the Financial Modeling Prep REST API into Fundamentals.
package fmp

import (
	"context"
	"fmt"
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
	providerName = "fmp"

	// RetainQuarters is how many periods the adapter keeps
	RetainQuarters = 8
	// MinRevenueQuarters is the minimum number of periods with revenue
	MinRevenueQuarters = 4
)

// errorProbe detects FMP's {"Error Message": "..."} payloads served with 200
var errorProbe = external.ErrorFields("Error Message", "error")

// Client handles communication with Financial Modeling Prep
// ⭐ SSOT: FMP API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new FMP client
func NewClient(httpClient *httputil.Client, cfg config.FMPConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", providerName),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

func (c *Client) endpoint(path, ticker string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, path, url.PathEscape(ticker), params.Encode())
}

func quarterParams() url.Values {
	return url.Values{
		"period": {"quarter"},
		"limit":  {fmt.Sprint(RetainQuarters)},
	}
}

func (c *Client) get(ctx context.Context, path, ticker string, params url.Values, out interface{}) error {
	return external.GetJSON(ctx, c.httpClient, providerName, c.endpoint(path, ticker, params), out, errorProbe)
}

func (c *Client) checkKey() error {
	if c.apiKey == "" {
		return contracts.Recoverable(providerName, contracts.ReasonMissingKey, "FMP_API_KEY is not set")
	}
	return nil
}

// Fetch retrieves the three statements and the quote concurrently
func (c *Client) Fetch(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var (
		income   []incomeRow
		balance  []balanceRow
		cashFlow []cashFlowRow
		quote    []quoteRow
	)

	// fail fast: the first failing request cancels its siblings
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.get(gctx, "income-statement", ticker, quarterParams(), &income) })
	g.Go(func() error { return c.get(gctx, "balance-sheet-statement", ticker, quarterParams(), &balance) })
	g.Go(func() error { return c.get(gctx, "cash-flow-statement", ticker, quarterParams(), &cashFlow) })
	g.Go(func() error { return c.get(gctx, "quote", ticker, nil, &quote) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := merge.NewStore()
	applyIncome(store, income)
	applyCashFlow(store, cashFlow)
	applyBalance(store, balance)

	quarters := store.Quarters(RetainQuarters)
	if err := requireRevenue(ticker, quarters); err != nil {
		return nil, err
	}

	marketCap, err := quoteMarketCap(ticker, quote)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"quarters": len(quarters),
	}).Debug("FMP fundamentals assembled")

	return &contracts.Fundamentals{
		Ticker:    ticker,
		MarketCap: marketCap,
		Quarters:  quarters,
		Source:    providerName,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// MarketCap returns the quoted market capitalization
func (c *Client) MarketCap(ctx context.Context, ticker string) (contracts.Num, error) {
	if err := c.checkKey(); err != nil {
		return contracts.None(), err
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var quote []quoteRow
	if err := c.get(ctx, "quote", ticker, nil, &quote); err != nil {
		return contracts.None(), err
	}
	return quoteMarketCap(ticker, quote)
}

// CashFlowQuarters returns quarters carrying only OCF and capex
func (c *Client) CashFlowQuarters(ctx context.Context, ticker string) ([]contracts.Quarter, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	var rows []cashFlowRow
	if err := c.get(ctx, "cash-flow-statement", ticker, quarterParams(), &rows); err != nil {
		return nil, err
	}

	store := merge.NewStore()
	applyCashFlow(store, rows)
	return store.Quarters(RetainQuarters), nil
}

func applyIncome(store *merge.Store, rows []incomeRow) {
	for _, r := range rows {
		period, ok := normalize.ParseDate(r.Date)
		if !ok {
			continue
		}
		store.Apply(r.Date, merge.Patch{
			Period:        period,
			Revenue:       r.Revenue,
			GrossProfit:   r.GrossProfit,
			SGA:           normalize.First(r.SGA, r.GA),
			RnD:           r.RnD,
			EBITDA:        r.EBITDA,
			NetIncome:     r.NetIncome,
			DilutedShares: r.SharesDil,
			FiscalYear:    int(normalize.First(r.FiscalYear, r.CalendarYear).Or(0)),
			FiscalQuarter: normalize.FiscalQuarter(r.Period),
		})
	}
}

func applyCashFlow(store *merge.Store, rows []cashFlowRow) {
	for _, r := range rows {
		period, ok := normalize.ParseDate(r.Date)
		if !ok {
			continue
		}
		store.Apply(r.Date, merge.Patch{
			Period: period,
			OCF:    normalize.First(r.OperatingCashFlow, r.NetCashOperating),
			Capex:  normalize.Abs(normalize.First(r.CapitalExpend, r.InvestmentsPPE)),
		})
	}
}

func applyBalance(store *merge.Store, rows []balanceRow) {
	for _, r := range rows {
		period, ok := normalize.ParseDate(r.Date)
		if !ok {
			continue
		}
		store.Apply(r.Date, merge.Patch{
			Period:      period,
			Inventory:   r.Inventory,
			Receivables: normalize.First(r.NetReceivables, r.AccountsReceivables),
			Cash:        normalize.First(r.Cash, r.CashAndShortTerm),
			TotalDebt:   normalize.First(r.TotalDebt, sumKnown(r.ShortTermDebt, r.LongTermDebt)),
		})
	}
}

// sumKnown adds the known values; unknown if none is known
func sumKnown(values ...contracts.Num) contracts.Num {
	total, seen := 0.0, false
	for _, v := range values {
		if f, ok := v.Get(); ok {
			total += f
			seen = true
		}
	}
	if !seen {
		return contracts.None()
	}
	return contracts.Some(total)
}

func requireRevenue(ticker string, quarters []contracts.Quarter) error {
	n := 0
	for _, q := range quarters {
		if q.Revenue.Valid() {
			n++
		}
	}
	if n == 0 {
		return contracts.Recoverable(providerName, contracts.ReasonMissingRevenue, "no revenue reported for %s", ticker)
	}
	if n < MinRevenueQuarters {
		return contracts.Recoverable(providerName, contracts.ReasonInsufficientData,
			"only %d quarters with revenue for %s, need %d", n, ticker, MinRevenueQuarters)
	}
	return nil
}

func quoteMarketCap(ticker string, quote []quoteRow) (contracts.Num, error) {
	if len(quote) == 0 {
		return contracts.None(), contracts.Recoverable(providerName, contracts.ReasonMissingMarketCap, "no quote for %s", ticker)
	}
	mc := quote[0].MarketCap
	if v, ok := mc.Get(); !ok || v <= 0 {
		return contracts.None(), contracts.Recoverable(providerName, contracts.ReasonMissingMarketCap, "market cap unavailable for %s", ticker)
	}
	return mc, nil
}
