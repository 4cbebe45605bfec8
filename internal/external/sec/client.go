// Package sec adapts SEC EDGAR XBRL company facts into Fundamentals.
package sec

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/external"
	"github.com/wonny/growthscore/internal/merge"
	"github.com/wonny/growthscore/internal/normalize"
	"github.com/wonny/growthscore/internal/xbrl"
	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/httputil"
	"github.com/wonny/growthscore/pkg/logger"
)

const (
	providerName = "sec"

	// RetainQuarters is how many quarters the adapter keeps
	RetainQuarters = 16
	// MinRevenueQuarters is the minimum history with revenue
	MinRevenueQuarters = 8
)

// MarketCapSource supplies market capitalization, which XBRL facts lack
type MarketCapSource interface {
	MarketCap(ctx context.Context, ticker string) (contracts.Num, error)
}

// CashFlowSource supplies quarterly capex/OCF for back-filling gaps
type CashFlowSource interface {
	CashFlowQuarters(ctx context.Context, ticker string) ([]contracts.Quarter, error)
}

// Client handles communication with SEC EDGAR
// ⭐ SSOT: SEC EDGAR 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	userAgent  string
	baseURL    string
	directory  *TickerDirectory
	extractor  *xbrl.Extractor
	marketCap  MarketCapSource
	cashFlow   CashFlowSource
}

// Option configures a Client
type Option func(*Client)

// WithDirectory injects a ticker directory (tests use NewStaticDirectory)
func WithDirectory(d *TickerDirectory) Option {
	return func(c *Client) { c.directory = d }
}

// WithExtractor overrides the XBRL extractor (custom quarter span)
func WithExtractor(e *xbrl.Extractor) Option {
	return func(c *Client) { c.extractor = e }
}

// NewClient creates a new SEC client. SEC fair-access rules require a
// contact User-Agent and at most 10 requests per second.
func NewClient(httpClient *httputil.Client, cfg config.SECConfig, marketCap MarketCapSource, cashFlow CashFlowSource, log *logger.Logger, opts ...Option) *Client {
	paced := httpClient.WithRateLimit(cfg.RateLimit)
	if cfg.UserAgent != "" {
		paced = paced.WithHeader("User-Agent", cfg.UserAgent)
	}

	c := &Client{
		httpClient: paced,
		logger:     log.WithField("provider", providerName),
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		extractor:  xbrl.NewExtractor(),
		marketCap:  marketCap,
		cashFlow:   cashFlow,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.directory == nil {
		c.directory = NewTickerDirectory(HTTPDirectoryLoader(c.httpClient, cfg.TickersURL))
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

// Fetch builds Fundamentals from the company's XBRL facts
func (c *Client) Fetch(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	if c.userAgent == "" {
		return nil, contracts.Recoverable(providerName, contracts.ReasonMissingUserAgent,
			"SEC_USER_AGENT is not set (expected \"tool-name/version (email)\")")
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	cik, err := c.resolveCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	doc, err := c.companyFacts(ctx, cik)
	if err != nil {
		return nil, err
	}

	store := c.buildStore(doc)
	quarters := store.Quarters(RetainQuarters)

	withRevenue := 0
	for _, q := range quarters {
		if q.Revenue.Valid() {
			withRevenue++
		}
	}
	if withRevenue == 0 {
		return nil, contracts.Recoverable(providerName, contracts.ReasonMissingRevenue,
			"no revenue facts for %s (CIK %s)", ticker, cik)
	}
	if withRevenue < MinRevenueQuarters {
		return nil, contracts.Recoverable(providerName, contracts.ReasonInsufficientData,
			"only %d quarters with revenue for %s, need %d", withRevenue, ticker, MinRevenueQuarters)
	}

	marketCap, err := c.fetchMarketCap(ctx, ticker)
	if err != nil {
		return nil, err
	}

	c.backfillCashFlow(ctx, ticker, quarters)

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"cik":      cik,
		"quarters": len(quarters),
		"revenue":  withRevenue,
	}).Debug("SEC fundamentals assembled")

	return &contracts.Fundamentals{
		Ticker:    ticker,
		MarketCap: marketCap,
		Quarters:  quarters,
		Source:    providerName,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) resolveCIK(ctx context.Context, ticker string) (string, error) {
	cik, ok, err := c.directory.Lookup(ctx, ticker)
	if err != nil {
		var pe *contracts.ProviderError
		if errors.As(err, &pe) || ctx.Err() != nil {
			return "", err
		}
		return "", contracts.Recoverable(providerName, contracts.ReasonNetwork, "ticker directory unavailable: %v", err)
	}
	if !ok {
		return "", contracts.Recoverable(providerName, contracts.ReasonInsufficientData, "ticker %s not found in SEC directory", ticker)
	}
	return cik, nil
}

func (c *Client) companyFacts(ctx context.Context, cik string) (*xbrl.CompanyFacts, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, cik)

	var doc xbrl.CompanyFacts
	if err := external.GetJSON(ctx, c.httpClient, providerName, url, &doc); err != nil {
		return nil, err
	}
	if doc.Facts == nil {
		return nil, contracts.Recoverable(providerName, contracts.ReasonInvalidFormat, "companyfacts for CIK %s has no facts", cik)
	}
	return &doc, nil
}

// buildStore runs every metric through the extractor and merges the
// results: income statement, then cash flow, then balance sheet.
func (c *Client) buildStore(doc *xbrl.CompanyFacts) *merge.Store {
	store := merge.NewStore()
	extract := func(m metric) map[string]xbrl.Point {
		return c.extractor.Extract(doc, m.configs, m.mode)
	}

	// income statement
	apply(store, extract(revenueMetric), func(p *merge.Patch, v float64) { p.Revenue = contracts.Some(v) })
	apply(store, extract(grossProfitMetric), func(p *merge.Patch, v float64) { p.GrossProfit = contracts.Some(v) })
	apply(store, extract(sgaMetric), func(p *merge.Patch, v float64) { p.SGA = contracts.Some(v) })
	apply(store, extract(rndMetric), func(p *merge.Patch, v float64) { p.RnD = contracts.Some(v) })
	apply(store, extract(netIncomeMetric), func(p *merge.Patch, v float64) { p.NetIncome = contracts.Some(v) })
	apply(store, extract(dilutedSharesMetric), func(p *merge.Patch, v float64) { p.DilutedShares = contracts.Some(v) })
	apply(store, ebitda(extract(operatingIncomeMetric), extract(depreciationMetric)),
		func(p *merge.Patch, v float64) { p.EBITDA = contracts.Some(v) })

	// cash flow
	apply(store, extract(ocfMetric), func(p *merge.Patch, v float64) { p.OCF = contracts.Some(v) })
	apply(store, extract(capexMetric), func(p *merge.Patch, v float64) { p.Capex = contracts.Some(math.Abs(v)) })

	// balance sheet
	apply(store, extract(inventoryMetric), func(p *merge.Patch, v float64) { p.Inventory = contracts.Some(v) })
	apply(store, extract(receivablesMetric), func(p *merge.Patch, v float64) { p.Receivables = contracts.Some(v) })
	apply(store, extract(cashMetric), func(p *merge.Patch, v float64) { p.Cash = contracts.Some(v) })
	apply(store, totalDebt(extract(debtMetric), extract(debtCurrentMetric), extract(debtNoncurrentMetric)),
		func(p *merge.Patch, v float64) { p.TotalDebt = contracts.Some(v) })

	return store
}

// apply merges one metric's points in ascending key order, tagging each
// record with its period end and fiscal quarter
func apply(store *merge.Store, points map[string]xbrl.Point, set func(*merge.Patch, float64)) {
	keys := make([]string, 0, len(points))
	for key := range points {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pt := points[key]
		p := merge.Patch{Period: pt.PeriodEnd}
		if y, q, ok := normalize.ParseQuarterKey(key); ok {
			p.FiscalYear, p.FiscalQuarter = y, q
		}
		set(&p, pt.Value)
		store.Apply(key, p)
	}
}

// ebitda = operating income + depreciation & amortization, per quarter
func ebitda(operating, depreciation map[string]xbrl.Point) map[string]xbrl.Point {
	out := make(map[string]xbrl.Point, len(operating))
	for key, oi := range operating {
		da, ok := depreciation[key]
		if !ok {
			continue
		}
		oi.Value += da.Value
		out[key] = oi
	}
	return out
}

// totalDebt prefers a directly reported total, else current + noncurrent
func totalDebt(direct, current, noncurrent map[string]xbrl.Point) map[string]xbrl.Point {
	out := make(map[string]xbrl.Point, len(direct)+len(noncurrent))
	for key, nc := range noncurrent {
		if cur, ok := current[key]; ok {
			nc.Value += cur.Value
		}
		out[key] = nc
	}
	for key, d := range direct {
		out[key] = d
	}
	return out
}

func (c *Client) fetchMarketCap(ctx context.Context, ticker string) (contracts.Num, error) {
	if c.marketCap == nil {
		return contracts.None(), contracts.Recoverable(providerName, contracts.ReasonMissingMarketCap,
			"no market cap source configured")
	}

	mc, err := c.marketCap.MarketCap(ctx, ticker)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contracts.None(), ctxErr
		}
		return contracts.None(), contracts.Recoverable(providerName, contracts.ReasonMissingMarketCap,
			"market cap lookup failed: %v", err)
	}
	if v, ok := mc.Get(); !ok || v <= 0 {
		return contracts.None(), contracts.Recoverable(providerName, contracts.ReasonMissingMarketCap,
			"market cap unavailable for %s", ticker)
	}
	return mc, nil
}

// backfillCashFlow fills missing capex/OCF from the secondary source by
// calendar label. Failure only costs coverage.
func (c *Client) backfillCashFlow(ctx context.Context, ticker string, quarters []contracts.Quarter) {
	if c.cashFlow == nil {
		return
	}

	missing := 0
	for _, q := range quarters {
		if !q.Capex.Valid() || !q.OCF.Valid() {
			missing++
		}
	}
	if missing == 0 {
		return
	}

	supplement, err := c.cashFlow.CashFlowQuarters(ctx, ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Cash flow back-fill failed")
		return
	}

	byLabel := make(map[string]contracts.Quarter, len(supplement))
	for _, q := range supplement {
		if label := q.Label(); label != "" {
			if _, dup := byLabel[label]; !dup {
				byLabel[label] = q
			}
		}
	}

	filled := 0
	for i := range quarters {
		s, ok := byLabel[quarters[i].Label()]
		if !ok {
			continue
		}
		if !quarters[i].Capex.Valid() && s.Capex.Valid() {
			quarters[i].Capex = s.Capex
			filled++
		}
		if !quarters[i].OCF.Valid() && s.OCF.Valid() {
			quarters[i].OCF = s.OCF
			filled++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"missing": missing,
		"filled":  filled,
	}).Debug("Cash flow back-fill applied")
}
