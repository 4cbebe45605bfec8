// Package scoring evaluates one company's fundamentals against the growth
// quality profile.
package scoring

import (
	"time"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/profile"
)

// Engine scores fundamentals
// ⭐ SSOT: 점수/등급 계산은 여기서만
type Engine struct {
	profile *profile.Profile
	now     func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the clock used to pick the timeline anchor
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine. A nil profile uses the built-in default.
func NewEngine(p *profile.Profile, opts ...Option) *Engine {
	if p == nil {
		p = profile.Default()
	}
	e := &Engine{profile: p, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile returns the thresholds in use
func (e *Engine) Profile() *profile.Profile {
	return e.profile
}

// evaluation carries one scoring run's timeline and the metrics shared
// between rules
type evaluation struct {
	p     *profile.Profile
	slots []Slot

	marketCap contracts.Num
	ev        contracts.Num

	latest4Revenue contracts.Num
	prior4Revenue  contracts.Num
	cagr           contracts.Num

	avgMargin  contracts.Num // latest 4
	marginBase contracts.Num // quarters 2-4

	ocfTTM    contracts.Num
	ocfNear2  contracts.Num
	ocfPrior2 contracts.Num

	fcfTTM      contracts.Num
	fcfCoverage contracts.Num

	shares   []contracts.Num // split-adjusted
	adjusted bool
	dilution contracts.Num
}

// Score evaluates f. It never fails: missing data turns rules unknown.
func (e *Engine) Score(f *contracts.Fundamentals) *contracts.ScoreResult {
	slots := BuildTimeline(f, e.now())
	run := e.evaluate(f, slots)

	rules := map[contracts.RuleKey]contracts.RuleResult{
		contracts.RuleRevenueCAGR:     run.revenueCAGR(),
		contracts.RuleGrossMargin:     run.grossMarginRule(),
		contracts.RuleOCFQuality:      run.ocfQuality(),
		contracts.RuleOpexRatio:       run.opexRatioRule(),
		contracts.RuleYoYAcceleration: run.yoyAcceleration(),
		contracts.RuleValuation:       run.valuation(),
		contracts.RuleCapacity:        run.capacityExpansion(),
		contracts.RuleRnDIntensity:    run.rndIntensityRule(),
		contracts.RuleDilution:        run.dilutionControl(),
		contracts.RuleFCFCoverage:     run.fcfCoverageRule(),
	}

	total, unknowns := 0, 0
	for _, r := range rules {
		switch {
		case r.Passed():
			total++
		case r.Unknown():
			unknowns++
		}
	}

	result := &contracts.ScoreResult{
		TotalScore:       total,
		Rating:           e.profile.Rating.Label(total),
		Rules:            rules,
		RedFlags:         run.redFlags(),
		QuarterlyRevenue: make([]contracts.LabeledValue, 0, len(slots)),
		CAGRDetail: contracts.CAGRDetail{
			Latest4Revenue: run.latest4Revenue,
			Prior4Revenue:  run.prior4Revenue,
			CAGR:           run.cagr,
		},
		DataQuality: contracts.DataQuality{
			AnchorLabel:    slots[0].Label,
			UnknownRules:   unknowns,
			SharesAdjusted: run.adjusted,
		},
		ProfileID: e.profile.Meta.ProfileID,
	}

	for _, s := range slots {
		result.QuarterlyRevenue = append(result.QuarterlyRevenue, contracts.LabeledValue{
			Label:   s.Label,
			Revenue: s.Quarter.Revenue,
		})
		if s.HasData {
			result.DataQuality.QuartersWithData++
		}
		if s.Quarter.Revenue.Valid() {
			result.DataQuality.RevenueQuarters++
		}
	}

	if f != nil {
		result.Ticker = f.Ticker
		result.DataQuality.Source = f.Source
		result.DataQuality.QuartersInput = len(f.Quarters)
	}

	return result
}

// evaluate computes the metrics more than one rule depends on
func (e *Engine) evaluate(f *contracts.Fundamentals, slots []Slot) *evaluation {
	run := &evaluation{p: e.profile, slots: slots}

	latest4 := window(slots, 0, 4)
	prior4 := window(slots, 4, 8)

	run.latest4Revenue = sumOf(latest4, revenue)
	run.prior4Revenue = sumOf(prior4, revenue)
	run.cagr = growth(run.latest4Revenue, run.prior4Revenue)

	run.avgMargin = avgOf(latest4, grossMargin)
	run.marginBase = avgOf(window(slots, 1, 4), grossMargin)

	run.ocfTTM = sumOf(latest4, ocf)
	run.ocfNear2 = sumOf(window(slots, 0, 2), ocf)
	run.ocfPrior2 = sumOf(window(slots, 2, 4), ocf)

	run.fcfTTM, run.fcfCoverage = freeCashFlowTTM(latest4, e.profile.CashFlow.FCFMinQuarters)

	run.shares, run.adjusted = NormalizeShares(rawShares(slots), e.profile.Shares)
	run.dilution = growth(sharesWindow(run.shares, 0, 4), sharesWindow(run.shares, 4, 8))

	run.marketCap = contracts.None()
	if f != nil {
		run.marketCap = positive(f.MarketCap)
	}
	run.ev = enterpriseValue(run.marketCap, slots)

	return run
}

// enterpriseValue = market cap + latest debt - latest cash; missing debt or
// cash contribute zero
func enterpriseValue(marketCap contracts.Num, slots []Slot) contracts.Num {
	mc, ok := marketCap.Get()
	if !ok {
		return contracts.None()
	}
	return contracts.Some(mc + latestKnown(slots, totalDebt).Or(0) - latestKnown(slots, cash).Or(0))
}

// freeCashFlowTTM sums FCF over the quarters where it is known, given at
// least minQuarters of them. Coverage divides by the revenue of the same
// quarters.
func freeCashFlowTTM(slots []Slot, minQuarters int) (contracts.Num, contracts.Num) {
	total, n := sumKnown(slots, freeCashFlow)
	if n < minQuarters {
		return contracts.None(), contracts.None()
	}

	covered := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if freeCashFlow(s.Quarter).Valid() {
			covered = append(covered, s)
		}
	}
	return total, ratio(total, sumOf(covered, revenue))
}
