package scoring

import (
	"fmt"
	"math"

	"github.com/wonny/growthscore/internal/contracts"
)

func metric(label string, v contracts.Num) contracts.Metric {
	return contracts.Metric{Label: label, Value: v}
}

func unknown(note string, value contracts.Num, metrics ...contracts.Metric) contracts.RuleResult {
	return contracts.RuleResult{Value: value, Metrics: metrics, Note: note}
}

func verdict(pass bool, value contracts.Num, metrics ...contracts.Metric) contracts.RuleResult {
	return contracts.RuleResult{Pass: &pass, Value: value, Metrics: metrics}
}

// 1. Revenue CAGR: TTM revenue vs the prior TTM
func (e *evaluation) revenueCAGR() contracts.RuleResult {
	ms := []contracts.Metric{
		metric("latest4_revenue", e.latest4Revenue),
		metric("prior4_revenue", e.prior4Revenue),
		metric("cagr", e.cagr),
	}
	g, ok := e.cagr.Get()
	if !ok {
		return unknown("needs eight quarters of revenue", e.cagr, ms...)
	}
	return verdict(g >= e.p.Growth.RevenueCAGRMin, e.cagr, ms...)
}

// 2. Gross margin level and trend
func (e *evaluation) grossMarginRule() contracts.RuleResult {
	latest := grossMargin(e.slots[0].Quarter)
	ms := []contracts.Metric{
		metric("avg_gross_margin", e.avgMargin),
		metric("latest_gross_margin", latest),
		metric("q2_q4_gross_margin", e.marginBase),
	}
	avg, ok := e.avgMargin.Get()
	if !ok {
		return unknown("gross margin missing in the latest four quarters", e.avgMargin, ms...)
	}
	trendUp := latest.Or(0) > e.marginBase.Or(0)
	return verdict(avg >= e.p.Margin.GrossMarginMin && trendUp, e.avgMargin, ms...)
}

// 3. OCF quality
func (e *evaluation) ocfQuality() contracts.RuleResult {
	ms := []contracts.Metric{
		metric("ocf_ttm", e.ocfTTM),
		metric("ocf_near2", e.ocfNear2),
		metric("ocf_prior2", e.ocfPrior2),
	}
	ttm, ok1 := e.ocfTTM.Get()
	near, ok2 := e.ocfNear2.Get()
	prior, ok3 := e.ocfPrior2.Get()
	if !ok1 || !ok2 || !ok3 {
		return unknown("operating cash flow missing in the latest four quarters", e.ocfTTM, ms...)
	}
	return verdict(ttm > 0 && near > prior, e.ocfTTM, ms...)
}

// 4. Opex ratio, (SG&A + R&D) / revenue, should be falling
func (e *evaluation) opexRatioRule() contracts.RuleResult {
	near := avgOf(window(e.slots, 0, 2), opexRatio)
	prior := avgOf(window(e.slots, 2, 4), opexRatio)
	ms := []contracts.Metric{
		metric("opex_ratio_near2", near),
		metric("opex_ratio_prior2", prior),
	}
	n, ok1 := near.Get()
	p, ok2 := prior.Get()
	if !ok1 || !ok2 {
		return unknown("SG&A, R&D or revenue missing in the latest four quarters", near, ms...)
	}
	return verdict(n < p, near, ms...)
}

// 5. YoY acceleration
func (e *evaluation) yoyAcceleration() contracts.RuleResult {
	near := avgNums(yoyAt(e.slots, 0), yoyAt(e.slots, 1))
	prior := avgNums(yoyAt(e.slots, 2), yoyAt(e.slots, 3))
	delta := sub(near, prior)
	ms := []contracts.Metric{
		metric("yoy_near2", near),
		metric("yoy_prior2", prior),
		metric("acceleration", delta),
	}
	n, ok1 := near.Get()
	p, ok2 := prior.Get()
	if !ok1 || !ok2 {
		return unknown("needs eight quarters of revenue", delta, ms...)
	}
	high := e.p.Growth.YoYHighGrowth
	return verdict((n > high && p > high) || n-p >= e.p.Growth.YoYAccelerationMin, delta, ms...)
}

// 6. Valuation: EV/EBITDA, EV/FCF and PEG; at least two must be computable.
// PEG = P/E / max(net income YoY growth, floor), growth as a fraction.
func (e *evaluation) valuation() contracts.RuleResult {
	v := e.p.Valuation
	ebitdaTTM := sumOf(window(e.slots, 0, 4), ebitda)
	evEBITDA := ratio(e.ev, ebitdaTTM)
	evFCF := ratio(e.ev, e.fcfTTM)

	niTTM := sumOf(window(e.slots, 0, 4), netIncome)
	niPrior := sumOf(window(e.slots, 4, 8), netIncome)
	pe := ratio(e.marketCap, niTTM)
	niGrowth := growth(niTTM, niPrior)
	peg := contracts.None()
	if g, ok := niGrowth.Get(); ok {
		peg = div(pe, contracts.Some(math.Max(g, v.PEGGrowthFloor)))
	}

	ms := []contracts.Metric{
		metric("enterprise_value", e.ev),
		metric("ev_ebitda", evEBITDA),
		metric("ev_fcf", evFCF),
		metric("pe", pe),
		metric("peg", peg),
	}

	computable, passing := 0, 0
	check := func(multiple, denominator contracts.Num, limit float64) {
		if x, ok := multiple.Get(); ok {
			computable++
			if x <= limit {
				passing++
			}
			return
		}
		// a known non-positive earnings base is a computed failure
		if e.ev.Valid() && denominator.Valid() && denominator.Or(0) <= 0 {
			computable++
		}
	}
	check(evEBITDA, ebitdaTTM, v.EVEBITDAMax)
	check(evFCF, e.fcfTTM, v.EVFCFMax)
	if x, ok := peg.Get(); ok {
		computable++
		if x <= v.PEGMax {
			passing++
		}
	}

	value := contracts.Some(float64(passing))
	if computable < v.MinComputable {
		return unknown(fmt.Sprintf("only %d of 3 valuation checks computable", computable), value, ms...)
	}
	res := verdict(passing >= v.MinPassing, value, ms...)
	res.Note = fmt.Sprintf("%d of %d checks pass", passing, computable)
	return res
}

// 7. Capacity expansion without margin loss
func (e *evaluation) capacityExpansion() contracts.RuleResult {
	latestCapex := e.slots[0].Quarter.Capex
	baseCapex := avgOf(window(e.slots, 1, 4), capex)
	latestMargin := grossMargin(e.slots[0].Quarter)
	ms := []contracts.Metric{
		metric("latest_capex", latestCapex),
		metric("q2_q4_capex", baseCapex),
		metric("avg_gross_margin", e.avgMargin),
		metric("latest_gross_margin", latestMargin),
	}
	lc, ok1 := latestCapex.Get()
	bc, ok2 := baseCapex.Get()
	avg, ok3 := e.avgMargin.Get()
	lm, ok4 := latestMargin.Get()
	base, ok5 := e.marginBase.Get()
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return unknown("capex or gross margin missing in the latest four quarters", latestCapex, ms...)
	}
	marginOK := avg >= e.p.Margin.GrossMarginMin && lm >= base
	return verdict(lc > bc && marginOK, latestCapex, ms...)
}

// 8. R&D intensity
func (e *evaluation) rndIntensityRule() contracts.RuleResult {
	avg := avgOf(window(e.slots, 0, 4), rndIntensity)
	ms := []contracts.Metric{metric("avg_rnd_intensity", avg)}
	a, ok := avg.Get()
	if !ok {
		return unknown("R&D or revenue missing in the latest four quarters", avg, ms...)
	}
	return verdict(a >= e.p.Margin.RnDIntensityMin, avg, ms...)
}

// 9. Dilution control on split-adjusted diluted shares
func (e *evaluation) dilutionControl() contracts.RuleResult {
	ms := []contracts.Metric{
		metric("avg_shares_latest4", sharesWindow(e.shares, 0, 4)),
		metric("avg_shares_prior4", sharesWindow(e.shares, 4, 8)),
		metric("dilution_yoy", e.dilution),
	}
	d, ok := e.dilution.Get()
	if !ok {
		return unknown("diluted share count unavailable", e.dilution, ms...)
	}
	res := verdict(d < e.p.Dilution.Max, e.dilution, ms...)
	if d > e.p.Dilution.NoteAbove {
		res.Note = fmt.Sprintf("diluted shares up %.1f%% year over year", d*100)
	}
	return res
}

// 10. Free-cash-flow coverage
func (e *evaluation) fcfCoverageRule() contracts.RuleResult {
	ms := []contracts.Metric{
		metric("fcf_ttm", e.fcfTTM),
		metric("fcf_coverage", e.fcfCoverage),
		metric("revenue_cagr", e.cagr),
	}
	fcf, ok := e.fcfTTM.Get()
	if !ok {
		return unknown(fmt.Sprintf("needs free cash flow for %d of the latest four quarters", e.p.CashFlow.FCFMinQuarters), e.fcfTTM, ms...)
	}

	if g, known := e.cagr.Get(); known && g >= e.p.Growth.GrowthGate {
		return verdict(fcf > 0, e.fcfTTM, ms...)
	}
	covered := false
	if c, known := e.fcfCoverage.Get(); known {
		covered = c >= e.p.CashFlow.FCFCoverageMin
	}
	return verdict(fcf > 0 || covered, e.fcfTTM, ms...)
}
