package scoring

import "fmt"

// redFlags are advisory and never change the score
func (e *evaluation) redFlags() []string {
	flags := []string{}

	// (a) OCF negative and getting worse
	if ttm, ok := e.ocfTTM.Get(); ok && ttm < 0 {
		near, ok1 := e.ocfNear2.Get()
		prior, ok2 := e.ocfPrior2.Get()
		if ok1 && ok2 && near < prior {
			flags = append(flags, "operating cash flow is negative and declining")
		}
	}

	// (b) receivables + inventory growing by more than revenue, latest4 - prior4 sums
	wcDelta := sub(sumOf(window(e.slots, 0, 4), workingCapital), sumOf(window(e.slots, 4, 8), workingCapital))
	revDelta := sub(e.latest4Revenue, e.prior4Revenue)
	if wc, ok := wcDelta.Get(); ok {
		if rev, ok := revDelta.Get(); ok && wc > rev {
			flags = append(flags, fmt.Sprintf("receivables and inventory up %.0f vs revenue up %.0f over four quarters", wc, rev))
		}
	}

	// (c) YoY gross margin contraction
	if len(e.slots) > 4 {
		now, ok1 := grossMargin(e.slots[0].Quarter).Get()
		then, ok2 := grossMargin(e.slots[4].Quarter).Get()
		if ok1 && ok2 && then-now >= e.p.RedFlags.GrossMarginContraction {
			flags = append(flags, fmt.Sprintf("gross margin contracted %.1f pts year over year", (then-now)*100))
		}
	}

	// (d) dilution
	if d, ok := e.dilution.Get(); ok && d > e.p.RedFlags.Dilution {
		flags = append(flags, fmt.Sprintf("diluted shares up %.1f%% year over year", d*100))
	}

	return flags
}
