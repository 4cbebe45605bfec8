package xbrl

import "time"

type fiscalQuarter struct {
	year    int
	quarter int
}

// mapping is what one month-end means in the issuer's fiscal calendar
type mapping struct {
	quarter   int
	yearDelta int // fiscal year minus calendar year of the month end
}

// fiscalCalendar maps a period-end month to a fiscal quarter. It is learned
// from current-period facts that carry fy/fp tags, so non-calendar fiscal
// years (52/53-week years ending in late January, September, ...) resolve
// the same way the issuer labels them.
type fiscalCalendar map[time.Month]mapping

// roundToMonthEnd snaps a period end to the nearest month end. 52/53-week
// years end a few days either side of the month boundary.
func roundToMonthEnd(t time.Time) (int, time.Month) {
	if t.Day() <= 15 {
		prev := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return prev.Year(), prev.Month()
	}
	return t.Year(), t.Month()
}

func learnCalendar(candidates []candidate, current []bool) fiscalCalendar {
	votes := make(map[time.Month]map[mapping]int)
	for i, c := range candidates {
		if !current[i] || c.fact.FY <= 0 {
			continue
		}
		q, ok := fiscalQuarterTag(c.fact.FP)
		if !ok {
			continue
		}
		year, month := roundToMonthEnd(c.end)
		m := mapping{quarter: q, yearDelta: c.fact.FY - year}
		if votes[month] == nil {
			votes[month] = make(map[mapping]int)
		}
		votes[month][m]++
	}

	cal := make(fiscalCalendar, len(votes))
	for month, counts := range votes {
		var best mapping
		bestN := 0
		for m, n := range counts {
			if n > bestN || (n == bestN && less(m, best)) {
				best, bestN = m, n
			}
		}
		cal[month] = best
	}
	return cal
}

func less(a, b mapping) bool {
	if a.quarter != b.quarter {
		return a.quarter < b.quarter
	}
	return a.yearDelta < b.yearDelta
}

func (cal fiscalCalendar) lookup(end time.Time) (fiscalQuarter, bool) {
	year, month := roundToMonthEnd(end)
	m, ok := cal[month]
	if !ok {
		return fiscalQuarter{}, false
	}
	return fiscalQuarter{year: year + m.yearDelta, quarter: m.quarter}, true
}
