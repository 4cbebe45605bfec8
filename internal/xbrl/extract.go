package xbrl

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/wonny/growthscore/internal/normalize"
)

// DefaultMaxQuarterDays is the longest span still treated as a single quarter
const DefaultMaxQuarterDays = 120

// acceptedForms are the periodic reports trusted for quarterly values
var acceptedForms = map[string]bool{
	"10-Q":   true,
	"10-Q/A": true,
	"10-K":   true,
	"10-K/A": true,
}

func isAnnualForm(form string) bool {
	return form == "10-K" || form == "10-K/A"
}

var framePattern = regexp.MustCompile(`^[A-Z]{2}(\d{4})Q([1-4])I?$`)

// Point is one resolved quarterly value
type Point struct {
	Value       float64
	PeriodEnd   time.Time
	Filed       time.Time
	PeriodStart time.Time // zero for instant facts and YTD-derived values
	Derived     bool      // true when taken from year-to-date or longer spans
}

// Extractor resolves concept facts to fiscal quarter keys
// ⭐ SSOT: XBRL fact → "{year}Q{q}" 변환은 여기서만
type Extractor struct {
	MaxQuarterDays int
}

// NewExtractor creates an extractor with the default quarter span
func NewExtractor() *Extractor {
	return &Extractor{MaxQuarterDays: DefaultMaxQuarterDays}
}

// Extract runs the default extractor
func Extract(doc *CompanyFacts, configs []ConceptConfig, mode Mode) map[string]Point {
	return NewExtractor().Extract(doc, configs, mode)
}

// candidate is a fact that passed form, date and unit filtering
type candidate struct {
	fact   Fact
	value  float64
	start  time.Time
	end    time.Time
	filed  time.Time
	annual bool
}

// Extract returns quarter key → value for the first matching concepts.
// Iteration follows the configured order of concepts and units, so the
// result is deterministic for a given document.
func (e *Extractor) Extract(doc *CompanyFacts, configs []ConceptConfig, mode Mode) map[string]Point {
	out := make(map[string]Point)
	if doc == nil {
		return out
	}

	candidates := collect(doc, configs)
	if len(candidates) == 0 {
		return out
	}

	current := currentPeriodFlags(candidates)
	cal := learnCalendar(candidates, current)

	ytd := make(map[string]Point)
	for i, c := range candidates {
		key := resolveKey(c, current[i], cal)

		if mode == Instant {
			keep(out, key, Point{Value: c.value, PeriodEnd: c.end, Filed: c.filed})
			continue
		}

		// Duration facts without a start date cannot be classified
		if c.start.IsZero() {
			continue
		}
		p := Point{Value: c.value, PeriodEnd: c.end, Filed: c.filed, PeriodStart: c.start}
		if normalize.DaysBetween(c.start, c.end) <= e.maxQuarterDays() {
			keep(out, key, p)
		} else {
			keep(ytd, key, p)
		}
	}

	switch mode {
	case Duration:
		decomposeYTD(out, ytd)
	case Average:
		fillFromLongerSpans(out, ytd)
	}
	return out
}

// fillFromLongerSpans uses the half-year, nine-month or annual average for
// keys without a quarter-length fact. 10-K filings only report the full-year
// weighted average, so fiscal Q4 would otherwise always be missing.
func fillFromLongerSpans(quarterly, longer map[string]Point) {
	for key, p := range longer {
		if _, ok := quarterly[key]; ok {
			continue
		}
		p.Derived = true
		quarterly[key] = p
	}
}

func (e *Extractor) maxQuarterDays() int {
	if e == nil || e.MaxQuarterDays <= 0 {
		return DefaultMaxQuarterDays
	}
	return e.MaxQuarterDays
}

// keep stores p unless an existing value was filed later
func keep(m map[string]Point, key string, p Point) {
	if existing, ok := m[key]; ok && p.Filed.Before(existing.Filed) {
		return
	}
	m[key] = p
}

func collect(doc *CompanyFacts, configs []ConceptConfig) []candidate {
	var out []candidate
	for _, cfg := range configs {
		concepts := doc.Facts[cfg.Taxonomy]
		if concepts == nil {
			continue
		}
		for _, name := range cfg.Concepts {
			concept, ok := concepts[name]
			if !ok {
				continue
			}
			for _, unit := range unitsFor(cfg, concept) {
				scale, ok := normalize.UnitScale(unit)
				if !ok {
					continue
				}
				for _, f := range concept.Units[unit] {
					if !acceptedForms[f.Form] {
						continue
					}
					end, ok := normalize.ParseDate(f.End)
					if !ok {
						continue
					}
					start, _ := normalize.ParseDate(f.Start)
					filed, _ := normalize.ParseDate(f.Filed)
					out = append(out, candidate{
						fact:   f,
						value:  f.Val * scale,
						start:  start,
						end:    end,
						filed:  filed,
						annual: isAnnualForm(f.Form),
					})
				}
			}
		}
	}
	return out
}

func unitsFor(cfg ConceptConfig, concept Concept) []string {
	if len(cfg.Units) > 0 {
		return cfg.Units
	}
	units := make([]string, 0, len(concept.Units))
	for u := range concept.Units {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// currentPeriodFlags marks facts whose end date is the latest one reported
// by their accession. Comparative prior-period facts inside the same filing
// carry the filing's fy/fp tags and must not be keyed by them. Facts without
// an accession cannot be compared and are taken as current.
func currentPeriodFlags(candidates []candidate) []bool {
	latest := make(map[string]time.Time)
	for _, c := range candidates {
		if c.fact.Accn == "" {
			continue
		}
		if c.end.After(latest[c.fact.Accn]) {
			latest[c.fact.Accn] = c.end
		}
	}

	flags := make([]bool, len(candidates))
	for i, c := range candidates {
		if c.fact.Accn == "" {
			flags[i] = true
			continue
		}
		flags[i] = c.end.Equal(latest[c.fact.Accn])
	}
	return flags
}

func fiscalQuarterTag(fp string) (int, bool) {
	switch fp {
	case "Q1":
		return 1, true
	case "Q2":
		return 2, true
	case "Q3":
		return 3, true
	case "Q4", "FY":
		return 4, true
	}
	return 0, false
}

func resolveKey(c candidate, current bool, cal fiscalCalendar) string {
	if current && c.fact.FY > 0 {
		if q, ok := fiscalQuarterTag(c.fact.FP); ok {
			return normalize.QuarterKey(c.fact.FY, q)
		}
	}

	// untagged current-period fact of an annual report closes the fiscal year
	if c.annual && current {
		if fq, ok := cal.lookup(c.end); ok {
			return normalize.QuarterKey(fq.year, 4)
		}
		return normalize.QuarterKey(c.end.Year(), 4)
	}

	if fq, ok := cal.lookup(c.end); ok {
		return normalize.QuarterKey(fq.year, fq.quarter)
	}

	if m := framePattern.FindStringSubmatch(c.fact.Frame); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return normalize.QuarterKey(year, q)
	}

	return normalize.CalendarLabel(c.end)
}

// decomposeYTD derives quarterly values from year-to-date figures for keys
// that have no clean quarterly value. Keys are processed in ascending
// (year, quarter) order so earlier derived values feed later ones.
func decomposeYTD(quarterly, ytd map[string]Point) {
	type entry struct {
		key           string
		year, quarter int
	}
	entries := make([]entry, 0, len(ytd))
	for key := range ytd {
		y, q, ok := normalize.ParseQuarterKey(key)
		if !ok {
			continue
		}
		entries = append(entries, entry{key, y, q})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].year != entries[j].year {
			return entries[i].year < entries[j].year
		}
		return entries[i].quarter < entries[j].quarter
	})

	for _, en := range entries {
		if _, ok := quarterly[en.key]; ok {
			continue
		}
		cum := ytd[en.key]

		if en.quarter == 1 {
			cum.Derived = true
			quarterly[en.key] = cum
			continue
		}

		prior, ok := priorCumulative(quarterly, ytd, en.year, en.quarter)
		if !ok {
			continue
		}
		quarterly[en.key] = Point{
			Value:     cum.Value - prior,
			PeriodEnd: cum.PeriodEnd,
			Filed:     cum.Filed,
			Derived:   true,
		}
	}
}

// priorCumulative returns the fiscal-year-to-date total through quarter-1:
// the prior YTD figure if reported, else the sum of resolved quarters.
func priorCumulative(quarterly, ytd map[string]Point, year, quarter int) (float64, bool) {
	if p, ok := ytd[normalize.QuarterKey(year, quarter-1)]; ok {
		return p.Value, true
	}

	sum := 0.0
	for q := 1; q < quarter; q++ {
		p, ok := quarterly[normalize.QuarterKey(year, q)]
		if !ok {
			return 0, false
		}
		sum += p.Value
	}
	return sum, true
}
