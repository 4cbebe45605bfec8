// Package merge accumulates partial quarterly records from several statement
// sections into one record per period.
package merge

import (
	"sort"
	"time"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/normalize"
)

// Patch is a partial quarter. Unknown Num fields and zero values are absent.
type Patch struct {
	Period time.Time

	Revenue       contracts.Num
	GrossProfit   contracts.Num
	SGA           contracts.Num
	RnD           contracts.Num
	OCF           contracts.Num
	Capex         contracts.Num
	Inventory     contracts.Num
	Receivables   contracts.Num
	Cash          contracts.Num
	TotalDebt     contracts.Num
	DilutedShares contracts.Num
	EBITDA        contracts.Num
	NetIncome     contracts.Num

	FiscalYear    int
	FiscalQuarter int
}

// Store holds one Quarter per period key
// ⭐ SSOT: Quarter 레코드는 Store.Apply 로만 생성/수정
type Store struct {
	records map[string]*contracts.Quarter
	order   []string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{records: make(map[string]*contracts.Quarter)}
}

// NormalizeKey maps date-like keys to their calendar-quarter label so
// statements dated a few days apart land in the same record. Other keys
// (fiscal quarter keys) are used as is.
func NormalizeKey(key string) string {
	if t, ok := normalize.ParseDate(key); ok {
		return normalize.CalendarLabel(t)
	}
	return key
}

// Apply merges p into the record for key, creating it if needed.
// Known fields overwrite; re-applying the same patch is a no-op.
func (s *Store) Apply(key string, p Patch) {
	key = NormalizeKey(key)

	q, ok := s.records[key]
	if !ok {
		q = &contracts.Quarter{}
		s.records[key] = q
		s.order = append(s.order, key)
	}

	if !p.Period.IsZero() {
		q.Period = p.Period
	}
	if p.FiscalYear != 0 {
		q.FiscalYear = p.FiscalYear
	}
	if p.FiscalQuarter != 0 {
		q.FiscalQuarter = p.FiscalQuarter
	}

	set(&q.Revenue, p.Revenue)
	set(&q.GrossProfit, p.GrossProfit)
	set(&q.SGA, p.SGA)
	set(&q.RnD, p.RnD)
	set(&q.OCF, p.OCF)
	set(&q.Capex, p.Capex)
	set(&q.Inventory, p.Inventory)
	set(&q.Receivables, p.Receivables)
	set(&q.Cash, p.Cash)
	set(&q.TotalDebt, p.TotalDebt)
	set(&q.DilutedShares, p.DilutedShares)
	set(&q.EBITDA, p.EBITDA)
	set(&q.NetIncome, p.NetIncome)
}

func set(dst *contracts.Num, v contracts.Num) {
	if v.Valid() {
		*dst = v
	}
}

// Get returns a copy of the record for key
func (s *Store) Get(key string) (contracts.Quarter, bool) {
	q, ok := s.records[NormalizeKey(key)]
	if !ok {
		return contracts.Quarter{}, false
	}
	return *q, true
}

// Keys returns period keys in first-seen order
func (s *Store) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// Quarters returns dated records most-recent-first, keeping the first record
// for each calendar label, truncated to limit (limit <= 0 = all). Records
// without a period are dropped.
func (s *Store) Quarters(limit int) []contracts.Quarter {
	all := make([]contracts.Quarter, 0, len(s.records))
	for _, key := range s.order {
		q := s.records[key]
		if q.Period.IsZero() {
			continue
		}
		all = append(all, *q)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Period.After(all[j].Period)
	})

	seen := make(map[string]bool, len(all))
	out := make([]contracts.Quarter, 0, len(all))
	for _, q := range all {
		label := q.Label()
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
