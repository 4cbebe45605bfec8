package contracts

import (
	"context"
	"fmt"
	"time"
)

// Quarter is one fiscal quarter's reported fundamentals
type Quarter struct {
	Period time.Time `json:"period"` // period end; zero = not parsed yet

	Revenue       Num `json:"revenue"`
	GrossProfit   Num `json:"gross_profit"`
	SGA           Num `json:"sga"`
	RnD           Num `json:"rnd"`
	OCF           Num `json:"ocf"`
	Capex         Num `json:"capex"` // non-negative magnitude
	Inventory     Num `json:"inventory"`
	Receivables   Num `json:"receivables"`
	Cash          Num `json:"cash"`
	TotalDebt     Num `json:"total_debt"`
	DilutedShares Num `json:"diluted_shares"`
	EBITDA        Num `json:"ebitda"`
	NetIncome     Num `json:"net_income"`

	FiscalYear    int `json:"fiscal_year,omitempty"`    // 0 = unknown
	FiscalQuarter int `json:"fiscal_quarter,omitempty"` // 1..4, 0 = unknown
}

// Label returns the calendar-quarter label ("2024Q3") of the period end
func (q Quarter) Label() string {
	if q.Period.IsZero() {
		return ""
	}
	return CalendarLabel(q.Period)
}

// CalendarLabel returns "{year}Q{q}" for the calendar quarter containing t
func CalendarLabel(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// Fundamentals is one provider's answer for one ticker
// ⭐ SSOT: Provider → Orchestrator → Scoring 데이터 전달
type Fundamentals struct {
	Ticker    string    `json:"ticker"`
	MarketCap Num       `json:"market_cap"`
	Quarters  []Quarter `json:"quarters"` // most recent first
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// MinUsableQuarters is the minimum history the scoring engine works with
const MinUsableQuarters = 4

// Usable reports whether there is enough history to score
func (f *Fundamentals) Usable() bool {
	return f != nil && len(f.Quarters) >= MinUsableQuarters
}

// CountWith counts quarters for which field is known
func (f *Fundamentals) CountWith(field func(Quarter) Num) int {
	if f == nil {
		return 0
	}
	n := 0
	for _, q := range f.Quarters {
		if field(q).Valid() {
			n++
		}
	}
	return n
}

// FundamentalsProvider fetches fundamentals from one data source
// ⭐ SSOT: Provider 어댑터 인터페이스
type FundamentalsProvider interface {
	Name() string
	Fetch(ctx context.Context, ticker string) (*Fundamentals, error)
}
