package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuarter_Label(t *testing.T) {
	tests := []struct {
		period time.Time
		want   string
	}{
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "2024Q1"},
		{time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), "2024Q2"},
		{time.Date(2024, 9, 29, 0, 0, 0, 0, time.UTC), "2024Q3"},
		{time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC), "2025Q1"},
		{time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Quarter{Period: tt.period}.Label())
		})
	}
}

func TestFundamentals_Usable(t *testing.T) {
	var nilF *Fundamentals
	assert.False(t, nilF.Usable())

	f := &Fundamentals{Quarters: make([]Quarter, 3)}
	assert.False(t, f.Usable())

	f.Quarters = append(f.Quarters, Quarter{Revenue: Some(10)})
	assert.True(t, f.Usable())
	assert.Equal(t, 1, f.CountWith(func(q Quarter) Num { return q.Revenue }))
}

func TestRuleResult_Verdict(t *testing.T) {
	yes, no := true, false

	assert.Equal(t, "unknown", RuleResult{}.Verdict())
	assert.Equal(t, "pass", RuleResult{Pass: &yes}.Verdict())
	assert.Equal(t, "fail", RuleResult{Pass: &no}.Verdict())
	assert.False(t, RuleResult{}.Passed())
	assert.True(t, RuleResult{}.Unknown())
}
