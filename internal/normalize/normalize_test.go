package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/growthscore/internal/contracts"
)

func TestToNum(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  contracts.Num
	}{
		{"float", 12.5, contracts.Some(12.5)},
		{"int", 7, contracts.Some(7)},
		{"int64", int64(9), contracts.Some(9)},
		{"json number", json.Number("1e3"), contracts.Some(1000)},
		{"string with commas", "1,250,000", contracts.Some(1250000)},
		{"None", "None", contracts.None()},
		{"N/A", "N/A", contracts.None()},
		{"dash", "-", contracts.None()},
		{"nil", nil, contracts.None()},
		{"bool", true, contracts.None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNum(tt.input))
		})
	}
}

func TestUnitScale(t *testing.T) {
	tests := []struct {
		unit string
		want float64
		ok   bool
	}{
		{"USD", 1, true},
		{"shares", 1, true},
		{"pure", 1, true},
		{"thousands", 1e3, true},
		{"USD thousands", 1e3, true},
		{"millions", 1e6, true},
		{"Billions", 1e9, true},
		{"EUR", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got, ok := UnitScale(tt.unit)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScale(t *testing.T) {
	v, err := Scale(2.5, "millions")
	assert.NoError(t, err)
	assert.Equal(t, contracts.Some(2.5e6), v)

	_, err = Scale(1, "JPY")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"2024-06-30", "2024-06-30T00:00:00Z", "2024-06-30 00:00:00"} {
		got, ok := ParseDate(s)
		assert.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}

	_, ok := ParseDate("30/06/2024")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}

func TestQuarterKeys(t *testing.T) {
	assert.Equal(t, "2024Q3", QuarterKey(2024, 3))

	y, q, ok := ParseQuarterKey("2023Q4")
	assert.True(t, ok)
	assert.Equal(t, 2023, y)
	assert.Equal(t, 4, q)

	_, _, ok = ParseQuarterKey("2023Q5")
	assert.False(t, ok)

	y, q = PrevQuarter(2024, 1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, 4, q)

	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), QuarterEnd(2024, 2))
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), QuarterEnd(2024, 4))
	assert.Equal(t, "2024Q2", CalendarLabel(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)))
}

func TestFirstAndAbs(t *testing.T) {
	assert.Equal(t, contracts.Some(2), First(contracts.None(), contracts.Some(2), contracts.Some(3)))
	assert.False(t, First(contracts.None()).Valid())
	assert.Equal(t, contracts.Some(5), Abs(contracts.Some(-5)))
	assert.False(t, Abs(contracts.None()).Valid())
}

func TestFiscalQuarter(t *testing.T) {
	assert.Equal(t, 3, FiscalQuarter("Q3"))
	assert.Equal(t, 4, FiscalQuarter("fy"))
	assert.Equal(t, 0, FiscalQuarter("H1"))
}
