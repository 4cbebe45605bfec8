package merge

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscore/internal/contracts"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestApply_CreatesEmptyRecord(t *testing.T) {
	s := NewStore()
	s.Apply("2024Q1", Patch{})

	q, ok := s.Get("2024Q1")
	require.True(t, ok)
	assert.False(t, q.Revenue.Valid())
	assert.False(t, q.Capex.Valid())
	assert.Equal(t, 1, s.Len())
}

func TestApply_Idempotent(t *testing.T) {
	patch := Patch{
		Period:        date(2024, 3, 31),
		Revenue:       contracts.Some(100),
		GrossProfit:   contracts.Some(60),
		FiscalYear:    2024,
		FiscalQuarter: 1,
	}

	once := NewStore()
	once.Apply("2024Q1", patch)

	twice := NewStore()
	twice.Apply("2024Q1", patch)
	twice.Apply("2024Q1", patch)

	a, _ := once.Get("2024Q1")
	b, _ := twice.Get("2024Q1")
	if diff := cmp.Diff(a, b, cmp.AllowUnexported(contracts.Num{})); diff != "" {
		t.Errorf("re-applying a patch changed the record (-once +twice):\n%s", diff)
	}
}

func TestApply_UnknownFieldsDoNotOverwrite(t *testing.T) {
	s := NewStore()
	s.Apply("2024Q1", Patch{Revenue: contracts.Some(100), OCF: contracts.Some(20)})
	s.Apply("2024Q1", Patch{Revenue: contracts.None(), Capex: contracts.Some(5)})

	q, _ := s.Get("2024Q1")
	assert.Equal(t, contracts.Some(100), q.Revenue)
	assert.Equal(t, contracts.Some(20), q.OCF)
	assert.Equal(t, contracts.Some(5), q.Capex)
}

func TestApply_LastAppliedWins(t *testing.T) {
	s := NewStore()
	s.Apply("2024Q1", Patch{Revenue: contracts.Some(100), FiscalQuarter: 1})
	s.Apply("2024Q1", Patch{Revenue: contracts.Some(101), FiscalQuarter: 2})

	q, _ := s.Get("2024Q1")
	assert.Equal(t, contracts.Some(101), q.Revenue)
	assert.Equal(t, 2, q.FiscalQuarter)
}

func TestApply_DateKeysMergeWithinCalendarQuarter(t *testing.T) {
	s := NewStore()
	s.Apply("2024-06-29", Patch{Period: date(2024, 6, 29), Revenue: contracts.Some(100)})
	s.Apply("2024-06-30", Patch{Period: date(2024, 6, 30), Cash: contracts.Some(7)})

	assert.Equal(t, 1, s.Len())
	q, ok := s.Get("2024Q2")
	require.True(t, ok)
	assert.Equal(t, contracts.Some(100), q.Revenue)
	assert.Equal(t, contracts.Some(7), q.Cash)
}

func TestQuarters_SortedDedupedTruncated(t *testing.T) {
	s := NewStore()
	s.Apply("2023Q4", Patch{Period: date(2023, 12, 31), Revenue: contracts.Some(4)})
	s.Apply("2024Q2", Patch{Period: date(2024, 6, 30), Revenue: contracts.Some(6)})
	s.Apply("2024Q1", Patch{Period: date(2024, 3, 31), Revenue: contracts.Some(5)})
	// fiscal key whose period falls in an already used calendar quarter
	s.Apply("2025Q1", Patch{Period: date(2024, 3, 30), Revenue: contracts.Some(99)})
	s.Apply("undated", Patch{Revenue: contracts.Some(1)})

	got := s.Quarters(0)
	require.Len(t, got, 3)
	assert.Equal(t, "2024Q2", got[0].Label())
	assert.Equal(t, "2024Q1", got[1].Label())
	assert.Equal(t, contracts.Some(5), got[1].Revenue)
	assert.Equal(t, "2023Q4", got[2].Label())

	assert.Len(t, s.Quarters(2), 2)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "2024Q3", NormalizeKey("2024-09-28"))
	assert.Equal(t, "2025Q1", NormalizeKey("2025Q1"))
}
