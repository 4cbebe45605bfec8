package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/database"
)

func sampleRun() (*contracts.ScoreResult, *contracts.Fundamentals) {
	pass := true
	result := &contracts.ScoreResult{
		Ticker:     "nvda",
		TotalScore: 7,
		Rating:     "good",
		Rules: map[contracts.RuleKey]contracts.RuleResult{
			contracts.RuleRevenueCAGR: {Pass: &pass, Value: contracts.Some(0.62)},
			contracts.RuleDilution:    {Value: contracts.None()},
		},
		ProfileID: "growth_quality_v1",
	}
	f := &contracts.Fundamentals{
		Ticker:    "NVDA",
		MarketCap: contracts.Some(4.2e12),
		Source:    "sec",
		Quarters: []contracts.Quarter{
			{Period: time.Date(2025, 7, 27, 0, 0, 0, 0, time.UTC), Revenue: contracts.Some(46.7e9)},
		},
	}
	return result, f
}

func TestNewSnapshot(t *testing.T) {
	result, f := sampleRun()

	s, err := NewSnapshot(result, f, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", s.Ticker)
	assert.Equal(t, "sec", s.Source)
	assert.Equal(t, "growth_quality_v1", s.ProfileID)
	assert.Equal(t, 7, s.TotalScore)
	assert.True(t, json.Valid(s.Fundamentals))

	decoded, err := s.DecodeResult()
	require.NoError(t, err)
	assert.True(t, decoded.Rules[contracts.RuleRevenueCAGR].Passed())
	assert.True(t, decoded.Rules[contracts.RuleDilution].Unknown())
	assert.Equal(t, contracts.Some(0.62), decoded.Rules[contracts.RuleRevenueCAGR].Value)
}

func TestNewSnapshot_RequiresInputs(t *testing.T) {
	_, err := NewSnapshot(nil, &contracts.Fundamentals{}, "")
	assert.Error(t, err)
}

func TestRepository_RoundTrip(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	result, f := sampleRun()
	result.Ticker = "ZZTEST"
	s, err := NewSnapshot(result, f, "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))
	assert.NotZero(t, s.ID)

	latest, err := repo.Latest(ctx, "zztest")
	require.NoError(t, err)
	assert.Equal(t, s.ID, latest.ID)
	assert.Equal(t, 7, latest.TotalScore)

	history, err := repo.History(ctx, "ZZTEST", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	_, err = repo.Latest(ctx, "NO-SUCH-TICKER")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.Pool.Exec(ctx, "DELETE FROM growthscore.score_snapshots WHERE ticker = 'ZZTEST'")
	require.NoError(t, err)
}
