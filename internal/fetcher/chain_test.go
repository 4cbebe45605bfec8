package fetcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/pkg/logger"
)

type stubProvider struct {
	name   string
	result *contracts.Fundamentals
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	s.calls++
	return s.result, s.err
}

func TestFetchFundamentals_FallsThroughRecoverable(t *testing.T) {
	want := &contracts.Fundamentals{Ticker: "NVDA", Source: "alphavantage", MarketCap: contracts.Some(1)}
	a := &stubProvider{name: "sec", err: contracts.Recoverable("sec", contracts.ReasonQuota, "rate limited")}
	b := &stubProvider{name: "fmp", err: contracts.Recoverable("fmp", contracts.ReasonMissingKey, "FMP_API_KEY is not set")}
	c := &stubProvider{name: "alphavantage", result: want}

	chain := NewChain(logger.NewNop(), a, b, c)
	got, err := chain.FetchFundamentals(context.Background(), "NVDA")

	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, []int{1, 1, 1}, []int{a.calls, b.calls, c.calls})
}

func TestFetchFundamentals_StopsAtFirstSuccess(t *testing.T) {
	a := &stubProvider{name: "sec", result: &contracts.Fundamentals{Ticker: "NVDA"}}
	b := &stubProvider{name: "fmp", result: &contracts.Fundamentals{Ticker: "NVDA"}}

	_, err := NewChain(logger.NewNop(), a, b).FetchFundamentals(context.Background(), "NVDA")

	require.NoError(t, err)
	assert.Equal(t, 0, b.calls)
}

func TestFetchFundamentals_Exhausted(t *testing.T) {
	a := &stubProvider{name: "sec", err: contracts.Recoverable("sec", contracts.ReasonInsufficientData, "only 5 quarters")}
	b := &stubProvider{name: "fmp", err: contracts.HTTPStatus("fmp", 404)}
	c := &stubProvider{name: "alphavantage", err: contracts.Recoverable("alphavantage", contracts.ReasonQuota, "call budget spent")}

	_, attempts, err := NewChain(logger.NewNop(), a, b, c).FetchWithAttempts(context.Background(), "NVDA")
	require.Error(t, err)

	var pe *contracts.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, contracts.ReasonExhausted, pe.Reason)
	assert.False(t, pe.Recoverable)
	assert.Contains(t, err.Error(), "only 5 quarters")
	assert.Contains(t, err.Error(), "unexpected HTTP status 404")
	assert.Contains(t, err.Error(), "call budget spent")
	assert.Equal(t, 2, strings.Count(pe.Message, "; "))
	assert.Len(t, attempts, 3)
	assert.Equal(t, "sec=insufficient-data fmp=http-404 alphavantage=quota", Summary(attempts))
}

func TestFetchFundamentals_FatalStopsChain(t *testing.T) {
	fatal := contracts.Fatal("sec", contracts.ReasonInvalidFormat, "broken configuration")
	a := &stubProvider{name: "sec", err: fatal}
	b := &stubProvider{name: "fmp", result: &contracts.Fundamentals{Ticker: "NVDA"}}

	_, err := NewChain(logger.NewNop(), a, b).FetchFundamentals(context.Background(), "NVDA")

	assert.Same(t, fatal, err)
	assert.Equal(t, 0, b.calls)
}

func TestFetchFundamentals_UnclassifiedErrorIsRecoverable(t *testing.T) {
	a := &stubProvider{name: "sec", err: errors.New("connection reset")}
	b := &stubProvider{name: "fmp", result: &contracts.Fundamentals{Ticker: "NVDA"}}

	_, err := NewChain(logger.NewNop(), a, b).FetchFundamentals(context.Background(), "NVDA")

	require.NoError(t, err)
	assert.Equal(t, 1, b.calls)
}

func TestFetchFundamentals_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &stubProvider{name: "sec", err: context.Canceled}
	b := &stubProvider{name: "fmp", result: &contracts.Fundamentals{Ticker: "NVDA"}}
	cancel()

	_, err := NewChain(logger.NewNop(), a, b).FetchFundamentals(ctx, "NVDA")

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 0, b.calls)
}

func TestFetchFundamentals_NoProviders(t *testing.T) {
	_, err := NewChain(logger.NewNop()).FetchFundamentals(context.Background(), "NVDA")
	assert.Equal(t, contracts.ReasonExhausted, contracts.ReasonOf(err))
}
