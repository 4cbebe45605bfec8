package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/httputil"
	"github.com/wonny/growthscore/pkg/logger"
)

func testClient() *httputil.Client {
	cfg := &config.Config{Env: "test", HTTPTimeout: 5 * time.Second}
	return httputil.New(cfg, logger.NewNop()).DisableRetry()
}

func TestGetJSON_Classification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason contracts.Reason
		wantKind   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, contracts.ReasonQuota, "quota"},
		{"unauthorized", http.StatusUnauthorized, `{}`, contracts.ReasonUnauthorized, "unauthorized"},
		{"forbidden", http.StatusForbidden, `{}`, contracts.ReasonUnauthorized, "unauthorized"},
		{"not found", http.StatusNotFound, `{}`, contracts.ReasonHTTP, "http-404"},
		{"server error", http.StatusInternalServerError, `{}`, contracts.ReasonHTTP, "http-500"},
		{"non-JSON body", http.StatusOK, `<html>maintenance</html>`, contracts.ReasonParse, "parse"},
		{"empty body", http.StatusOK, "  ", contracts.ReasonParse, "parse"},
		{"embedded error", http.StatusOK, `{"Error Message":"Limit Reach"}`, contracts.ReasonQuota, "quota"},
		{"wrong shape", http.StatusOK, `[1,2,3]`, contracts.ReasonInvalidFormat, "invalid-format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out struct {
				Symbol string `json:"symbol"`
			}
			err := GetJSON(context.Background(), testClient(), "fmp", server.URL, &out, ErrorFields("Error Message"))
			require.Error(t, err)

			var pe *contracts.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantReason, pe.Reason)
			assert.Equal(t, tt.wantKind, pe.Kind())
			assert.True(t, pe.Recoverable)
			assert.Equal(t, "fmp", pe.Provider)
		})
	}
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"NVDA","marketCap":3.2e12}]`))
	}))
	defer server.Close()

	var out []struct {
		Symbol    string  `json:"symbol"`
		MarketCap float64 `json:"marketCap"`
	}
	require.NoError(t, GetJSON(context.Background(), testClient(), "fmp", server.URL, &out, ErrorFields("Error Message")))
	require.Len(t, out, 1)
	assert.Equal(t, "NVDA", out[0].Symbol)
}

func TestGetJSON_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var out map[string]interface{}
	err := GetJSON(context.Background(), testClient(), "sec", url, &out)
	assert.Equal(t, contracts.ReasonNetwork, contracts.ReasonOf(err))
	assert.True(t, contracts.IsRecoverable(err))
}

func TestGetJSON_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]interface{}
	err := GetJSON(ctx, testClient(), "sec", server.URL, &out)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, contracts.IsRecoverable(err))
}

func TestErrorFields(t *testing.T) {
	probe := ErrorFields("Note", "Information", "Error Message")

	msg, ok := probe([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	assert.True(t, ok)
	assert.Contains(t, msg, "Note")

	_, ok = probe([]byte(`{"Symbol":"IBM","Note":""}`))
	assert.False(t, ok)

	_, ok = probe([]byte(`[{"Note":"x"}]`))
	assert.False(t, ok)
}
