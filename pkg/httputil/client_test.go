package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:         "test",
		LogLevel:    "error",
		LogFormat:   "json",
		HTTPTimeout: 5 * time.Second,
	}
}

func TestNew(t *testing.T) {
	client := New(testConfig(), logger.NewNop())
	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("Expected timeout from config, got %v", client.httpClient.Timeout)
	}

	if client.retryConfig.MaxRetries != 2 {
		t.Errorf("Expected MaxRetries=2, got %d", client.retryConfig.MaxRetries)
	}
}

func TestNewWithTimeout(t *testing.T) {
	client := NewWithTimeout(testConfig(), logger.NewNop(), time.Second)

	if client.httpClient.Timeout != time.Second {
		t.Errorf("Expected timeout=1s, got %v", client.httpClient.Timeout)
	}
}

func TestOptionsDoNotLeak(t *testing.T) {
	base := New(testConfig(), logger.NewNop())
	sec := base.WithHeader("User-Agent", "growthscore/1.0 (ops@growthscore.dev)").WithRateLimit(10)

	if _, ok := base.headers["User-Agent"]; ok {
		t.Error("Expected base client headers to stay untouched")
	}
	if base.limiter != nil {
		t.Error("Expected base client to stay unpaced")
	}
	if sec.limiter == nil {
		t.Error("Expected derived client to be paced")
	}

	noRetry := base.DisableRetry()
	if !base.retryConfig.Enabled || noRetry.retryConfig.Enabled {
		t.Error("DisableRetry must only affect the derived client")
	}
}

func TestGetSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if got := r.Header.Get("User-Agent"); got != "growthscore/1.0 (ops@growthscore.dev)" {
			t.Errorf("Expected custom User-Agent, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Expected Accept header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(testConfig(), logger.NewNop()).WithHeader("User-Agent", "growthscore/1.0 (ops@growthscore.dev)")

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(testConfig(), logger.NewNop()).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Request failed after retries: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestNoRetryOn429(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(testConfig(), logger.NewNop()).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected response, got error %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Expected a single attempt, got %d", got)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(testConfig(), logger.NewNop()).WithRetry(5, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp, err := client.Get(ctx, server.URL)
	if err == nil {
		resp.Body.Close()
		t.Fatal("Expected context error")
	}
	if time.Since(start) > 900*time.Millisecond {
		t.Errorf("Retry loop ignored cancellation (%v)", time.Since(start))
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{404, false},
		{429, false},
		{500, true},
		{502, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			if got := IsRetryableStatus(tt.statusCode); got != tt.want {
				t.Errorf("IsRetryableStatus(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	u, _ := url.Parse("https://www.alphavantage.co/query?function=OVERVIEW&symbol=IBM&apikey=secret")
	got := redact(u)
	if got != "https://www.alphavantage.co/query?apikey=%2A%2A%2A&function=OVERVIEW&symbol=IBM" {
		t.Errorf("Unexpected redacted URL %q", got)
	}

	plain, _ := url.Parse("https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json")
	if redact(plain) != plain.String() {
		t.Errorf("Expected URL without secrets to be unchanged")
	}
}
