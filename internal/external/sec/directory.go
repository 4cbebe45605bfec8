package sec

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/external"
)

// DirectoryState is the lifecycle of a TickerDirectory
type DirectoryState int

const (
	DirectoryEmpty DirectoryState = iota
	DirectoryLoading
	DirectoryPopulated
)

func (s DirectoryState) String() string {
	switch s {
	case DirectoryLoading:
		return "loading"
	case DirectoryPopulated:
		return "populated"
	default:
		return "empty"
	}
}

// DirectoryLoader downloads the full ticker → CIK table
type DirectoryLoader func(ctx context.Context) (map[string]string, error)

// TickerDirectory caches the ticker → 10-digit CIK table for the process
// lifetime. The first Lookup loads it; concurrent callers wait for that load.
// A failed load leaves the directory empty so a later call retries.
// ⭐ SSOT: ticker → CIK 매핑 캐시
type TickerDirectory struct {
	loadMu sync.Mutex // single writer

	mu    sync.RWMutex
	state DirectoryState
	ciks  map[string]string

	loader DirectoryLoader
}

// NewTickerDirectory creates an empty directory populated lazily by loader
func NewTickerDirectory(loader DirectoryLoader) *TickerDirectory {
	return &TickerDirectory{loader: loader}
}

// NewStaticDirectory creates a populated directory (tests, offline runs)
func NewStaticDirectory(ciks map[string]string) *TickerDirectory {
	d := &TickerDirectory{state: DirectoryPopulated, ciks: make(map[string]string, len(ciks))}
	for ticker, cik := range ciks {
		d.ciks[strings.ToUpper(ticker)] = padCIK(cik)
	}
	return d
}

// State returns the current lifecycle state
func (d *TickerDirectory) State() DirectoryState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Lookup returns the 10-digit CIK for ticker
func (d *TickerDirectory) Lookup(ctx context.Context, ticker string) (string, bool, error) {
	if err := d.ensure(ctx); err != nil {
		return "", false, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	cik, ok := d.ciks[strings.ToUpper(strings.TrimSpace(ticker))]
	return cik, ok, nil
}

// Len returns the number of cached tickers
func (d *TickerDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.ciks)
}

func (d *TickerDirectory) ensure(ctx context.Context) error {
	if d.State() == DirectoryPopulated {
		return nil
	}

	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	// another caller may have finished the load while we waited
	if d.State() == DirectoryPopulated {
		return nil
	}
	if d.loader == nil {
		return fmt.Errorf("ticker directory has no loader")
	}

	d.setState(DirectoryLoading)
	ciks, err := d.loader(ctx)
	if err != nil {
		d.setState(DirectoryEmpty)
		return err
	}

	d.mu.Lock()
	d.ciks = ciks
	d.state = DirectoryPopulated
	d.mu.Unlock()
	return nil
}

func (d *TickerDirectory) setState(s DirectoryState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// tickerEntry is one row of company_tickers.json
type tickerEntry struct {
	CIK    json.Number `json:"cik_str"`
	Ticker string      `json:"ticker"`
	Title  string      `json:"title"`
}

// HTTPDirectoryLoader loads company_tickers.json from url
func HTTPDirectoryLoader(c external.Getter, url string) DirectoryLoader {
	return func(ctx context.Context) (map[string]string, error) {
		var rows map[string]tickerEntry
		if err := external.GetJSON(ctx, c, providerName, url, &rows); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, contracts.Recoverable(providerName, contracts.ReasonInvalidFormat, "ticker directory is empty")
		}

		ciks := make(map[string]string, len(rows))
		for _, row := range rows {
			if row.Ticker == "" || row.CIK == "" {
				continue
			}
			ciks[strings.ToUpper(row.Ticker)] = padCIK(row.CIK.String())
		}
		return ciks, nil
	}
}

func padCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
