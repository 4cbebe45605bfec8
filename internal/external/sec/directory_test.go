package sec

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticDirectory(t *testing.T) {
	d := NewStaticDirectory(map[string]string{"nvda": "1045810"})
	assert.Equal(t, DirectoryPopulated, d.State())

	cik, ok, err := d.Lookup(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0001045810", cik)

	_, ok, err = d.Lookup(context.Background(), "MISSING")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTickerDirectory_LoadsOnce(t *testing.T) {
	var loads int32
	d := NewTickerDirectory(func(ctx context.Context) (map[string]string, error) {
		atomic.AddInt32(&loads, 1)
		return map[string]string{"AAPL": "0000320193"}, nil
	})
	assert.Equal(t, DirectoryEmpty, d.State())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cik, ok, err := d.Lookup(context.Background(), "aapl")
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "0000320193", cik)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	assert.Equal(t, DirectoryPopulated, d.State())
	assert.Equal(t, 1, d.Len())
}

func TestTickerDirectory_FailedLoadRetries(t *testing.T) {
	var loads int32
	d := NewTickerDirectory(func(ctx context.Context) (map[string]string, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			return nil, errors.New("sec.gov unavailable")
		}
		return map[string]string{"MSFT": "0000789019"}, nil
	})

	_, _, err := d.Lookup(context.Background(), "MSFT")
	require.Error(t, err)
	assert.Equal(t, DirectoryEmpty, d.State())

	cik, ok, err := d.Lookup(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0000789019", cik)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestPadCIK(t *testing.T) {
	assert.Equal(t, "0000320193", padCIK("320193"))
	assert.Equal(t, "0000320193", padCIK("0000320193"))
}
