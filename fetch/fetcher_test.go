package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a fetcher with no delays
func createTestFetcher(t *testing.T, retries int) *Fetcher {
	t.Helper()
	f, err := NewFetcher(&Config{
		Timeout:   5 * time.Second,
		Retries:   retries,
		UserAgent: "fightrecords-test",
	})
	require.NoError(t, err)
	return f
}

// TestFetch_Success verifies the body and status are returned
func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fightrecords-test", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	f := createTestFetcher(t, 0)
	resp, err := f.Fetch(context.Background(), server.URL+"/page", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, server.URL+"/page", resp.URL)
	assert.Equal(t, "<html><body>ok</body></html>", string(resp.Body))
}

// TestFetch_Headers verifies extra headers are sent
func TestFetch_Headers(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`html("x");`))
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("X-Requested-With", "XMLHttpRequest")

	f := createTestFetcher(t, 0)
	_, err := f.Fetch(context.Background(), server.URL, header)
	require.NoError(t, err)
	assert.Equal(t, "XMLHttpRequest", got.Get("X-Requested-With"))
	assert.Equal(t, "XMLHttpRequest", header.Get("X-Requested-With"), "caller header should be untouched")
}

// TestFetch_Retry verifies a failed attempt is retried
func TestFetch_Retry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("second time lucky"))
	}))
	defer server.Close()

	f := createTestFetcher(t, 1)
	resp, err := f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", string(resp.Body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// TestFetch_RetriesExhausted verifies the error after the last attempt
func TestFetch_RetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := createTestFetcher(t, 2)
	_, err := f.Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch "+server.URL)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// TestFetch_Revisit verifies the same URL can be fetched more than once
func TestFetch_Revisit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("fighter"))
	}))
	defer server.Close()

	f := createTestFetcher(t, 0)
	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), server.URL, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// TestFetch_Cancelled verifies a cancelled context stops before fetching
func TestFetch_Cancelled(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := createTestFetcher(t, 0)
	_, err := f.Fetch(ctx, server.URL, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

// TestNewFetcher_Defaults verifies the default politeness settings
func TestNewFetcher_Defaults(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 1, config.Retries)
	assert.Equal(t, 10*time.Minute, config.Timeout)
	assert.Empty(t, config.UserAgent)

	f, err := NewFetcher(nil)
	require.NoError(t, err)
	assert.NotNil(t, f)
}
