package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking-lens/internal/datasets"
	"staking-lens/internal/domain"
	"staking-lens/internal/lookup"
	"staking-lens/internal/stakerlog"
)

const testWallet = "11111111111111111111111111111111"

func intPtr(v int) *int { return &v }

type stubLoader struct {
	cache *domain.StakerCache
	err   error
}

func (s *stubLoader) Load(ctx context.Context) (*domain.StakerCache, stakerlog.Stats, error) {
	if s.err != nil {
		return nil, stakerlog.Stats{}, s.err
	}
	return s.cache, stakerlog.Stats{}, nil
}

func newTestServer(t *testing.T, loader lookup.LogLoader) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_manifest.json":
			w.Write([]byte(`{"generated_at":"2024-06-01T00:00:00Z"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	lookups := lookup.NewService(lookup.Options{Loader: loader, Logger: zerolog.Nop()})
	ds := datasets.NewService(upstream.URL)

	srv := httptest.NewServer(New(lookups, ds, nil, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func testCache() *domain.StakerCache {
	return &domain.StakerCache{
		Addresses: map[string]*domain.IndexEntry{
			testWallet: {FirstEvent: intPtr(0), LastEvent: intPtr(0), Current: []float64{100, 0, 0, 0, 0}},
		},
		Events: []domain.Event{
			{Signature: "sig1", Timestamp: "2024-02-01T00:00:00Z", Type: domain.OpStake, Address: testWallet, DeltaStaked: 100},
		},
		Meta: domain.Meta{Start: "2024-02-01", End: "2024-02-01", TotalWallets: 1, TotalEvents: 1},
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_WalletLookup(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/api/v1/wallet/" + testWallet)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.WalletTimeline
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Found)
	assert.Equal(t, testWallet, result.Wallet)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 1, result.Summary.TotalOperations)
}

func TestServer_WalletLookup_NotFoundWallet(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/api/v1/wallet/TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	require.NoError(t, err)
	defer resp.Body.Close()
	// Not-found is a domain outcome, not an HTTP error.
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.WalletTimeline
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Found)
	assert.Contains(t, result.Error, "Wallet not found in cache")
}

func TestServer_WalletLookup_MissingAddress(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/api/v1/wallet/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_WalletLookup_LoaderFailure(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: &stakerlog.SizeLimitError{Stage: "compressed", Measured: 99, Limit: 10}})

	resp, err := http.Get(srv.URL + "/api/v1/wallet/" + testWallet)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInsufficientStorage, resp.StatusCode)
}

func TestServer_Dataset(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/api/v1/datasets/manifest")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var manifest domain.Manifest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&manifest))
	assert.Equal(t, "2024-06-01T00:00:00Z", manifest.GeneratedAt)
}

func TestServer_Dataset_Unknown(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/api/v1/datasets/bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Status(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "running", status.Status)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, &stubLoader{cache: testCache()})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
