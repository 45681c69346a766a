package datasets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RawCachesPerDataset(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/_manifest.json":
			w.Write([]byte(`{"generated_at":"2024-06-01T00:00:00Z"}`))
		case "/apr_data.json":
			w.Write([]byte(`{"summary":{"current_apr":12.5}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	ctx := context.Background()

	raw, err := svc.Raw(ctx, DatasetManifest)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "generated_at")

	// Second read is served from cache.
	_, err = svc.Raw(ctx, DatasetManifest)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err = svc.Raw(ctx, DatasetApr)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, 2, svc.CachedCount())
}

func TestService_UnknownDataset(t *testing.T) {
	svc := NewService("http://127.0.0.1:0")
	_, err := svc.Raw(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestService_DecodedAccessors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_manifest.json":
			w.Write([]byte(`{"generated_at":"2024-06-01T00:00:00Z"}`))
		case "/apr_data.json":
			w.Write([]byte(`{"summary":{"thirty_day_average_reference_apr":12.5}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	ctx := context.Background()

	manifest, err := svc.Manifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T00:00:00Z", manifest.GeneratedAt)

	apr, err := svc.Apr(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, apr.Summary.ThirtyDayAverageReferenceApr)
}

func TestService_UpstreamErrorCachedUntilInvalidated(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"generated_at":"2024-06-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	ctx := context.Background()

	_, err := svc.Raw(ctx, DatasetManifest)
	require.Error(t, err)

	_, err = svc.Raw(ctx, DatasetManifest)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	svc.Invalidate(DatasetManifest)
	_, err = svc.Raw(ctx, DatasetManifest)
	require.NoError(t, err)
}

func TestCatalog(t *testing.T) {
	path, ok := Path(DatasetManifest)
	require.True(t, ok)
	assert.Equal(t, "_manifest.json", path)

	_, ok = Path("bogus")
	assert.False(t, ok)

	path, ok = Path(DatasetStakerLoyalty)
	require.True(t, ok)
	assert.Equal(t, "staker_loyalty.json", path)

	path, ok = Path(DatasetUsageMetrics)
	require.True(t, ok)
	assert.Equal(t, "usage_metrics.json", path)

	path, ok = Path(DatasetVestingTimeline)
	require.True(t, ok)
	assert.Equal(t, "vesting_timeline.json", path)

	names := Names()
	assert.Contains(t, names, DatasetApr)
	assert.Contains(t, names, DatasetStaking)
	assert.Contains(t, names, DatasetStakerLoyalty)
	assert.Contains(t, names, DatasetUsageMetrics)
	assert.Contains(t, names, DatasetVestingTimeline)
	// Sorted for stable listings.
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
