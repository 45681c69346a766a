package datasets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"staking-lens/internal/datacache"
	"staking-lens/internal/domain"
	"staking-lens/internal/observability"
)

// ErrUnknownDataset is returned for names outside the catalog.
var ErrUnknownDataset = errors.New("unknown dataset")

// DefaultTimeout bounds a single dataset fetch.
const DefaultTimeout = 15 * time.Second

// Service fetches datasets over HTTP and caches them for the lifetime
// of the process (or until invalidated by the manifest watcher).
type Service struct {
	baseURL string
	client  *http.Client
	cache   *datacache.Cache
	log     zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		s.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a dataset service rooted at baseURL.
func NewService(baseURL string, opts ...ServiceOption) *Service {
	s := &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = datacache.New(s.fetchDataset)
	return s
}

// fetchDataset is the cache-miss path: one HTTP GET per dataset name.
func (s *Service) fetchDataset(ctx context.Context, name string) ([]byte, error) {
	path, ok := Path(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}

	url := s.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		observability.RecordDatasetFetch(name, "error")
		return nil, fmt.Errorf("fetch dataset %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.RecordDatasetFetch(name, "error")
		return nil, fmt.Errorf("fetch dataset %s: unexpected status %s", name, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordDatasetFetch(name, "error")
		return nil, fmt.Errorf("read dataset %s: %w", name, err)
	}

	observability.RecordDatasetFetch(name, "ok")
	s.log.Debug().Str("dataset", name).Int("bytes", len(data)).Msg("dataset fetched")
	return data, nil
}

// Raw returns the cached raw JSON bytes for a dataset name.
func (s *Service) Raw(ctx context.Context, name string) ([]byte, error) {
	if _, ok := Path(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return s.cache.Get(ctx, name)
}

// Manifest returns the dataset freshness manifest.
func (s *Service) Manifest(ctx context.Context) (*domain.Manifest, error) {
	return decodeDataset[domain.Manifest](ctx, s, DatasetManifest)
}

// Apr returns the APR dataset.
func (s *Service) Apr(ctx context.Context) (*domain.AprData, error) {
	return decodeDataset[domain.AprData](ctx, s, DatasetApr)
}

// Staking returns the protocol-wide staking metrics dataset.
func (s *Service) Staking(ctx context.Context) (*domain.StakingMetrics, error) {
	return decodeDataset[domain.StakingMetrics](ctx, s, DatasetStaking)
}

// Summary returns the treasury revenue summary dataset.
func (s *Service) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	return decodeDataset[domain.DashboardSummary](ctx, s, DatasetSummary)
}

// Invalidate drops one dataset from the cache.
func (s *Service) Invalidate(name string) {
	s.cache.Invalidate(name)
}

// InvalidateAll drops every cached dataset.
func (s *Service) InvalidateAll() {
	s.cache.InvalidateAll()
}

// CachedCount reports how many datasets are currently cached.
func (s *Service) CachedCount() int {
	return s.cache.Len()
}

// decodeDataset fetches a dataset through the cache and decodes it.
func decodeDataset[T any](ctx context.Context, s *Service, name string) (*T, error) {
	data, err := s.Raw(ctx, name)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", name, err)
	}
	return &out, nil
}
