// Package stakerlog fetches and decodes the gzip-compressed staking
// event log produced by the upstream data pipeline.
package stakerlog

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"staking-lens/internal/domain"
	"staking-lens/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout              = 30 * time.Second
	DefaultMaxCompressedBytes   = 10 << 20 // 10 MiB
	DefaultMaxDecompressedBytes = 50 << 20 // 50 MiB
)

// Loader fetches the staker event log over HTTP and decodes it.
// Failed loads are never retried; the caller decides whether to resubmit.
type Loader struct {
	url             string
	client          *http.Client
	maxCompressed   int64
	maxDecompressed int64
	log             zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.client.Timeout = d
	}
}

// WithSizeLimits overrides the compressed/decompressed size ceilings.
func WithSizeLimits(compressed, decompressed int64) LoaderOption {
	return func(l *Loader) {
		l.maxCompressed = compressed
		l.maxDecompressed = decompressed
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a loader for the staker log at the given URL.
func NewLoader(url string, opts ...LoaderOption) *Loader {
	l := &Loader{
		url:             url,
		client:          &http.Client{Timeout: DefaultTimeout},
		maxCompressed:   DefaultMaxCompressedBytes,
		maxDecompressed: DefaultMaxDecompressedBytes,
		log:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// rawCache mirrors the wire document before tuple decoding.
type rawCache struct {
	Addresses map[string]*domain.IndexEntry `json:"addresses"`
	Events    [][]any                       `json:"events"`
	Meta      domain.Meta                   `json:"meta"`
}

// Load fetches, decompresses and decodes the staker log.
// Enforcement order: compressed ceiling before decompression,
// decompressed ceiling before JSON parsing.
func (l *Loader) Load(ctx context.Context) (*domain.StakerCache, Stats, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, Stats{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, Stats{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	compressed, err := readLimited(resp.Body, l.maxCompressed)
	if err != nil {
		if sizeErr, ok := err.(*SizeLimitError); ok {
			sizeErr.Stage = "compressed"
			return nil, Stats{}, sizeErr
		}
		return nil, Stats{}, &NetworkError{Err: err}
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer gz.Close()

	decompressed, err := readLimited(gz, l.maxDecompressed)
	if err != nil {
		if sizeErr, ok := err.(*SizeLimitError); ok {
			sizeErr.Stage = "decompressed"
			return nil, Stats{}, sizeErr
		}
		return nil, Stats{}, fmt.Errorf("%w: %v", ErrDecompression, err)
	}

	var raw rawCache
	if err := json.Unmarshal(decompressed, &raw); err != nil {
		return nil, Stats{}, fmt.Errorf("parse staker log: %w", err)
	}

	events, stats := decodeEvents(raw.Events)

	cache := &domain.StakerCache{
		Addresses: raw.Addresses,
		Events:    events,
		Meta:      raw.Meta,
	}
	if cache.Addresses == nil {
		cache.Addresses = map[string]*domain.IndexEntry{}
	}

	observability.RecordLogLoad(len(compressed), len(decompressed), stats.SkippedEvents)

	l.log.Debug().
		Int("compressed_bytes", len(compressed)).
		Int("decompressed_bytes", len(decompressed)).
		Int("events", stats.DecodedEvents).
		Int("skipped", stats.SkippedEvents).
		Dur("elapsed", time.Since(start)).
		Msg("staker log loaded")

	return cache, stats, nil
}

// readLimited reads r fully, failing with a SizeLimitError once more
// than limit bytes have been observed.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &SizeLimitError{Measured: int64(len(data)), Limit: limit}
	}
	return data, nil
}
