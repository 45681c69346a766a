package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"staking-lens/internal/datasets"
	"staking-lens/internal/domain"
	"staking-lens/internal/observability"
)

// DefaultPollInterval is how often the manifest is re-checked.
const DefaultPollInterval = 5 * time.Minute

// Datasets is the slice of the dataset service the watcher needs.
type Datasets interface {
	Manifest(ctx context.Context) (*domain.Manifest, error)
	Invalidate(name string)
	InvalidateAll()
}

// Broadcaster delivers refresh messages to subscribers.
type Broadcaster interface {
	Broadcast(v any)
}

// RefreshMessage is pushed to subscribers when the upstream pipeline
// regenerates the datasets.
type RefreshMessage struct {
	Type        string `json:"type"`
	GeneratedAt string `json:"generated_at"`
}

// Watcher polls the dataset manifest and, when generated_at changes,
// invalidates the dataset cache and notifies subscribers.
type Watcher struct {
	datasets Datasets
	hub      Broadcaster
	interval time.Duration
	log      zerolog.Logger

	last string
}

// NewWatcher creates a manifest watcher.
func NewWatcher(ds Datasets, hub Broadcaster, interval time.Duration, log zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		datasets: ds,
		hub:      hub,
		interval: interval,
		log:      log,
	}
}

// Run polls until ctx is cancelled. One failed poll is logged and
// skipped; the next tick retries.
func (w *Watcher) Run(ctx context.Context) error {
	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll fetches a fresh manifest and reacts to a changed generated_at.
func (w *Watcher) poll(ctx context.Context) {
	// Bypass the cached copy; the whole point is seeing new data.
	w.datasets.Invalidate(datasets.DatasetManifest)

	manifest, err := w.datasets.Manifest(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("manifest poll failed")
		return
	}

	if manifest.GeneratedAt == w.last {
		return
	}

	// First observation just primes the baseline.
	if w.last != "" {
		w.log.Info().Str("generated_at", manifest.GeneratedAt).Msg("datasets regenerated upstream")
		w.datasets.InvalidateAll()
		observability.RecordManifestRefresh()
		w.hub.Broadcast(RefreshMessage{Type: "datasets_refreshed", GeneratedAt: manifest.GeneratedAt})
	}
	w.last = manifest.GeneratedAt
}
