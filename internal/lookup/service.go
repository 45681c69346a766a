// Package lookup orchestrates wallet timeline lookups: address
// validation, staker log loading, replay, reconciliation and
// best-effort persistence.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"staking-lens/internal/domain"
	"staking-lens/internal/logger"
	"staking-lens/internal/observability"
	"staking-lens/internal/solana"
	"staking-lens/internal/stakerlog"
	"staking-lens/internal/storage"
	"staking-lens/internal/timeline"
	"staking-lens/internal/verification"
)

// ErrEmptyAddress is returned when the submitted address is blank.
var ErrEmptyAddress = errors.New("empty wallet address")

// LogLoader abstracts staker log loading so tests can substitute a stub.
type LogLoader interface {
	Load(ctx context.Context) (*domain.StakerCache, stakerlog.Stats, error)
}

// Options configures a lookup Service.
type Options struct {
	Loader LogLoader

	// LookupStore and TimelineStore are optional; persistence is
	// best-effort and never fails a lookup.
	LookupStore   storage.LookupRecordStore
	TimelineStore storage.TimelinePointStore

	Logger zerolog.Logger
}

// Service mediates between consumers and the loader/reconstructor.
type Service struct {
	loader        LogLoader
	lookupStore   storage.LookupRecordStore
	timelineStore storage.TimelinePointStore
	log           zerolog.Logger
}

// NewService creates a lookup service.
func NewService(opts Options) *Service {
	log := opts.Logger
	return &Service{
		loader:        opts.Loader,
		lookupStore:   opts.LookupStore,
		timelineStore: opts.TimelineStore,
		log:           log,
	}
}

// Lookup reconstructs the timeline for one wallet address. Every call
// fetches the staker log fresh: the log is small and lookups are
// infrequent, so there is deliberately no cross-address caching.
// Cancelling ctx aborts the in-flight fetch.
func (s *Service) Lookup(ctx context.Context, wallet string) (*domain.WalletTimeline, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, ErrEmptyAddress
	}

	start := time.Now()
	observability.DefaultMetrics.LookupsInFlight.Inc()
	defer observability.DefaultMetrics.LookupsInFlight.Dec()

	// Reject malformed addresses before paying for a log fetch.
	if !solana.ValidAddress(wallet) {
		observability.RecordLookup("invalid", time.Since(start).Seconds())
		return &domain.WalletTimeline{
			Wallet: wallet,
			Error:  "Not a valid Solana wallet address",
		}, nil
	}

	// Off-curve addresses are program-derived; they own staking
	// positions too, so the distinction is informational only.
	onCurve := solana.OnCurve(wallet)
	wlog := logger.WithWallet(s.log, wallet)

	cache, stats, err := s.loader.Load(ctx)
	if err != nil {
		observability.RecordLookup("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("load staker log: %w", err)
	}

	result := timeline.Reconstruct(wallet, cache)

	if stats.SkippedEvents > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d malformed event tuples were skipped during decode", stats.SkippedEvents))
	}

	if result.Found {
		for _, d := range verification.CheckSnapshot(result, cache.Addresses[wallet]) {
			observability.RecordSnapshotDivergence()
			wlog.Warn().Str("field", d.Field).
				Float64("replayed", d.Replayed).Float64("snapshot", d.Snapshot).
				Msg("replayed totals diverge from index snapshot")
			result.Warnings = append(result.Warnings, d.String())
		}
	}

	outcome := "not_found"
	if result.Found {
		outcome = "found"
	}
	observability.RecordLookup(outcome, time.Since(start).Seconds())

	s.persist(ctx, result, time.Since(start))

	wlog.Info().Bool("found", result.Found).Bool("on_curve", onCurve).
		Dur("elapsed", time.Since(start)).Msg("wallet lookup served")

	return result, nil
}

// persist writes the audit record and timeline points. Failures are
// logged and swallowed; persistence never affects the lookup outcome.
func (s *Service) persist(ctx context.Context, result *domain.WalletTimeline, elapsed time.Duration) {
	if s.lookupStore != nil {
		record := &domain.LookupRecord{
			Wallet:     result.Wallet,
			Found:      result.Found,
			DurationMs: elapsed.Milliseconds(),
			LookedUpAt: time.Now().UTC(),
		}
		if result.Summary != nil {
			record.Operations = result.Summary.TotalOperations
		}
		if err := s.lookupStore.Insert(ctx, record); err != nil {
			s.log.Warn().Err(err).Str("wallet", result.Wallet).Msg("persist lookup record failed")
		}
	}

	if s.timelineStore != nil && result.Found {
		points := make([]*domain.WalletTimelinePoint, 0, len(result.Timeline))
		for _, p := range result.Timeline {
			points = append(points, &domain.WalletTimelinePoint{
				Wallet:          result.Wallet,
				Date:            p.Date,
				Staked:          p.Staked,
				Unstaked:        p.Unstaked,
				RealizedRewards: p.RealizedRewards,
			})
		}
		if err := s.timelineStore.InsertBulk(ctx, points); err != nil {
			s.log.Warn().Err(err).Str("wallet", result.Wallet).Msg("persist timeline points failed")
		}
	}
}
