package timeline

import (
	"fmt"
	"time"

	"staking-lens/internal/domain"
)

// Reconstruct builds the full timeline result for one wallet from a
// decoded staker cache. Pure function: identical inputs always yield
// identical output, and the cache is never mutated.
func Reconstruct(wallet string, cache *domain.StakerCache) *domain.WalletTimeline {
	entry, ok := cache.Addresses[wallet]
	if !ok {
		return &domain.WalletTimeline{
			Wallet: wallet,
			Error:  fmt.Sprintf("Wallet not found in cache. Total wallets: %d", len(cache.Addresses)),
		}
	}

	if entry == nil || entry.FirstEvent == nil || entry.LastEvent == nil {
		return &domain.WalletTimeline{
			Wallet: wallet,
			Error:  "Wallet has no event data",
		}
	}

	// Index bounds never delimit a contiguous slice: events are
	// interleaved across wallets chronologically, so filter the full log.
	var events []domain.Event
	for _, ev := range cache.Events {
		if ev.Address == wallet {
			events = append(events, ev)
		}
	}

	if len(events) == 0 {
		return &domain.WalletTimeline{
			Wallet: wallet,
			Error:  "No events found for wallet",
		}
	}

	points, operations := Build(events)
	if len(points) == 0 {
		return &domain.WalletTimeline{
			Wallet: wallet,
			Error:  "Failed to build timeline",
		}
	}

	points = extendToCoverageEnd(points, cache.Meta.End)

	first := points[0].Date
	last := points[len(points)-1].Date

	summary := &domain.WalletSummary{
		TotalOperations:  len(operations),
		RealizedRewards:  points[len(points)-1].RealizedRewards,
		FirstStakeDate:   first,
		LastActivityDate: last,
		DaysActive:       daysActive(first, last, len(points)),
	}

	// Prefer the index snapshot for current balances, falling back to
	// the replayed totals when the snapshot is absent.
	summary.CurrentStaked = round6(snapshotAt(entry.Current, 0, points[len(points)-1].Staked))
	summary.CurrentUnstaked = round6(snapshotAt(entry.Current, 1, points[len(points)-1].Unstaked))

	return &domain.WalletTimeline{
		Wallet:     wallet,
		Found:      true,
		DateRange:  []string{first, last},
		Timeline:   points,
		Operations: operations,
		Summary:    summary,
	}
}

// extendToCoverageEnd appends one synthetic point at end-of-day UTC on
// the log's stated coverage end date, carrying the last balances
// forward, when that date is later than the final event. Charts then
// extend visually to "today" even for wallets with no recent activity.
func extendToCoverageEnd(points []domain.TimelinePoint, end string) []domain.TimelinePoint {
	if end == "" || len(points) == 0 {
		return points
	}

	// Timestamps are ISO-8601 in UTC, so lexical comparison is
	// chronological comparison.
	endOfDay := end + "T23:59:59Z"
	lastPoint := points[len(points)-1]
	if endOfDay <= lastPoint.Date {
		return points
	}

	return append(points, domain.TimelinePoint{
		Date:            endOfDay,
		Staked:          lastPoint.Staked,
		Unstaked:        lastPoint.Unstaked,
		RealizedRewards: lastPoint.RealizedRewards,
	})
}

// daysActive is the whole-day span between first and last activity,
// inclusive. Falls back to the timeline length if either date fails
// to parse.
func daysActive(first, last string, fallback int) int {
	firstT, err := time.Parse(time.RFC3339, first)
	if err != nil {
		return fallback
	}
	lastT, err := time.Parse(time.RFC3339, last)
	if err != nil {
		return fallback
	}
	return int(lastT.Sub(firstT).Hours()/24) + 1
}

// snapshotAt returns the i-th component of the index snapshot tuple,
// or the fallback when the tuple is missing or too short.
func snapshotAt(current []float64, i int, fallback float64) float64 {
	if i < len(current) {
		return current[i]
	}
	return fallback
}
