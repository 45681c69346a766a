// Package verification reconciles replayed running totals against the
// index snapshot carried by the staker cache.
package verification

import (
	"fmt"
	"math"

	"staking-lens/internal/domain"
)

// SnapshotTolerance absorbs 6-decimal rounding noise when comparing
// replayed totals to the index snapshot.
const SnapshotTolerance = 1e-5

// FieldDivergence represents a mismatch between the index snapshot and
// the replayed value.
type FieldDivergence struct {
	Field    string
	Snapshot float64
	Replayed float64
}

func (d FieldDivergence) String() string {
	return fmt.Sprintf("%s diverges from index snapshot: replayed %.6f, snapshot %.6f",
		d.Field, d.Replayed, d.Snapshot)
}

// CheckSnapshot compares the final replayed balances of a found result
// against the wallet's index snapshot. Divergence indicates upstream
// data corruption; it is reported as warnings, never as a failure,
// since the replayed series remains the source of truth.
func CheckSnapshot(result *domain.WalletTimeline, entry *domain.IndexEntry) []FieldDivergence {
	if result == nil || !result.Found || len(result.Timeline) == 0 || entry == nil {
		return nil
	}

	last := result.Timeline[len(result.Timeline)-1]

	var divergences []FieldDivergence
	check := func(field string, idx int, replayed float64) {
		if idx >= len(entry.Current) {
			return
		}
		snapshot := entry.Current[idx]
		if math.Abs(snapshot-replayed) > SnapshotTolerance {
			divergences = append(divergences, FieldDivergence{
				Field:    field,
				Snapshot: snapshot,
				Replayed: replayed,
			})
		}
	}

	check("staked", 0, last.Staked)
	check("unstaked", 1, last.Unstaked)
	check("total_rewards", 4, last.RealizedRewards)

	return divergences
}
