// Package timeline reconstructs per-wallet balance timelines by
// replaying staking events in chronological order.
package timeline

import (
	"math"

	"staking-lens/internal/domain"
	"staking-lens/internal/solana"
)

// round6 rounds to 6 decimal places (half away from zero) to suppress
// floating-point noise in emitted balances.
func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

// Build replays events in their given order and emits one timeline
// point and one operation record per event. Events must already be
// filtered to a single wallet and in chronological (log) order.
//
// Running totals: staked moves by DeltaStaked, unstaked by
// DeltaPending, and realized rewards accumulate the reward amount of
// compound and claim events only, so they are non-decreasing.
func Build(events []domain.Event) ([]domain.TimelinePoint, []domain.Operation) {
	points := make([]domain.TimelinePoint, 0, len(events))
	operations := make([]domain.Operation, 0, len(events))

	var staked, unstaked, realized float64

	for _, ev := range events {
		staked += ev.DeltaStaked
		unstaked += ev.DeltaPending

		var amount float64
		switch ev.Type {
		case domain.OpInitialize, domain.OpStake, domain.OpUnstake:
			amount = math.Abs(ev.DeltaStaked)
		case domain.OpWithdraw:
			amount = math.Abs(ev.DeltaPending)
		case domain.OpCompound, domain.OpClaim:
			amount = ev.Reward
			realized += ev.Reward
		}

		points = append(points, domain.TimelinePoint{
			Date:            ev.Timestamp,
			Staked:          round6(staked),
			Unstaked:        round6(unstaked),
			RealizedRewards: round6(realized),
		})

		operations = append(operations, domain.Operation{
			Date:       ev.Timestamp,
			Type:       ev.Type.Name(),
			TypeLabel:  ev.Type.Label(),
			Amount:     round6(amount),
			Signature:  ev.Signature,
			SolscanURL: solana.SolscanTxURL(ev.Signature),
		})
	}

	return points, operations
}
