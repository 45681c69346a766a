package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staking-lens/internal/domain"
)

func intPtr(v int) *int { return &v }

// exampleCache mirrors the canonical two-event scenario: one stake of
// 500 and one claim of 2.5 for W1, with coverage ending 2024-01-10.
func exampleCache() *domain.StakerCache {
	return &domain.StakerCache{
		Addresses: map[string]*domain.IndexEntry{
			"W1": {FirstEvent: intPtr(0), LastEvent: intPtr(1), Current: []float64{500, 0, 0, 0, 2.5}},
		},
		Events: []domain.Event{
			{Signature: "sigA", Timestamp: "2024-01-01T00:00:00Z", Slot: 100, Type: domain.OpStake, Address: "W1", DeltaStaked: 500},
			{Signature: "sigB", Timestamp: "2024-01-05T00:00:00Z", Slot: 200, Type: domain.OpClaim, Address: "W1", Reward: 2.5},
		},
		Meta: domain.Meta{Start: "2024-01-01", End: "2024-01-10", TotalWallets: 1, TotalEvents: 2},
	}
}

func TestReconstruct_Example(t *testing.T) {
	result := Reconstruct("W1", exampleCache())

	require.True(t, result.Found)
	require.Len(t, result.Timeline, 3)

	assert.Equal(t, "2024-01-01T00:00:00Z", result.Timeline[0].Date)
	assert.Equal(t, 500.0, result.Timeline[0].Staked)
	assert.Equal(t, 0.0, result.Timeline[0].RealizedRewards)

	assert.Equal(t, "2024-01-05T00:00:00Z", result.Timeline[1].Date)
	assert.Equal(t, 500.0, result.Timeline[1].Staked)
	assert.Equal(t, 2.5, result.Timeline[1].RealizedRewards)

	// Synthetic coverage-end point carries the last balances forward.
	assert.Equal(t, "2024-01-10T23:59:59Z", result.Timeline[2].Date)
	assert.Equal(t, 500.0, result.Timeline[2].Staked)
	assert.Equal(t, 2.5, result.Timeline[2].RealizedRewards)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 2, result.Summary.TotalOperations)
	assert.Equal(t, 2.5, result.Summary.RealizedRewards)
	assert.Equal(t, 500.0, result.Summary.CurrentStaked)
	assert.Equal(t, "2024-01-01T00:00:00Z", result.Summary.FirstStakeDate)
	assert.Equal(t, "2024-01-10T23:59:59Z", result.Summary.LastActivityDate)
	// 2024-01-01T00:00:00 through 2024-01-10T23:59:59, inclusive.
	assert.Equal(t, 10, result.Summary.DaysActive)

	assert.Equal(t, []string{"2024-01-01T00:00:00Z", "2024-01-10T23:59:59Z"}, result.DateRange)
}

func TestReconstruct_WalletNotFound(t *testing.T) {
	result := Reconstruct("missing", exampleCache())

	assert.False(t, result.Found)
	assert.Equal(t, "Wallet not found in cache. Total wallets: 1", result.Error)
}

func TestReconstruct_NoEventData(t *testing.T) {
	cache := exampleCache()
	cache.Addresses["W2"] = &domain.IndexEntry{Current: []float64{0, 0}}

	result := Reconstruct("W2", cache)

	assert.False(t, result.Found)
	assert.Equal(t, "Wallet has no event data", result.Error)
}

func TestReconstruct_NoEventsInLog(t *testing.T) {
	// Index claims events exist but none survive the log filter:
	// internally inconsistent input, reported distinctly.
	cache := exampleCache()
	cache.Addresses["W3"] = &domain.IndexEntry{FirstEvent: intPtr(0), LastEvent: intPtr(0)}

	result := Reconstruct("W3", cache)

	assert.False(t, result.Found)
	assert.Equal(t, "No events found for wallet", result.Error)
}

func TestReconstruct_NoCoverageExtensionWhenUpToDate(t *testing.T) {
	cache := exampleCache()
	cache.Meta.End = "2024-01-05"

	result := Reconstruct("W1", cache)

	require.True(t, result.Found)
	// end-of-day 2024-01-05 is later than the midnight event, so one
	// synthetic point is still appended.
	require.Len(t, result.Timeline, 3)
	assert.Equal(t, "2024-01-05T23:59:59Z", result.Timeline[2].Date)

	cache.Events[1].Timestamp = "2024-01-05T23:59:59Z"
	result = Reconstruct("W1", cache)
	require.True(t, result.Found)
	assert.Len(t, result.Timeline, 2)
}

func TestReconstruct_IgnoresOtherWallets(t *testing.T) {
	cache := exampleCache()
	cache.Addresses["W2"] = &domain.IndexEntry{FirstEvent: intPtr(2), LastEvent: intPtr(2), Current: []float64{42, 0}}
	cache.Events = append(cache.Events,
		domain.Event{Signature: "sigC", Timestamp: "2024-01-03T00:00:00Z", Type: domain.OpStake, Address: "W2", DeltaStaked: 42})

	result := Reconstruct("W1", cache)

	require.True(t, result.Found)
	assert.Equal(t, 2, result.Summary.TotalOperations)
	for _, op := range result.Operations {
		assert.NotEqual(t, "sigC", op.Signature)
	}
}

func TestReconstruct_SummaryFallsBackToReplayedBalances(t *testing.T) {
	cache := exampleCache()
	cache.Addresses["W1"].Current = nil

	result := Reconstruct("W1", cache)

	require.True(t, result.Found)
	assert.Equal(t, 500.0, result.Summary.CurrentStaked)
	assert.Equal(t, 0.0, result.Summary.CurrentUnstaked)
}

func TestReconstruct_DoesNotMutateCache(t *testing.T) {
	cache := exampleCache()
	before := len(cache.Events)

	r1 := Reconstruct("W1", cache)
	r2 := Reconstruct("W1", cache)

	assert.Equal(t, before, len(cache.Events))
	assert.Equal(t, r1, r2)
}

func TestDaysActive(t *testing.T) {
	assert.Equal(t, 1, daysActive("2024-01-01T00:00:00Z", "2024-01-01T10:00:00Z", 99))
	assert.Equal(t, 5, daysActive("2024-01-01T00:00:00Z", "2024-01-05T00:00:00Z", 99))
	// Unparseable dates fall back to the timeline length.
	assert.Equal(t, 99, daysActive("not-a-date", "2024-01-05T00:00:00Z", 99))
}
