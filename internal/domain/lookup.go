package domain

import "time"

// LookupRecord is an audit row describing one wallet lookup served by
// this service. Persisted best-effort; lookups never fail on it.
type LookupRecord struct {
	ID         int64
	Wallet     string
	Found      bool
	Operations int
	DurationMs int64
	LookedUpAt time.Time
}

// WalletTimelinePoint is a reconstructed timeline point flattened for
// persistence, keyed by (wallet, date).
type WalletTimelinePoint struct {
	Wallet          string
	Date            string
	Staked          float64
	Unstaked        float64
	RealizedRewards float64
}
