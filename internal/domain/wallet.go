package domain

// IndexEntry is the per-wallet entry of the staker cache address index.
// FirstEvent/LastEvent are indices of the wallet's first and last
// occurrence in the global event log. Events are interleaved across
// wallets chronologically, so these bounds do NOT delimit a contiguous
// slice; wallet lookups must still filter the full log by address.
type IndexEntry struct {
	FirstEvent *int `json:"first_event"`
	LastEvent  *int `json:"last_event"`

	// Current is the latest known state as a 5-tuple:
	// (staked, unstaked, withdrawn, compounded, total_rewards).
	// Used as a consistency check against replayed totals, never as
	// the source of truth for the time series.
	Current []float64 `json:"current"`
}

// Meta describes the coverage of the staker cache.
type Meta struct {
	Start        string `json:"start"` // YYYY-MM-DD
	End          string `json:"end"`   // YYYY-MM-DD
	TotalWallets int    `json:"total_wallets"`
	TotalEvents  int    `json:"total_events"`
}

// StakerCache is the fully decoded event log document. Immutable once
// loaded; held for the duration of a lookup and then discarded.
type StakerCache struct {
	Addresses map[string]*IndexEntry
	Events    []Event
	Meta      Meta
}

// TimelinePoint is one point of a wallet's reconstructed balance
// timeline. All balances are running cumulative totals as of the
// event, rounded to 6 decimal places.
type TimelinePoint struct {
	Date            string  `json:"date"`
	Staked          float64 `json:"staked"`
	Unstaked        float64 `json:"unstaked"`
	RealizedRewards float64 `json:"realized_rewards"`
}

// Operation is the operation-log record emitted in parallel with each
// timeline point. Amount is a type-dependent positive magnitude.
type Operation struct {
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	TypeLabel  string  `json:"type_label"`
	Amount     float64 `json:"amount"`
	Signature  string  `json:"signature"`
	SolscanURL string  `json:"solscan_url"`
}

// WalletSummary holds the derived statistics for a wallet.
type WalletSummary struct {
	TotalOperations int     `json:"total_operations"`
	CurrentStaked   float64 `json:"current_staked"`
	CurrentUnstaked float64 `json:"current_unstaked"`
	RealizedRewards float64 `json:"realized_rewards"`
	FirstStakeDate  string  `json:"first_stake_date"`
	LastActivityDate string `json:"last_activity_date"`
	DaysActive      int     `json:"days_active"`
}

// WalletTimeline is the reconstructor's result object: either a full
// timeline (Found=true) or a not-found outcome with a diagnostic.
type WalletTimeline struct {
	Wallet     string          `json:"wallet"`
	Found      bool            `json:"found"`
	DateRange  []string        `json:"date_range,omitempty"`
	Timeline   []TimelinePoint `json:"timeline,omitempty"`
	Operations []Operation     `json:"operations,omitempty"`
	Summary    *WalletSummary  `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`

	// Warnings carries data-quality observations (skipped malformed
	// tuples, snapshot divergence) without failing the lookup.
	Warnings []string `json:"warnings,omitempty"`
}
