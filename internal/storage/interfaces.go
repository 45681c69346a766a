package storage

import (
	"context"

	"staking-lens/internal/domain"
)

// LookupRecordStore provides access to the wallet-lookup audit log.
type LookupRecordStore interface {
	// Insert appends a lookup record.
	Insert(ctx context.Context, r *domain.LookupRecord) error

	// GetRecent retrieves the most recent records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.LookupRecord, error)

	// CountByWallet returns how many lookups were served for a wallet.
	CountByWallet(ctx context.Context, wallet string) (int64, error)
}

// TimelinePointStore provides access to persisted reconstructed
// timeline points. Re-running a lookup for the same wallet replaces
// points at the same (wallet, date) key.
type TimelinePointStore interface {
	// InsertBulk upserts a batch of points for one or more wallets.
	InsertBulk(ctx context.Context, points []*domain.WalletTimelinePoint) error

	// GetByWallet retrieves all points for a wallet, ordered by date ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.WalletTimelinePoint, error)
}
