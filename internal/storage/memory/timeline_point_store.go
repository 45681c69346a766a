package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"staking-lens/internal/domain"
	"staking-lens/internal/storage"
)

// TimelinePointStore is an in-memory implementation of
// storage.TimelinePointStore.
type TimelinePointStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WalletTimelinePoint // keyed by wallet|date
}

// NewTimelinePointStore creates a new in-memory timeline point store.
func NewTimelinePointStore() *TimelinePointStore {
	return &TimelinePointStore{
		data: make(map[string]*domain.WalletTimelinePoint),
	}
}

func pointKey(wallet, date string) string {
	return fmt.Sprintf("%s|%s", wallet, date)
}

// InsertBulk upserts a batch of points. Existing points at the same
// (wallet, date) key are replaced, matching the ReplacingMergeTree
// semantics of the ClickHouse implementation.
func (s *TimelinePointStore) InsertBulk(_ context.Context, points []*domain.WalletTimelinePoint) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if p == nil || p.Wallet == "" || p.Date == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		stored := *p
		s.data[pointKey(p.Wallet, p.Date)] = &stored
	}
	return nil
}

// GetByWallet retrieves all points for a wallet, ordered by date ASC.
func (s *TimelinePointStore) GetByWallet(_ context.Context, wallet string) ([]*domain.WalletTimelinePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.WalletTimelinePoint
	for _, p := range s.data {
		if p.Wallet == wallet {
			stored := *p
			result = append(result, &stored)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

var _ storage.TimelinePointStore = (*TimelinePointStore)(nil)
