// Package memory provides in-memory storage implementations, used by
// tests and as the server default when no database DSNs are configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"staking-lens/internal/domain"
	"staking-lens/internal/storage"
)

// LookupRecordStore is an in-memory implementation of
// storage.LookupRecordStore.
type LookupRecordStore struct {
	mu     sync.RWMutex
	nextID int64
	data   []*domain.LookupRecord
}

// NewLookupRecordStore creates a new in-memory lookup record store.
func NewLookupRecordStore() *LookupRecordStore {
	return &LookupRecordStore{nextID: 1}
}

// Insert appends a lookup record.
func (s *LookupRecordStore) Insert(_ context.Context, r *domain.LookupRecord) error {
	if r == nil || r.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	stored.ID = s.nextID
	s.nextID++
	s.data = append(s.data, &stored)
	r.ID = stored.ID
	return nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *LookupRecordStore) GetRecent(_ context.Context, limit int) ([]*domain.LookupRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.LookupRecord, 0, len(s.data))
	for _, r := range s.data {
		stored := *r
		result = append(result, &stored)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].LookedUpAt.Equal(result[j].LookedUpAt) {
			return result[i].LookedUpAt.After(result[j].LookedUpAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountByWallet returns how many lookups were served for a wallet.
func (s *LookupRecordStore) CountByWallet(_ context.Context, wallet string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.data {
		if r.Wallet == wallet {
			n++
		}
	}
	return n, nil
}

var _ storage.LookupRecordStore = (*LookupRecordStore)(nil)
