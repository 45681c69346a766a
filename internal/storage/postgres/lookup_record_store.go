package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"staking-lens/internal/domain"
	"staking-lens/internal/observability"
	"staking-lens/internal/storage"
)

// LookupRecordStore implements storage.LookupRecordStore using PostgreSQL.
type LookupRecordStore struct {
	pool *Pool
}

// NewLookupRecordStore creates a new LookupRecordStore.
func NewLookupRecordStore(pool *Pool) *LookupRecordStore {
	return &LookupRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LookupRecordStore = (*LookupRecordStore)(nil)

// Insert appends a lookup record.
func (s *LookupRecordStore) Insert(ctx context.Context, r *domain.LookupRecord) error {
	if r == nil || r.Wallet == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO lookup_records (wallet, found, operations, duration_ms, looked_up_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	start := time.Now()
	err := s.pool.QueryRow(ctx, query,
		r.Wallet,
		r.Found,
		r.Operations,
		r.DurationMs,
		r.LookedUpAt,
	).Scan(&r.ID)
	observability.RecordDBQuery("postgres", "insert_lookup_record", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("insert lookup record: %w", err)
	}
	return nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *LookupRecordStore) GetRecent(ctx context.Context, limit int) ([]*domain.LookupRecord, error) {
	query := `
		SELECT id, wallet, found, operations, duration_ms, looked_up_at
		FROM lookup_records
		ORDER BY looked_up_at DESC, id DESC
		LIMIT $1
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, limit)
	observability.RecordDBQuery("postgres", "get_recent_lookups", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("get recent lookup records: %w", err)
	}
	defer rows.Close()

	return scanLookupRecords(rows)
}

// CountByWallet returns how many lookups were served for a wallet.
func (s *LookupRecordStore) CountByWallet(ctx context.Context, wallet string) (int64, error) {
	query := `SELECT count(*) FROM lookup_records WHERE wallet = $1`

	var n int64
	start := time.Now()
	err := s.pool.QueryRow(ctx, query, wallet).Scan(&n)
	observability.RecordDBQuery("postgres", "count_lookups_by_wallet", time.Since(start).Seconds(), err)
	if err != nil {
		return 0, fmt.Errorf("count lookup records: %w", err)
	}
	return n, nil
}

// scanLookupRecords scans multiple rows into a slice of LookupRecord.
func scanLookupRecords(rows pgx.Rows) ([]*domain.LookupRecord, error) {
	var records []*domain.LookupRecord

	for rows.Next() {
		var r domain.LookupRecord

		err := rows.Scan(
			&r.ID,
			&r.Wallet,
			&r.Found,
			&r.Operations,
			&r.DurationMs,
			&r.LookedUpAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lookup record row: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookup record rows: %w", err)
	}

	return records, nil
}
