package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"staking-lens/internal/domain"
	"staking-lens/internal/observability"
	"staking-lens/internal/storage"
)

// TimelinePointStore implements storage.TimelinePointStore using
// ClickHouse. The backing table is a ReplacingMergeTree keyed by
// (wallet, date), so re-inserting a wallet's timeline after a fresh
// lookup replaces stale rows on merge.
type TimelinePointStore struct {
	conn *Conn
}

// NewTimelinePointStore creates a new TimelinePointStore.
func NewTimelinePointStore(conn *Conn) *TimelinePointStore {
	return &TimelinePointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TimelinePointStore = (*TimelinePointStore)(nil)

// InsertBulk upserts a batch of points.
func (s *TimelinePointStore) InsertBulk(ctx context.Context, points []*domain.WalletTimelinePoint) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if p == nil || p.Wallet == "" || p.Date == "" {
			return storage.ErrInvalidInput
		}
	}

	start := time.Now()
	err := s.insertBatch(ctx, points)
	observability.RecordDBQuery("clickhouse", "insert_timeline_points", time.Since(start).Seconds(), err)
	return err
}

func (s *TimelinePointStore) insertBatch(ctx context.Context, points []*domain.WalletTimelinePoint) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_timeline_points (
			wallet, date, staked, unstaked, realized_rewards
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.Wallet, p.Date, p.Staked, p.Unstaked, p.RealizedRewards,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByWallet retrieves all points for a wallet, ordered by date ASC.
// FINAL collapses superseded rows from earlier lookups.
func (s *TimelinePointStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.WalletTimelinePoint, error) {
	query := `
		SELECT wallet, date, staked, unstaked, realized_rewards
		FROM wallet_timeline_points FINAL
		WHERE wallet = ?
		ORDER BY date ASC
	`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, wallet)
	observability.RecordDBQuery("clickhouse", "get_timeline_points", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query timeline points: %w", err)
	}
	defer rows.Close()

	return scanTimelinePoints(rows)
}

// scanTimelinePoints scans rows into a slice of WalletTimelinePoint.
func scanTimelinePoints(rows driver.Rows) ([]*domain.WalletTimelinePoint, error) {
	var points []*domain.WalletTimelinePoint

	for rows.Next() {
		var p domain.WalletTimelinePoint

		err := rows.Scan(
			&p.Wallet,
			&p.Date,
			&p.Staked,
			&p.Unstaked,
			&p.RealizedRewards,
		)
		if err != nil {
			return nil, fmt.Errorf("scan timeline point row: %w", err)
		}

		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline point rows: %w", err)
	}

	return points, nil
}
