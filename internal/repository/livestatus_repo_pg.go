package repository

import (
	"context"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LiveStatusRepository interface {
	ReplaceAll(ctx context.Context, statuses []domain.LiveStatus) error
	Snapshot(ctx context.Context) ([]domain.LiveStatus, error)
}

type PGLiveStatusRepository struct {
	db *pgxpool.Pool
}

func NewLiveStatusRepository(db *pgxpool.Pool) LiveStatusRepository {
	return &PGLiveStatusRepository{db: db}
}

// ReplaceAll swaps the whole table for the new feed snapshot in one
// transaction, so readers never see a half-refreshed feed.
func (r *PGLiveStatusRepository) ReplaceAll(ctx context.Context, statuses []domain.LiveStatus) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM live_flights`); err != nil {
		return err
	}
	for _, s := range statuses {
		if _, err := tx.Exec(ctx, `INSERT INTO live_flights (feed_key, callsign, status, last_updated)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (feed_key) DO UPDATE SET callsign=$2, status=$3, last_updated=$4`,
			s.FeedKey, s.Callsign, s.Status, s.LastUpdated); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGLiveStatusRepository) Snapshot(ctx context.Context) ([]domain.LiveStatus, error) {
	rows, err := r.db.Query(ctx, `SELECT feed_key, callsign, status, last_updated FROM live_flights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]domain.LiveStatus, 0)
	for rows.Next() {
		var s domain.LiveStatus
		if err := rows.Scan(&s.FeedKey, &s.Callsign, &s.Status, &s.LastUpdated); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

var _ LiveStatusRepository = (*PGLiveStatusRepository)(nil)
