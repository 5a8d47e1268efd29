package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
)

// Ensure SnapshotRepo implements SnapshotRepository
var _ repositories.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implements SnapshotRepository using PostgreSQL
type SnapshotRepo struct {
	db *sqlx.DB
}

// NewSnapshotRepo creates a new snapshot repository
func NewSnapshotRepo(db *sqlx.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Append inserts a snapshot. Rows are never updated afterwards.
func (r *SnapshotRepo) Append(ctx context.Context, s *entities.StatSnapshot) error {
	query := `
		INSERT INTO stat_snapshots (subject, price, volume, listings, owners, supply, top_offer)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		s.Subject,
		s.Price,
		s.Volume,
		s.Listings,
		s.Owners,
		s.Supply,
		s.TopOffer,
	)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}

	return nil
}

// GetLatest returns up to limit snapshots for a subject, newest first
func (r *SnapshotRepo) GetLatest(ctx context.Context, subject string, limit int) ([]entities.StatSnapshot, error) {
	var snapshots []entities.StatSnapshot
	query := `SELECT * FROM stat_snapshots WHERE subject = $1 ORDER BY created_at DESC LIMIT $2`

	if err := r.db.SelectContext(ctx, &snapshots, query, subject, limit); err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}

	return snapshots, nil
}
