package repositories

import (
	"context"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// SnapshotRepository provides append-only access to stat snapshots.
// Retention is not this layer's concern.
type SnapshotRepository interface {
	// Append inserts a snapshot; snapshots are never mutated
	Append(ctx context.Context, s *entities.StatSnapshot) error

	// GetLatest returns up to limit snapshots for a subject,
	// newest first
	GetLatest(ctx context.Context, subject string, limit int) ([]entities.StatSnapshot, error)
}
