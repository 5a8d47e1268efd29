package repositories

import (
	"context"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// FeedRepository defines ordered CRUD for the display feed queue.
// Rotation mutates order concurrently with other triggers, so the
// move-to-back step must run inside a single transaction.
type FeedRepository interface {
	// GetAllOrdered retrieves the full queue, order_index ascending
	GetAllOrdered(ctx context.Context) ([]entities.FeedItem, error)

	// InsertAtFront inserts an item before the current head
	InsertAtFront(ctx context.Context, item *entities.FeedItem) error

	// InsertAtEnd inserts an item after the current tail
	InsertAtEnd(ctx context.Context, item *entities.FeedItem) error

	// RotateToBack transactionally moves an item behind the current
	// tail, preserving the relative order of everything else
	RotateToBack(ctx context.Context, id int64) error

	// UpdatePrice refreshes the displayed price payload of all items
	// for a subject
	UpdatePrice(ctx context.Context, subject string, price float64) error

	// Delete removes an item (one-shot consumption or user removal)
	Delete(ctx context.Context, id int64) error
}
