package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
)

// Ensure FeedRepo implements FeedRepository
var _ repositories.FeedRepository = (*FeedRepo)(nil)

// FeedRepo implements FeedRepository using PostgreSQL. Order indexes
// are monotonic without contiguity; front inserts take min-1, back
// inserts and rotation take max+1.
type FeedRepo struct {
	db *sqlx.DB
}

// NewFeedRepo creates a new feed repository
func NewFeedRepo(db *sqlx.DB) *FeedRepo {
	return &FeedRepo{db: db}
}

// GetAllOrdered retrieves the full queue, order_index ascending
func (r *FeedRepo) GetAllOrdered(ctx context.Context) ([]entities.FeedItem, error) {
	var items []entities.FeedItem
	query := `SELECT * FROM feed_items ORDER BY order_index ASC`

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to get feed items: %w", err)
	}

	return items, nil
}

// InsertAtFront inserts an item before the current head
func (r *FeedRepo) InsertAtFront(ctx context.Context, item *entities.FeedItem) error {
	return r.insert(ctx, item, `COALESCE(MIN(order_index), 0) - 1`)
}

// InsertAtEnd inserts an item after the current tail
func (r *FeedRepo) InsertAtEnd(ctx context.Context, item *entities.FeedItem) error {
	return r.insert(ctx, item, `COALESCE(MAX(order_index), 0) + 1`)
}

func (r *FeedRepo) insert(ctx context.Context, item *entities.FeedItem, indexExpr string) error {
	query := fmt.Sprintf(`
		INSERT INTO feed_items (subject, kind, text, price, color, one_shot, order_index)
		SELECT $1, $2, $3, $4, $5, $6, %s FROM feed_items
		RETURNING id, order_index, created_at
	`, indexExpr)

	row := r.db.QueryRowxContext(ctx, query,
		item.Subject,
		item.Kind,
		item.Text,
		item.Price,
		item.Color,
		item.OneShot,
	)
	if err := row.Scan(&item.ID, &item.OrderIndex, &item.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert feed item: %w", err)
	}

	return nil
}

// RotateToBack transactionally moves an item behind the current tail.
// The read-modify-write runs in one transaction so concurrent triggers
// cannot interleave and lose an order update.
func (r *FeedRepo) RotateToBack(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback()

	var maxIndex int64
	err = tx.GetContext(ctx, &maxIndex,
		`SELECT order_index FROM feed_items ORDER BY order_index DESC LIMIT 1 FOR UPDATE`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			maxIndex = 0
		} else {
			return fmt.Errorf("failed to read queue tail: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE feed_items SET order_index = $2, updated_at = NOW() WHERE id = $1`,
		id, maxIndex+1); err != nil {
		return fmt.Errorf("failed to rotate feed item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

// UpdatePrice refreshes the displayed price payload for a subject
func (r *FeedRepo) UpdatePrice(ctx context.Context, subject string, price float64) error {
	query := `UPDATE feed_items SET price = $2, updated_at = NOW() WHERE subject = $1`

	if _, err := r.db.ExecContext(ctx, query, subject, price); err != nil {
		return fmt.Errorf("failed to update feed price: %w", err)
	}

	return nil
}

// Delete removes an item
func (r *FeedRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feed_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete feed item: %w", err)
	}
	return nil
}
