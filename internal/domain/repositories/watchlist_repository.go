package repositories

import (
	"context"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// WatchlistRepository defines watchlist CRUD including the aggregate
// read that joins a watchlist to all three holding kinds.
type WatchlistRepository interface {
	// GetByID retrieves a watchlist, nil when absent
	GetByID(ctx context.Context, id int64) (*entities.Watchlist, error)

	// GetAll retrieves all watchlists ordered by creation time
	GetAll(ctx context.Context) ([]entities.Watchlist, error)

	// GetWithHoldings joins a watchlist to its FT, NFT and LP holdings
	GetWithHoldings(ctx context.Context, id int64) (*entities.WatchlistHoldings, error)

	// Create inserts a watchlist and sets its ID
	Create(ctx context.Context, w *entities.Watchlist) error

	// Update persists mutable watchlist configuration
	Update(ctx context.Context, w *entities.Watchlist) error

	// Delete removes a watchlist and cascades to its holdings
	Delete(ctx context.Context, id int64) error
}
