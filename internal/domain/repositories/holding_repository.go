package repositories

import (
	"context"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// HoldingRepository defines upsert-by-key access to the three holding
// kinds. Holdings are created/updated by the periodic refresh job and
// removed only when their watchlist is deleted.
type HoldingRepository interface {
	// GetFTs retrieves all FT holdings of a watchlist
	GetFTs(ctx context.Context, watchlistID int64) ([]entities.FTHolding, error)

	// GetNFTs retrieves all NFT holdings of a watchlist
	GetNFTs(ctx context.Context, watchlistID int64) ([]entities.NFTHolding, error)

	// GetLPs retrieves all LP holdings of a watchlist
	GetLPs(ctx context.Context, watchlistID int64) ([]entities.LPHolding, error)

	// UpsertFT creates or updates an FT holding keyed by (unit, watchlist)
	UpsertFT(ctx context.Context, h *entities.FTHolding) error

	// UpsertNFT creates or updates an NFT holding keyed by (policy, watchlist)
	UpsertNFT(ctx context.Context, h *entities.NFTHolding) error

	// UpsertLP creates or updates an LP holding keyed by (ticker, watchlist)
	UpsertLP(ctx context.Context, h *entities.LPHolding) error
}
