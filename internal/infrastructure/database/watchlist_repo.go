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

// Ensure WatchlistRepo implements WatchlistRepository
var _ repositories.WatchlistRepository = (*WatchlistRepo)(nil)

// WatchlistRepo implements WatchlistRepository using PostgreSQL
type WatchlistRepo struct {
	db *sqlx.DB
}

// NewWatchlistRepo creates a new watchlist repository
func NewWatchlistRepo(db *sqlx.DB) *WatchlistRepo {
	return &WatchlistRepo{db: db}
}

// GetByID retrieves a watchlist by id
func (r *WatchlistRepo) GetByID(ctx context.Context, id int64) (*entities.Watchlist, error) {
	var w entities.Watchlist
	query := `SELECT * FROM watchlists WHERE id = $1`

	if err := r.db.GetContext(ctx, &w, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}

	return &w, nil
}

// GetAll retrieves all watchlists ordered by creation time
func (r *WatchlistRepo) GetAll(ctx context.Context) ([]entities.Watchlist, error) {
	var lists []entities.Watchlist
	query := `SELECT * FROM watchlists ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &lists, query); err != nil {
		return nil, fmt.Errorf("failed to get watchlists: %w", err)
	}

	return lists, nil
}

// GetWithHoldings joins a watchlist to its FT, NFT and LP holdings
func (r *WatchlistRepo) GetWithHoldings(ctx context.Context, id int64) (*entities.WatchlistHoldings, error) {
	w, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	result := &entities.WatchlistHoldings{Watchlist: *w}

	if err := r.db.SelectContext(ctx, &result.FTs,
		`SELECT * FROM ft_holdings WHERE watchlist_id = $1 ORDER BY ada_value DESC`, id); err != nil {
		return nil, fmt.Errorf("failed to get ft holdings: %w", err)
	}
	if err := r.db.SelectContext(ctx, &result.NFTs,
		`SELECT * FROM nft_holdings WHERE watchlist_id = $1 ORDER BY ada_value DESC`, id); err != nil {
		return nil, fmt.Errorf("failed to get nft holdings: %w", err)
	}
	if err := r.db.SelectContext(ctx, &result.LPs,
		`SELECT * FROM lp_holdings WHERE watchlist_id = $1 ORDER BY ada_value DESC`, id); err != nil {
		return nil, fmt.Errorf("failed to get lp holdings: %w", err)
	}

	return result, nil
}

// Create inserts a watchlist and sets its ID
func (r *WatchlistRepo) Create(ctx context.Context, w *entities.Watchlist) error {
	query := `
		INSERT INTO watchlists (name, merge_lp_into_ft, include_nfts, min_ft_amount, min_nft_amount, wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		w.Name,
		w.MergeLPIntoFT,
		w.IncludeNFTs,
		w.MinFTAmount,
		w.MinNFTAmount,
		w.WalletAddress,
	)
	if err := row.Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}

	return nil
}

// Update persists mutable watchlist configuration
func (r *WatchlistRepo) Update(ctx context.Context, w *entities.Watchlist) error {
	query := `
		UPDATE watchlists SET
			name = $2,
			merge_lp_into_ft = $3,
			include_nfts = $4,
			min_ft_amount = $5,
			min_nft_amount = $6,
			wallet_address = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Name,
		w.MergeLPIntoFT,
		w.IncludeNFTs,
		w.MinFTAmount,
		w.MinNFTAmount,
		w.WalletAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}

	return nil
}

// Delete removes a watchlist; holdings cascade via foreign keys
func (r *WatchlistRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM watchlists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete watchlist: %w", err)
	}
	return nil
}
