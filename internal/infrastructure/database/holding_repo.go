package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
)

// Ensure HoldingRepo implements HoldingRepository
var _ repositories.HoldingRepository = (*HoldingRepo)(nil)

// HoldingRepo implements HoldingRepository using PostgreSQL
type HoldingRepo struct {
	db *sqlx.DB
}

// NewHoldingRepo creates a new holding repository
func NewHoldingRepo(db *sqlx.DB) *HoldingRepo {
	return &HoldingRepo{db: db}
}

// GetFTs retrieves all FT holdings of a watchlist
func (r *HoldingRepo) GetFTs(ctx context.Context, watchlistID int64) ([]entities.FTHolding, error) {
	var holdings []entities.FTHolding
	query := `SELECT * FROM ft_holdings WHERE watchlist_id = $1 ORDER BY ada_value DESC`

	if err := r.db.SelectContext(ctx, &holdings, query, watchlistID); err != nil {
		return nil, fmt.Errorf("failed to get ft holdings: %w", err)
	}

	return holdings, nil
}

// GetNFTs retrieves all NFT holdings of a watchlist
func (r *HoldingRepo) GetNFTs(ctx context.Context, watchlistID int64) ([]entities.NFTHolding, error) {
	var holdings []entities.NFTHolding
	query := `SELECT * FROM nft_holdings WHERE watchlist_id = $1 ORDER BY ada_value DESC`

	if err := r.db.SelectContext(ctx, &holdings, query, watchlistID); err != nil {
		return nil, fmt.Errorf("failed to get nft holdings: %w", err)
	}

	return holdings, nil
}

// GetLPs retrieves all LP holdings of a watchlist
func (r *HoldingRepo) GetLPs(ctx context.Context, watchlistID int64) ([]entities.LPHolding, error) {
	var holdings []entities.LPHolding
	query := `SELECT * FROM lp_holdings WHERE watchlist_id = $1 ORDER BY ada_value DESC`

	if err := r.db.SelectContext(ctx, &holdings, query, watchlistID); err != nil {
		return nil, fmt.Errorf("failed to get lp holdings: %w", err)
	}

	return holdings, nil
}

// UpsertFT creates or updates an FT holding keyed by (unit, watchlist)
func (r *HoldingRepo) UpsertFT(ctx context.Context, h *entities.FTHolding) error {
	query := `
		INSERT INTO ft_holdings (unit, ticker, fingerprint, ada_value, price, balance, change_30d, watchlist_id, visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (unit, watchlist_id) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			fingerprint = EXCLUDED.fingerprint,
			ada_value = EXCLUDED.ada_value,
			price = EXCLUDED.price,
			balance = EXCLUDED.balance,
			change_30d = EXCLUDED.change_30d,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		h.Unit,
		h.Ticker,
		h.Fingerprint,
		h.AdaValue,
		h.Price,
		h.Balance,
		h.Change30D,
		h.WatchlistID,
		h.Visible,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ft holding: %w", err)
	}

	return nil
}

// UpsertNFT creates or updates an NFT holding keyed by (policy, watchlist)
func (r *HoldingRepo) UpsertNFT(ctx context.Context, h *entities.NFTHolding) error {
	query := `
		INSERT INTO nft_holdings (policy_id, name, ada_value, price, balance, change_30d, watchlist_id, visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (policy_id, watchlist_id) DO UPDATE SET
			name = EXCLUDED.name,
			ada_value = EXCLUDED.ada_value,
			price = EXCLUDED.price,
			balance = EXCLUDED.balance,
			change_30d = EXCLUDED.change_30d,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		h.PolicyID,
		h.Name,
		h.AdaValue,
		h.Price,
		h.Balance,
		h.Change30D,
		h.WatchlistID,
		h.Visible,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert nft holding: %w", err)
	}

	return nil
}

// UpsertLP creates or updates an LP holding keyed by (ticker, watchlist)
func (r *HoldingRepo) UpsertLP(ctx context.Context, h *entities.LPHolding) error {
	query := `
		INSERT INTO lp_holdings (ticker, token_a_unit, token_a_ticker, token_a_amount,
			token_b_unit, token_b_ticker, token_b_amount, ada_value, lp_amount,
			token_a_visible, token_b_visible, watchlist_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ticker, watchlist_id) DO UPDATE SET
			token_a_unit = EXCLUDED.token_a_unit,
			token_a_ticker = EXCLUDED.token_a_ticker,
			token_a_amount = EXCLUDED.token_a_amount,
			token_b_unit = EXCLUDED.token_b_unit,
			token_b_ticker = EXCLUDED.token_b_ticker,
			token_b_amount = EXCLUDED.token_b_amount,
			ada_value = EXCLUDED.ada_value,
			lp_amount = EXCLUDED.lp_amount,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		h.Ticker,
		h.TokenAUnit,
		h.TokenATicker,
		h.TokenAAmount,
		h.TokenBUnit,
		h.TokenBTicker,
		h.TokenBAmount,
		h.AdaValue,
		h.LPAmount,
		h.TokenAVisible,
		h.TokenBVisible,
		h.WatchlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lp holding: %w", err)
	}

	return nil
}
