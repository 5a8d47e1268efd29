package entities

import (
	"time"
)

// FTHolding represents a fungible token position inside a watchlist.
// Unique per (unit, watchlist).
type FTHolding struct {
	ID          int64     `db:"id" json:"id"`
	Unit        string    `db:"unit" json:"unit"`
	Ticker      string    `db:"ticker" json:"ticker"`
	Fingerprint string    `db:"fingerprint" json:"fingerprint"`
	AdaValue    float64   `db:"ada_value" json:"ada_value"`
	Price       float64   `db:"price" json:"price"`
	Balance     float64   `db:"balance" json:"balance"`
	Change30D   float64   `db:"change_30d" json:"change_30d"`
	WatchlistID int64     `db:"watchlist_id" json:"watchlist_id"`
	Visible     bool      `db:"visible" json:"visible"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NFTHolding represents a collection position inside a watchlist.
// Unique per (policy_id, watchlist).
type NFTHolding struct {
	ID          int64     `db:"id" json:"id"`
	PolicyID    string    `db:"policy_id" json:"policy_id"`
	Name        string    `db:"name" json:"name"`
	AdaValue    float64   `db:"ada_value" json:"ada_value"`
	Price       float64   `db:"price" json:"price"`
	Balance     float64   `db:"balance" json:"balance"`
	Change30D   float64   `db:"change_30d" json:"change_30d"`
	WatchlistID int64     `db:"watchlist_id" json:"watchlist_id"`
	Visible     bool      `db:"visible" json:"visible"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// LPHolding represents a liquidity pool position inside a watchlist.
// Unique per (ticker, watchlist). It references its two constituent
// tokens by unit; either side may also exist as a standalone FTHolding.
type LPHolding struct {
	ID            int64     `db:"id" json:"id"`
	Ticker        string    `db:"ticker" json:"ticker"`
	TokenAUnit    string    `db:"token_a_unit" json:"token_a_unit"`
	TokenATicker  string    `db:"token_a_ticker" json:"token_a_ticker"`
	TokenAAmount  float64   `db:"token_a_amount" json:"token_a_amount"`
	TokenBUnit    string    `db:"token_b_unit" json:"token_b_unit"`
	TokenBTicker  string    `db:"token_b_ticker" json:"token_b_ticker"`
	TokenBAmount  float64   `db:"token_b_amount" json:"token_b_amount"`
	AdaValue      float64   `db:"ada_value" json:"ada_value"`
	LPAmount      float64   `db:"lp_amount" json:"lp_amount"`
	TokenAVisible bool      `db:"token_a_visible" json:"token_a_visible"`
	TokenBVisible bool      `db:"token_b_visible" json:"token_b_visible"`
	WatchlistID   int64     `db:"watchlist_id" json:"watchlist_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// References reports whether the pool holds the given token unit on
// either side.
func (lp *LPHolding) References(unit string) bool {
	return lp.TokenAUnit == unit || lp.TokenBUnit == unit
}

// SideAmount returns the pooled amount for the given unit, or 0 when
// the pool does not reference it.
func (lp *LPHolding) SideAmount(unit string) float64 {
	switch unit {
	case lp.TokenAUnit:
		return lp.TokenAAmount
	case lp.TokenBUnit:
		return lp.TokenBAmount
	}
	return 0
}

// SideTicker returns the display ticker for the given unit, or ""
// when the pool does not reference it.
func (lp *LPHolding) SideTicker(unit string) string {
	switch unit {
	case lp.TokenAUnit:
		return lp.TokenATicker
	case lp.TokenBUnit:
		return lp.TokenBTicker
	}
	return ""
}
