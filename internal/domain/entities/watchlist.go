package entities

import (
	"time"
)

// Watchlist is a user-defined grouping of holdings with its own
// display filters. A watchlist owns zero or more holdings of each kind
// through the watchlist_id relationship.
type Watchlist struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	MergeLPIntoFT bool      `db:"merge_lp_into_ft" json:"merge_lp_into_ft"`
	IncludeNFTs   bool      `db:"include_nfts" json:"include_nfts"`
	MinFTAmount   float64   `db:"min_ft_amount" json:"min_ft_amount"`
	MinNFTAmount  float64   `db:"min_nft_amount" json:"min_nft_amount"`
	WalletAddress string    `db:"wallet_address" json:"wallet_address"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// WatchlistHoldings joins a watchlist to all three holding kinds.
type WatchlistHoldings struct {
	Watchlist Watchlist    `json:"watchlist"`
	FTs       []FTHolding  `json:"fts"`
	NFTs      []NFTHolding `json:"nfts"`
	LPs       []LPHolding  `json:"lps"`
}
