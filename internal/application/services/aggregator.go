package services

import (
	"sort"
	"time"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// lpSideWeight is the share of a pool's ada value and token amount
// attributed to each side. A flat even split is used regardless of the
// actual pool composition.
const lpSideWeight = 0.5

// SplitLPValue sums the pro-rata contribution of every pool holding
// that references the given unit. Each pool contributes half of its
// pooled ada value and half of the matching side's token amount.
func SplitLPValue(lps []entities.LPHolding, unit string) (adaValue, balance float64) {
	for i := range lps {
		lp := &lps[i]
		if !lp.References(unit) {
			continue
		}
		adaValue += lp.AdaValue * lpSideWeight
		balance += lp.SideAmount(unit) * lpSideWeight
	}
	return adaValue, balance
}

// UnifyHoldings folds liquidity pool positions into the fungible token
// view of a watchlist. Existing holdings get the pooled contribution
// added to their ada value and balance; units held only through pools
// get placeholder holdings synthesized for them, one per unit. The
// result is sorted by descending ada value with stable insertion order
// on ties. Inputs are never mutated.
func UnifyHoldings(watchlistID int64, lps []entities.LPHolding, fts []entities.FTHolding, now time.Time) []entities.FTHolding {
	held := make(map[string]struct{}, len(fts))
	for i := range fts {
		held[fts[i].Unit] = struct{}{}
	}

	unified := make([]entities.FTHolding, 0, len(fts))
	for i := range fts {
		ft := fts[i]
		adaShare, balShare := SplitLPValue(lps, ft.Unit)
		if adaShare != 0 || balShare != 0 {
			ft.AdaValue += adaShare
			ft.Balance += balShare
			ft.UpdatedAt = now
		}
		unified = append(unified, ft)
	}

	// Placeholders for units held only through pools, merged per unit
	// reducing left to right.
	synthesized := make(map[string]int)
	for i := range lps {
		lp := &lps[i]
		sides := []struct {
			unit    string
			ticker  string
			amount  float64
			visible bool
		}{
			{lp.TokenAUnit, lp.TokenATicker, lp.TokenAAmount, lp.TokenAVisible},
			{lp.TokenBUnit, lp.TokenBTicker, lp.TokenBAmount, lp.TokenBVisible},
		}
		for _, side := range sides {
			if side.unit == "" {
				continue
			}
			if _, ok := held[side.unit]; ok {
				continue
			}

			adaShare := lp.AdaValue * lpSideWeight
			balShare := side.amount * lpSideWeight

			if idx, ok := synthesized[side.unit]; ok {
				unified[idx].AdaValue += adaShare
				unified[idx].Balance += balShare
				unified[idx].UpdatedAt = now
				continue
			}

			var price float64
			if balShare > 0 {
				price = adaShare / balShare
			}

			unified = append(unified, entities.FTHolding{
				Unit:        side.unit,
				Ticker:      side.ticker,
				AdaValue:    adaShare,
				Price:       price,
				Balance:     balShare,
				WatchlistID: watchlistID,
				Visible:     side.visible,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			synthesized[side.unit] = len(unified) - 1
		}
	}

	sort.SliceStable(unified, func(i, j int) bool {
		return unified[i].AdaValue > unified[j].AdaValue
	})

	return unified
}
