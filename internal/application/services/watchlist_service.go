package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
	"github.com/foliowatch/foliowatch/internal/infrastructure/cache"
)

// WatchlistService provides business logic for watchlists and their
// unified holding views.
type WatchlistService struct {
	watchlistRepo repositories.WatchlistRepository
	cache         *cache.RedisCache
	logger        *zap.Logger
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(
	watchlistRepo repositories.WatchlistRepository,
	cache *cache.RedisCache,
	logger *zap.Logger,
) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		cache:         cache,
		logger:        logger,
	}
}

// WatchlistViewDTO is the API representation of a watchlist with its
// filtered, optionally LP-merged holdings.
type WatchlistViewDTO struct {
	Watchlist     entities.Watchlist    `json:"watchlist"`
	Holdings      []entities.FTHolding  `json:"holdings"`
	NFTs          []entities.NFTHolding `json:"nfts"`
	LPs           []entities.LPHolding  `json:"lps,omitempty"`
	TotalAdaValue float64               `json:"total_ada_value"`
	UpdatedAt     string                `json:"updated_at"`
}

// WatchlistViewResponse wraps a watchlist view for API response.
type WatchlistViewResponse struct {
	Data WatchlistViewDTO `json:"data"`
}

// WatchlistListResponse wraps all watchlists for API response.
type WatchlistListResponse struct {
	Data []entities.Watchlist `json:"data"`
}

// GetView builds the unified holding view of a watchlist. When the
// watchlist merges LP positions, pool value is folded into the FT list
// and the raw LP list is omitted. Returns nil when the watchlist does
// not exist.
func (s *WatchlistService) GetView(ctx context.Context, id int64) (*WatchlistViewResponse, error) {
	var cacheKey string
	if s.cache != nil {
		cacheKey = cache.HoldingsKey(id)
		var cached WatchlistViewResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	joined, err := s.watchlistRepo.GetWithHoldings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist holdings: %w", err)
	}
	if joined == nil {
		return nil, nil
	}

	now := time.Now().UTC()
	w := joined.Watchlist

	holdings := joined.FTs
	var lps []entities.LPHolding
	if w.MergeLPIntoFT {
		holdings = UnifyHoldings(w.ID, joined.LPs, joined.FTs, now)
	} else {
		lps = joined.LPs
	}

	visible := make([]entities.FTHolding, 0, len(holdings))
	var total float64
	for _, h := range holdings {
		if !h.Visible || h.Balance < w.MinFTAmount {
			continue
		}
		visible = append(visible, h)
		total += h.AdaValue
	}

	nfts := make([]entities.NFTHolding, 0)
	if w.IncludeNFTs {
		for _, h := range joined.NFTs {
			if !h.Visible || h.Balance < w.MinNFTAmount {
				continue
			}
			nfts = append(nfts, h)
			total += h.AdaValue
		}
	}

	if !w.MergeLPIntoFT {
		for _, lp := range joined.LPs {
			total += lp.AdaValue
		}
	}

	response := &WatchlistViewResponse{
		Data: WatchlistViewDTO{
			Watchlist:     w,
			Holdings:      visible,
			NFTs:          nfts,
			LPs:           lps,
			TotalAdaValue: total,
			UpdatedAt:     now.Format(time.RFC3339),
		},
	}

	if s.cache != nil {
		// Uses the cache's configured default TTL.
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			s.logger.Warn("Failed to cache response", zap.Error(err))
		}
	}

	return response, nil
}

// List returns all watchlists.
func (s *WatchlistService) List(ctx context.Context) (*WatchlistListResponse, error) {
	watchlists, err := s.watchlistRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlists: %w", err)
	}
	return &WatchlistListResponse{Data: watchlists}, nil
}

// Create inserts a new watchlist.
func (s *WatchlistService) Create(ctx context.Context, w *entities.Watchlist) error {
	if err := s.watchlistRepo.Create(ctx, w); err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}
	s.logger.Info("Watchlist created",
		zap.Int64("id", w.ID),
		zap.String("name", w.Name),
	)
	return nil
}

// Update persists watchlist configuration and drops the cached view.
func (s *WatchlistService) Update(ctx context.Context, w *entities.Watchlist) error {
	if err := s.watchlistRepo.Update(ctx, w); err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}
	s.invalidate(ctx, w.ID)
	return nil
}

// Delete removes a watchlist, its holdings and the cached view.
func (s *WatchlistService) Delete(ctx context.Context, id int64) error {
	if err := s.watchlistRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete watchlist: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *WatchlistService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.HoldingsKey(id)); err != nil {
		s.logger.Warn("Failed to invalidate holdings cache",
			zap.Int64("watchlist_id", id),
			zap.Error(err),
		)
	}
}
