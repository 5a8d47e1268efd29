package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/domain/repositories"
	"github.com/foliowatch/foliowatch/internal/infrastructure/cache"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
)

// PortfolioGateway is the market data surface the refresh job pulls
// from.
type PortfolioGateway interface {
	Positions(ctx context.Context, address string) (*gateway.WalletPositions, error)
	CollectionStats(ctx context.Context, policy string) (*gateway.CollectionStats, error)
	TokenPrices(ctx context.Context, units []string) (map[string]float64, error)
}

// HandleResolver resolves a human-readable handle to a wallet address.
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// RefreshService is the periodic price refresh job. Each run pulls
// wallet positions for every watchlist, upserts holdings, appends one
// stat snapshot per tracked subject and pushes fresh prices into the
// feed queue.
type RefreshService struct {
	watchlistRepo repositories.WatchlistRepository
	holdingRepo   repositories.HoldingRepository
	snapshotRepo  repositories.SnapshotRepository
	feedRepo      repositories.FeedRepository
	portfolio     PortfolioGateway
	resolver      HandleResolver
	cache         *cache.RedisCache
	interval      time.Duration
	workers       int
	logger        *zap.Logger
	stopCh        chan struct{}
	wg            sync.WaitGroup
}

// NewRefreshService creates a new refresh service.
func NewRefreshService(
	watchlistRepo repositories.WatchlistRepository,
	holdingRepo repositories.HoldingRepository,
	snapshotRepo repositories.SnapshotRepository,
	feedRepo repositories.FeedRepository,
	portfolio PortfolioGateway,
	resolver HandleResolver,
	cache *cache.RedisCache,
	interval time.Duration,
	workers int,
	logger *zap.Logger,
) *RefreshService {
	if workers <= 0 {
		workers = 1
	}
	return &RefreshService{
		watchlistRepo: watchlistRepo,
		holdingRepo:   holdingRepo,
		snapshotRepo:  snapshotRepo,
		feedRepo:      feedRepo,
		portfolio:     portfolio,
		resolver:      resolver,
		cache:         cache,
		interval:      interval,
		workers:       workers,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
}

// Start launches the periodic refresh loop.
func (s *RefreshService) Start(ctx context.Context) {
	s.logger.Info("Starting refresh service",
		zap.Duration("interval", s.interval),
		zap.Int("workers", s.workers),
	)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop gracefully stops the refresh loop.
func (s *RefreshService) Stop() {
	s.logger.Info("Stopping refresh service")
	close(s.stopCh)
	s.wg.Wait()
}

func (s *RefreshService) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.RefreshAll(ctx); err != nil {
				s.logger.Error("Refresh run failed", zap.Error(err))
			}
		}
	}
}

// RefreshAll runs one refresh pass: wallet positions for every
// watchlist concurrently, then one price snapshot per tracked subject.
// One watchlist or subject failing is logged and skipped so the rest
// of the run proceeds; a missing provider credential aborts the run
// immediately.
func (s *RefreshService) RefreshAll(ctx context.Context) error {
	started := time.Now()

	watchlists, err := s.watchlistRepo.GetAll(ctx)
	if err != nil {
		refreshRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load watchlists: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range watchlists {
		w := watchlists[i]
		if w.WalletAddress == "" {
			continue
		}
		g.Go(func() error {
			err := s.refreshWatchlist(gctx, &w)
			if err == nil {
				return nil
			}
			// A missing credential is non-transient and fails the
			// whole run; any other failure stays with its watchlist.
			if gateway.IsKind(err, gateway.KindNoCredential) {
				return err
			}
			refreshUnitFailuresTotal.Inc()
			s.logger.Error("Failed to refresh watchlist",
				zap.Int64("watchlist_id", w.ID),
				zap.Error(err),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		refreshRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := s.refreshSnapshots(ctx, watchlists); err != nil {
		refreshRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	refreshRunsTotal.WithLabelValues("success").Inc()
	refreshDuration.Observe(time.Since(started).Seconds())

	s.logger.Info("Refresh run complete",
		zap.Int("watchlists", len(watchlists)),
		zap.Duration("duration", time.Since(started)),
	)
	return nil
}

// refreshWatchlist pulls the wallet's positions and upserts all three
// holding kinds.
func (s *RefreshService) refreshWatchlist(ctx context.Context, w *entities.Watchlist) error {
	address := w.WalletAddress
	if strings.HasPrefix(address, "$") {
		resolved, err := s.resolver.ResolveHandle(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to resolve handle %q: %w", address, err)
		}
		address = resolved
	}

	positions, err := s.portfolio.Positions(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to fetch positions for watchlist %d: %w", w.ID, err)
	}

	now := time.Now().UTC()

	for _, p := range positions.FTs {
		h := entities.FTHolding{
			Unit:        p.Unit,
			Ticker:      p.Ticker,
			Fingerprint: p.Fingerprint,
			AdaValue:    p.AdaValue,
			Price:       p.Price,
			Balance:     p.Balance,
			Change30D:   p.Change30D,
			WatchlistID: w.ID,
			Visible:     true,
			UpdatedAt:   now,
		}
		if err := s.holdingRepo.UpsertFT(ctx, &h); err != nil {
			return fmt.Errorf("failed to upsert FT holding %s: %w", p.Unit, err)
		}
	}

	for _, p := range positions.LPs {
		h := entities.LPHolding{
			Ticker:        p.Ticker,
			TokenAUnit:    p.TokenA,
			TokenATicker:  p.TokenAName,
			TokenAAmount:  p.TokenAAmount,
			TokenBUnit:    p.TokenB,
			TokenBTicker:  p.TokenBName,
			TokenBAmount:  p.TokenBAmount,
			AdaValue:      p.AdaValue,
			LPAmount:      p.Amount,
			TokenAVisible: true,
			TokenBVisible: true,
			WatchlistID:   w.ID,
			UpdatedAt:     now,
		}
		if err := s.holdingRepo.UpsertLP(ctx, &h); err != nil {
			return fmt.Errorf("failed to upsert LP holding %s: %w", p.Ticker, err)
		}
	}

	for _, p := range positions.NFTs {
		h := entities.NFTHolding{
			PolicyID:    p.Policy,
			Name:        p.Name,
			AdaValue:    p.AdaValue,
			Price:       p.Floor,
			Balance:     p.Balance,
			Change30D:   p.Change30D,
			WatchlistID: w.ID,
			Visible:     true,
			UpdatedAt:   now,
		}
		if err := s.holdingRepo.UpsertNFT(ctx, &h); err != nil {
			return fmt.Errorf("failed to upsert NFT holding %s: %w", p.Policy, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.HoldingsKey(w.ID)); err != nil {
			s.logger.Warn("Failed to invalidate holdings cache",
				zap.Int64("watchlist_id", w.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// refreshSnapshots appends one stat snapshot per tracked token unit
// and collection policy, and refreshes feed prices for them.
func (s *RefreshService) refreshSnapshots(ctx context.Context, watchlists []entities.Watchlist) error {
	units, policies, err := s.trackedSubjects(ctx, watchlists)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if len(units) > 0 {
		prices, err := s.portfolio.TokenPrices(ctx, units)
		if err != nil {
			if gateway.IsKind(err, gateway.KindNoCredential) {
				return err
			}
			// Losing one price batch must not block collection stats.
			s.logger.Warn("Failed to fetch token prices", zap.Error(err))
			prices = nil
		}

		for _, unit := range units {
			price, ok := prices[unit]
			if !ok {
				continue
			}
			snap := entities.StatSnapshot{
				Subject:   unit,
				Price:     price,
				CreatedAt: now,
			}
			if err := s.snapshotRepo.Append(ctx, &snap); err != nil {
				refreshUnitFailuresTotal.Inc()
				s.logger.Error("Failed to append snapshot",
					zap.String("subject", unit),
					zap.Error(err),
				)
				continue
			}
			snapshotsWrittenTotal.Inc()
			if err := s.feedRepo.UpdatePrice(ctx, unit, price); err != nil {
				refreshUnitFailuresTotal.Inc()
				s.logger.Error("Failed to refresh feed price",
					zap.String("subject", unit),
					zap.Error(err),
				)
			}
		}
	}

	for _, policy := range policies {
		stats, err := s.portfolio.CollectionStats(ctx, policy)
		if err != nil {
			if gateway.IsKind(err, gateway.KindNoCredential) {
				return err
			}
			// One collection failing must not starve the others.
			s.logger.Warn("Failed to fetch collection stats",
				zap.String("policy", policy),
				zap.Error(err),
			)
			continue
		}

		snap := entities.StatSnapshot{
			Subject:   policy,
			Price:     stats.Price,
			Volume:    stats.Volume,
			Listings:  stats.Listings,
			Owners:    stats.Owners,
			Supply:    stats.Supply,
			TopOffer:  stats.TopOffer,
			CreatedAt: now,
		}
		if err := s.snapshotRepo.Append(ctx, &snap); err != nil {
			refreshUnitFailuresTotal.Inc()
			s.logger.Error("Failed to append snapshot",
				zap.String("subject", policy),
				zap.Error(err),
			)
			continue
		}
		snapshotsWrittenTotal.Inc()
		if err := s.feedRepo.UpdatePrice(ctx, policy, stats.Price); err != nil {
			refreshUnitFailuresTotal.Inc()
			s.logger.Error("Failed to refresh feed price",
				zap.String("subject", policy),
				zap.Error(err),
			)
		}
	}

	return nil
}

// trackedSubjects collects the distinct token units and collection
// policies across all watchlists, preserving first-seen order.
func (s *RefreshService) trackedSubjects(ctx context.Context, watchlists []entities.Watchlist) (units, policies []string, err error) {
	seenUnits := make(map[string]struct{})
	seenPolicies := make(map[string]struct{})

	for i := range watchlists {
		id := watchlists[i].ID

		fts, err := s.holdingRepo.GetFTs(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load FT holdings for watchlist %d: %w", id, err)
		}
		for _, h := range fts {
			if _, ok := seenUnits[h.Unit]; ok {
				continue
			}
			seenUnits[h.Unit] = struct{}{}
			units = append(units, h.Unit)
		}

		nfts, err := s.holdingRepo.GetNFTs(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load NFT holdings for watchlist %d: %w", id, err)
		}
		for _, h := range nfts {
			if _, ok := seenPolicies[h.PolicyID]; ok {
				continue
			}
			seenPolicies[h.PolicyID] = struct{}{}
			policies = append(policies, h.PolicyID)
		}
	}

	return units, policies, nil
}
