package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/testutil"
)

func setupWatchlistServiceTest() (*WatchlistService, *testutil.MockWatchlistRepository) {
	watchlistRepo := testutil.NewMockWatchlistRepository()
	service := NewWatchlistService(watchlistRepo, nil, zap.NewNop())
	return service, watchlistRepo
}

func TestWatchlistService_GetView_MergesLPs(t *testing.T) {
	service, repo := setupWatchlistServiceTest()
	ctx := context.Background()

	w := repo.AddWatchlist(testutil.CreateTestWatchlist(testutil.WatchlistWithMergeLP(true)))
	repo.Holdings.AddFT(entities.FTHolding{
		Unit: testutil.SnekUnit, Ticker: "SNEK", AdaValue: 100, Balance: 50, WatchlistID: w.ID, Visible: true,
	})
	repo.Holdings.AddLP(entities.LPHolding{
		Ticker:        "SNEK/ADA",
		TokenAUnit:    testutil.SnekUnit,
		TokenATicker:  "SNEK",
		TokenAAmount:  20,
		TokenBUnit:    "lovelace",
		TokenBTicker:  "ADA",
		TokenBAmount:  40,
		AdaValue:      80,
		TokenAVisible: true,
		TokenBVisible: true,
		WatchlistID:   w.ID,
	})

	view, err := service.GetView(ctx, w.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil {
		t.Fatal("expected non-nil view")
	}

	if len(view.Data.LPs) != 0 {
		t.Errorf("expected LP list omitted when merging, got %d entries", len(view.Data.LPs))
	}

	byUnit := make(map[string]entities.FTHolding)
	for _, h := range view.Data.Holdings {
		byUnit[h.Unit] = h
	}

	snek, ok := byUnit[testutil.SnekUnit]
	if !ok {
		t.Fatal("expected SNEK holding in the view")
	}
	if snek.AdaValue != 140 {
		t.Errorf("expected SNEK ada value 100+40=140, got %v", snek.AdaValue)
	}
	if _, ok := byUnit["lovelace"]; !ok {
		t.Error("expected a synthesized holding for the pool's other side")
	}
}

func TestWatchlistService_GetView_AppliesFilters(t *testing.T) {
	service, repo := setupWatchlistServiceTest()
	ctx := context.Background()

	w := repo.AddWatchlist(testutil.CreateTestWatchlist(
		testutil.WatchlistWithMergeLP(false),
		testutil.WatchlistWithMinFT(10),
	))
	repo.Holdings.AddFT(entities.FTHolding{Unit: "big", AdaValue: 100, Balance: 50, WatchlistID: w.ID, Visible: true})
	repo.Holdings.AddFT(entities.FTHolding{Unit: "dust", AdaValue: 1, Balance: 5, WatchlistID: w.ID, Visible: true})
	repo.Holdings.AddFT(entities.FTHolding{Unit: "hidden", AdaValue: 100, Balance: 50, WatchlistID: w.ID, Visible: false})

	view, err := service.GetView(ctx, w.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Data.Holdings) != 1 || view.Data.Holdings[0].Unit != "big" {
		t.Errorf("expected only the big visible holding, got %+v", view.Data.Holdings)
	}
	if view.Data.TotalAdaValue != 100 {
		t.Errorf("expected total 100, got %v", view.Data.TotalAdaValue)
	}
}

func TestWatchlistService_GetView_ExcludesNFTsWhenDisabled(t *testing.T) {
	service, repo := setupWatchlistServiceTest()
	ctx := context.Background()

	w := testutil.CreateTestWatchlist()
	w.IncludeNFTs = false
	w = repo.AddWatchlist(w)
	repo.Holdings.AddNFT(entities.NFTHolding{PolicyID: testutil.MinPolicy, AdaValue: 500, Balance: 1, WatchlistID: w.ID, Visible: true})

	view, err := service.GetView(ctx, w.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Data.NFTs) != 0 {
		t.Errorf("expected NFTs excluded, got %d", len(view.Data.NFTs))
	}
	if view.Data.TotalAdaValue != 0 {
		t.Errorf("expected excluded NFTs to not count toward the total, got %v", view.Data.TotalAdaValue)
	}
}

func TestWatchlistService_GetView_NotFound(t *testing.T) {
	service, _ := setupWatchlistServiceTest()

	view, err := service.GetView(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view != nil {
		t.Errorf("expected nil view for missing watchlist, got %+v", view)
	}
}

func TestWatchlistService_CRUD(t *testing.T) {
	service, repo := setupWatchlistServiceTest()
	ctx := context.Background()

	w := testutil.CreateTestWatchlist()
	w.ID = 0
	if err := service.Create(ctx, &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID == 0 {
		t.Fatal("expected created watchlist to get an ID")
	}

	w.Name = "Renamed"
	if err := service.Update(ctx, &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := service.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].Name != "Renamed" {
		t.Errorf("expected one renamed watchlist, got %+v", list.Data)
	}

	if err := service.Delete(ctx, w.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(ctx, w.ID)
	if got != nil {
		t.Error("expected watchlist deleted")
	}
}
