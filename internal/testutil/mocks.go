package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
	"github.com/foliowatch/foliowatch/internal/notify"
)

type MockCall struct {
	Method string
	Args   []interface{}
}

// MockAlertRepository is an in-memory AlertRepository with function
// hooks for custom behavior.
type MockAlertRepository struct {
	mu     sync.RWMutex
	rules  map[int64]entities.AlertRule
	nextID int64

	GetEnabledFunc       func(ctx context.Context) ([]entities.AlertRule, error)
	GetBySubjectFunc     func(ctx context.Context, subject string) ([]entities.AlertRule, error)
	CreateFunc           func(ctx context.Context, rule *entities.AlertRule) error
	UpdateFunc           func(ctx context.Context, rule *entities.AlertRule) error
	SetLastTriggeredFunc func(ctx context.Context, id int64, at time.Time) error
	DeleteFunc           func(ctx context.Context, id int64) error
	DeleteBySubjectFunc  func(ctx context.Context, subject string) error

	Calls []MockCall
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		rules:  make(map[int64]entities.AlertRule),
		nextID: 1,
		Calls:  make([]MockCall, 0),
	}
}

func (m *MockAlertRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

// AddRule seeds a rule, assigning an ID when unset.
func (m *MockAlertRepository) AddRule(rule entities.AlertRule) entities.AlertRule {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rule.ID == 0 {
		rule.ID = m.nextID
		m.nextID++
	} else if rule.ID >= m.nextID {
		m.nextID = rule.ID + 1
	}
	m.rules[rule.ID] = rule
	return rule
}

// GetRule returns the stored rule and whether it still exists.
func (m *MockAlertRepository) GetRule(id int64) (entities.AlertRule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rule, ok := m.rules[id]
	return rule, ok
}

func (m *MockAlertRepository) GetEnabled(ctx context.Context) ([]entities.AlertRule, error) {
	m.record("GetEnabled")
	if m.GetEnabledFunc != nil {
		return m.GetEnabledFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.AlertRule, 0)
	for _, r := range m.rules {
		if r.Enabled {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockAlertRepository) GetBySubject(ctx context.Context, subject string) ([]entities.AlertRule, error) {
	m.record("GetBySubject", subject)
	if m.GetBySubjectFunc != nil {
		return m.GetBySubjectFunc(ctx, subject)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.AlertRule, 0)
	for _, r := range m.rules {
		if r.Subject == subject {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockAlertRepository) Create(ctx context.Context, rule *entities.AlertRule) error {
	m.record("Create", *rule)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rule)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rule.ID = m.nextID
	m.nextID++
	rule.CreatedAt = time.Now().UTC()
	m.rules[rule.ID] = *rule
	return nil
}

func (m *MockAlertRepository) Update(ctx context.Context, rule *entities.AlertRule) error {
	m.record("Update", *rule)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rule)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = *rule
	return nil
}

func (m *MockAlertRepository) SetLastTriggered(ctx context.Context, id int64, at time.Time) error {
	m.record("SetLastTriggered", id, at)
	if m.SetLastTriggeredFunc != nil {
		return m.SetLastTriggeredFunc(ctx, id, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rules[id]; ok {
		r.LastTriggeredAt = &at
		m.rules[id] = r
	}
	return nil
}

func (m *MockAlertRepository) Delete(ctx context.Context, id int64) error {
	m.record("Delete", id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, id)
	return nil
}

func (m *MockAlertRepository) DeleteBySubject(ctx context.Context, subject string) error {
	m.record("DeleteBySubject", subject)
	if m.DeleteBySubjectFunc != nil {
		return m.DeleteBySubjectFunc(ctx, subject)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rules {
		if r.Subject == subject {
			delete(m.rules, id)
		}
	}
	return nil
}

// MockSnapshotRepository is an in-memory SnapshotRepository.
type MockSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]entities.StatSnapshot
	nextID    int64

	AppendFunc    func(ctx context.Context, s *entities.StatSnapshot) error
	GetLatestFunc func(ctx context.Context, subject string, limit int) ([]entities.StatSnapshot, error)

	Calls []MockCall
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		snapshots: make(map[string][]entities.StatSnapshot),
		nextID:    1,
		Calls:     make([]MockCall, 0),
	}
}

func (m *MockSnapshotRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

// AddSnapshot seeds a snapshot. Snapshots are kept in insertion order;
// the last added is the newest.
func (m *MockSnapshotRepository) AddSnapshot(s entities.StatSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		s.ID = m.nextID
		m.nextID++
	}
	m.snapshots[s.Subject] = append(m.snapshots[s.Subject], s)
}

func (m *MockSnapshotRepository) Append(ctx context.Context, s *entities.StatSnapshot) error {
	m.record("Append", *s)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, s)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.nextID
	m.nextID++
	m.snapshots[s.Subject] = append(m.snapshots[s.Subject], *s)
	return nil
}

func (m *MockSnapshotRepository) GetLatest(ctx context.Context, subject string, limit int) ([]entities.StatSnapshot, error) {
	m.record("GetLatest", subject, limit)
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, subject, limit)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.snapshots[subject]
	result := make([]entities.StatSnapshot, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, stored[i])
	}
	return result, nil
}

// MockFeedRepository is an in-memory ordered FeedRepository.
type MockFeedRepository struct {
	mu     sync.RWMutex
	items  []entities.FeedItem
	nextID int64

	GetAllOrderedFunc func(ctx context.Context) ([]entities.FeedItem, error)
	InsertAtFrontFunc func(ctx context.Context, item *entities.FeedItem) error
	InsertAtEndFunc   func(ctx context.Context, item *entities.FeedItem) error
	RotateToBackFunc  func(ctx context.Context, id int64) error
	UpdatePriceFunc   func(ctx context.Context, subject string, price float64) error
	DeleteFunc        func(ctx context.Context, id int64) error

	Calls []MockCall
}

func NewMockFeedRepository() *MockFeedRepository {
	return &MockFeedRepository{
		items:  make([]entities.FeedItem, 0),
		nextID: 1,
		Calls:  make([]MockCall, 0),
	}
}

func (m *MockFeedRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

// AddItem appends an item at the back of the queue.
func (m *MockFeedRepository) AddItem(item entities.FeedItem) entities.FeedItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == 0 {
		item.ID = m.nextID
		m.nextID++
	} else if item.ID >= m.nextID {
		m.nextID = item.ID + 1
	}
	item.OrderIndex = m.tailIndex() + 1
	m.items = append(m.items, item)
	return item
}

// Items returns a copy of the queue in order.
func (m *MockFeedRepository) Items() []entities.FeedItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entities.FeedItem, len(m.items))
	copy(out, m.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (m *MockFeedRepository) tailIndex() int64 {
	var max int64
	for _, it := range m.items {
		if it.OrderIndex > max {
			max = it.OrderIndex
		}
	}
	return max
}

func (m *MockFeedRepository) headIndex() int64 {
	var min int64
	for _, it := range m.items {
		if min == 0 || it.OrderIndex < min {
			min = it.OrderIndex
		}
	}
	return min
}

func (m *MockFeedRepository) GetAllOrdered(ctx context.Context) ([]entities.FeedItem, error) {
	m.record("GetAllOrdered")
	if m.GetAllOrderedFunc != nil {
		return m.GetAllOrderedFunc(ctx)
	}
	return m.Items(), nil
}

func (m *MockFeedRepository) InsertAtFront(ctx context.Context, item *entities.FeedItem) error {
	m.record("InsertAtFront", *item)
	if m.InsertAtFrontFunc != nil {
		return m.InsertAtFrontFunc(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.nextID
	m.nextID++
	item.OrderIndex = m.headIndex() - 1
	m.items = append(m.items, *item)
	return nil
}

func (m *MockFeedRepository) InsertAtEnd(ctx context.Context, item *entities.FeedItem) error {
	m.record("InsertAtEnd", *item)
	if m.InsertAtEndFunc != nil {
		return m.InsertAtEndFunc(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.nextID
	m.nextID++
	item.OrderIndex = m.tailIndex() + 1
	m.items = append(m.items, *item)
	return nil
}

func (m *MockFeedRepository) RotateToBack(ctx context.Context, id int64) error {
	m.record("RotateToBack", id)
	if m.RotateToBackFunc != nil {
		return m.RotateToBackFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tail := m.tailIndex()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].OrderIndex = tail + 1
			return nil
		}
	}
	return nil
}

func (m *MockFeedRepository) UpdatePrice(ctx context.Context, subject string, price float64) error {
	m.record("UpdatePrice", subject, price)
	if m.UpdatePriceFunc != nil {
		return m.UpdatePriceFunc(ctx, subject, price)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Subject == subject {
			m.items[i].Price = price
		}
	}
	return nil
}

func (m *MockFeedRepository) Delete(ctx context.Context, id int64) error {
	m.record("Delete", id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// MockHoldingRepository is an in-memory HoldingRepository.
type MockHoldingRepository struct {
	mu     sync.RWMutex
	fts    []entities.FTHolding
	nfts   []entities.NFTHolding
	lps    []entities.LPHolding
	nextID int64

	GetFTsFunc    func(ctx context.Context, watchlistID int64) ([]entities.FTHolding, error)
	GetNFTsFunc   func(ctx context.Context, watchlistID int64) ([]entities.NFTHolding, error)
	GetLPsFunc    func(ctx context.Context, watchlistID int64) ([]entities.LPHolding, error)
	UpsertFTFunc  func(ctx context.Context, h *entities.FTHolding) error
	UpsertNFTFunc func(ctx context.Context, h *entities.NFTHolding) error
	UpsertLPFunc  func(ctx context.Context, h *entities.LPHolding) error

	Calls []MockCall
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{nextID: 1, Calls: make([]MockCall, 0)}
}

func (m *MockHoldingRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockHoldingRepository) AddFT(h entities.FTHolding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.nextID
		m.nextID++
	}
	m.fts = append(m.fts, h)
}

func (m *MockHoldingRepository) AddNFT(h entities.NFTHolding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.nextID
		m.nextID++
	}
	m.nfts = append(m.nfts, h)
}

func (m *MockHoldingRepository) AddLP(h entities.LPHolding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.nextID
		m.nextID++
	}
	m.lps = append(m.lps, h)
}

func (m *MockHoldingRepository) GetFTs(ctx context.Context, watchlistID int64) ([]entities.FTHolding, error) {
	m.record("GetFTs", watchlistID)
	if m.GetFTsFunc != nil {
		return m.GetFTsFunc(ctx, watchlistID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.FTHolding, 0)
	for _, h := range m.fts {
		if h.WatchlistID == watchlistID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *MockHoldingRepository) GetNFTs(ctx context.Context, watchlistID int64) ([]entities.NFTHolding, error) {
	m.record("GetNFTs", watchlistID)
	if m.GetNFTsFunc != nil {
		return m.GetNFTsFunc(ctx, watchlistID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.NFTHolding, 0)
	for _, h := range m.nfts {
		if h.WatchlistID == watchlistID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *MockHoldingRepository) GetLPs(ctx context.Context, watchlistID int64) ([]entities.LPHolding, error) {
	m.record("GetLPs", watchlistID)
	if m.GetLPsFunc != nil {
		return m.GetLPsFunc(ctx, watchlistID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.LPHolding, 0)
	for _, h := range m.lps {
		if h.WatchlistID == watchlistID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *MockHoldingRepository) UpsertFT(ctx context.Context, h *entities.FTHolding) error {
	m.record("UpsertFT", *h)
	if m.UpsertFTFunc != nil {
		return m.UpsertFTFunc(ctx, h)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.fts {
		if m.fts[i].Unit == h.Unit && m.fts[i].WatchlistID == h.WatchlistID {
			h.ID = m.fts[i].ID
			m.fts[i] = *h
			return nil
		}
	}
	h.ID = m.nextID
	m.nextID++
	m.fts = append(m.fts, *h)
	return nil
}

func (m *MockHoldingRepository) UpsertNFT(ctx context.Context, h *entities.NFTHolding) error {
	m.record("UpsertNFT", *h)
	if m.UpsertNFTFunc != nil {
		return m.UpsertNFTFunc(ctx, h)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.nfts {
		if m.nfts[i].PolicyID == h.PolicyID && m.nfts[i].WatchlistID == h.WatchlistID {
			h.ID = m.nfts[i].ID
			m.nfts[i] = *h
			return nil
		}
	}
	h.ID = m.nextID
	m.nextID++
	m.nfts = append(m.nfts, *h)
	return nil
}

func (m *MockHoldingRepository) UpsertLP(ctx context.Context, h *entities.LPHolding) error {
	m.record("UpsertLP", *h)
	if m.UpsertLPFunc != nil {
		return m.UpsertLPFunc(ctx, h)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lps {
		if m.lps[i].Ticker == h.Ticker && m.lps[i].WatchlistID == h.WatchlistID {
			h.ID = m.lps[i].ID
			m.lps[i] = *h
			return nil
		}
	}
	h.ID = m.nextID
	m.nextID++
	m.lps = append(m.lps, *h)
	return nil
}

// MockWatchlistRepository is an in-memory WatchlistRepository. The
// aggregate read joins against an optional holding repository.
type MockWatchlistRepository struct {
	mu         sync.RWMutex
	watchlists map[int64]entities.Watchlist
	nextID     int64
	Holdings   *MockHoldingRepository

	GetByIDFunc         func(ctx context.Context, id int64) (*entities.Watchlist, error)
	GetAllFunc          func(ctx context.Context) ([]entities.Watchlist, error)
	GetWithHoldingsFunc func(ctx context.Context, id int64) (*entities.WatchlistHoldings, error)
	CreateFunc          func(ctx context.Context, w *entities.Watchlist) error
	UpdateFunc          func(ctx context.Context, w *entities.Watchlist) error
	DeleteFunc          func(ctx context.Context, id int64) error

	Calls []MockCall
}

func NewMockWatchlistRepository() *MockWatchlistRepository {
	return &MockWatchlistRepository{
		watchlists: make(map[int64]entities.Watchlist),
		nextID:     1,
		Holdings:   NewMockHoldingRepository(),
		Calls:      make([]MockCall, 0),
	}
}

func (m *MockWatchlistRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

// AddWatchlist seeds a watchlist, assigning an ID when unset.
func (m *MockWatchlistRepository) AddWatchlist(w entities.Watchlist) entities.Watchlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ID == 0 {
		w.ID = m.nextID
		m.nextID++
	} else if w.ID >= m.nextID {
		m.nextID = w.ID + 1
	}
	m.watchlists[w.ID] = w
	return w
}

func (m *MockWatchlistRepository) GetByID(ctx context.Context, id int64) (*entities.Watchlist, error) {
	m.record("GetByID", id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.watchlists[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (m *MockWatchlistRepository) GetAll(ctx context.Context) ([]entities.Watchlist, error) {
	m.record("GetAll")
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]entities.Watchlist, 0, len(m.watchlists))
	for _, w := range m.watchlists {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockWatchlistRepository) GetWithHoldings(ctx context.Context, id int64) (*entities.WatchlistHoldings, error) {
	m.record("GetWithHoldings", id)
	if m.GetWithHoldingsFunc != nil {
		return m.GetWithHoldingsFunc(ctx, id)
	}

	w, err := m.GetByID(ctx, id)
	if err != nil || w == nil {
		return nil, err
	}

	fts, _ := m.Holdings.GetFTs(ctx, id)
	nfts, _ := m.Holdings.GetNFTs(ctx, id)
	lps, _ := m.Holdings.GetLPs(ctx, id)

	return &entities.WatchlistHoldings{
		Watchlist: *w,
		FTs:       fts,
		NFTs:      nfts,
		LPs:       lps,
	}, nil
}

func (m *MockWatchlistRepository) Create(ctx context.Context, w *entities.Watchlist) error {
	m.record("Create", *w)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, w)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.nextID
	m.nextID++
	w.CreatedAt = time.Now().UTC()
	m.watchlists[w.ID] = *w
	return nil
}

func (m *MockWatchlistRepository) Update(ctx context.Context, w *entities.Watchlist) error {
	m.record("Update", *w)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, w)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchlists[w.ID] = *w
	return nil
}

func (m *MockWatchlistRepository) Delete(ctx context.Context, id int64) error {
	m.record("Delete", id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchlists, id)
	return nil
}

// MockDispatcher records dispatched notifications.
type MockDispatcher struct {
	mu         sync.Mutex
	Dispatched []DispatchedMessage
}

type DispatchedMessage struct {
	Message  notify.Message
	Channels notify.Channels
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{Dispatched: make([]DispatchedMessage, 0)}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, msg notify.Message, channels notify.Channels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dispatched = append(m.Dispatched, DispatchedMessage{Message: msg, Channels: channels})
}

// Messages returns a copy of everything dispatched so far.
func (m *MockDispatcher) Messages() []DispatchedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DispatchedMessage, len(m.Dispatched))
	copy(out, m.Dispatched)
	return out
}

// MockHealthChecker fakes a component health probe.
type MockHealthChecker struct {
	healthy bool
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	return &MockHealthChecker{healthy: healthy}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	if !m.healthy {
		return errors.New("component unhealthy")
	}
	return nil
}

// MockPortfolioGateway fakes the market data provider.
type MockPortfolioGateway struct {
	mu sync.Mutex

	PositionsFunc       func(ctx context.Context, address string) (*gateway.WalletPositions, error)
	CollectionStatsFunc func(ctx context.Context, policy string) (*gateway.CollectionStats, error)
	TokenPricesFunc     func(ctx context.Context, units []string) (map[string]float64, error)

	Calls []MockCall
}

func NewMockPortfolioGateway() *MockPortfolioGateway {
	return &MockPortfolioGateway{Calls: make([]MockCall, 0)}
}

func (m *MockPortfolioGateway) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockPortfolioGateway) Positions(ctx context.Context, address string) (*gateway.WalletPositions, error) {
	m.record("Positions", address)
	if m.PositionsFunc != nil {
		return m.PositionsFunc(ctx, address)
	}
	return &gateway.WalletPositions{}, nil
}

func (m *MockPortfolioGateway) CollectionStats(ctx context.Context, policy string) (*gateway.CollectionStats, error) {
	m.record("CollectionStats", policy)
	if m.CollectionStatsFunc != nil {
		return m.CollectionStatsFunc(ctx, policy)
	}
	return &gateway.CollectionStats{}, nil
}

func (m *MockPortfolioGateway) TokenPrices(ctx context.Context, units []string) (map[string]float64, error) {
	m.record("TokenPrices", units)
	if m.TokenPricesFunc != nil {
		return m.TokenPricesFunc(ctx, units)
	}
	return map[string]float64{}, nil
}

// MockHandleResolver fakes handle-to-address resolution.
type MockHandleResolver struct {
	mu sync.Mutex

	ResolveHandleFunc func(ctx context.Context, handle string) (string, error)

	Calls []MockCall
}

func NewMockHandleResolver() *MockHandleResolver {
	return &MockHandleResolver{Calls: make([]MockCall, 0)}
}

func (m *MockHandleResolver) ResolveHandle(ctx context.Context, handle string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "ResolveHandle", Args: []interface{}{handle}})
	m.mu.Unlock()

	if m.ResolveHandleFunc != nil {
		return m.ResolveHandleFunc(ctx, handle)
	}
	return handle, nil
}

// MockDisplay records renders sent to the external display.
type MockDisplay struct {
	mu      sync.Mutex
	Renders []gateway.DeviceRender
	ShowErr error
}

func NewMockDisplay() *MockDisplay {
	return &MockDisplay{Renders: make([]gateway.DeviceRender, 0)}
}

func (m *MockDisplay) Show(ctx context.Context, render gateway.DeviceRender) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShowErr != nil {
		return m.ShowErr
	}
	m.Renders = append(m.Renders, render)
	return nil
}

// Shown returns a copy of all renders so far.
func (m *MockDisplay) Shown() []gateway.DeviceRender {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]gateway.DeviceRender, len(m.Renders))
	copy(out, m.Renders)
	return out
}
