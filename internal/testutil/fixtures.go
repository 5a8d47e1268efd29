package testutil

import (
	"time"

	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// Common test identifiers
const (
	SnekUnit   = "279c909f348e533da5808898f87f9a14bb2c3dfbbacccd631d927a3f534e454b"
	HoskyUnit  = "a0028f350aaabe0545fdcb56b039bfb08e4bb4d8c4d7c3c7d481c235484f534b59"
	MinPolicy  = "f0ff48bbb7bb00000000000000000000000000000000000000000000"
	TestWallet = "addr1qy2k8d0t7wvn3xyzexampleexampleexampleexampleexample"
)

// BaseTime is a fixed reference instant for deterministic fixtures.
var BaseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// CreateTestWatchlist creates a watchlist with default values.
func CreateTestWatchlist(opts ...WatchlistOption) entities.Watchlist {
	w := entities.Watchlist{
		ID:            1,
		Name:          "Main",
		MergeLPIntoFT: true,
		IncludeNFTs:   true,
		MinFTAmount:   0,
		MinNFTAmount:  0,
		WalletAddress: TestWallet,
		CreatedAt:     BaseTime,
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

type WatchlistOption func(*entities.Watchlist)

func WatchlistWithID(id int64) WatchlistOption {
	return func(w *entities.Watchlist) { w.ID = id }
}

func WatchlistWithMergeLP(merge bool) WatchlistOption {
	return func(w *entities.Watchlist) { w.MergeLPIntoFT = merge }
}

func WatchlistWithMinFT(min float64) WatchlistOption {
	return func(w *entities.Watchlist) { w.MinFTAmount = min }
}

func WatchlistWithWallet(address string) WatchlistOption {
	return func(w *entities.Watchlist) { w.WalletAddress = address }
}

// CreateTestRule creates an enabled price crossing-over rule with
// default values. The ID is left zero so MockAlertRepository.AddRule
// assigns sequential IDs; use RuleWithID to pin one.
func CreateTestRule(opts ...RuleOption) entities.AlertRule {
	r := entities.AlertRule{
		Kind:         entities.AlertKindToken,
		Subject:      SnekUnit,
		Threshold:    1.0,
		OnVolume:     false,
		CrossingOver: true,
		Enabled:      true,
		FireOnce:     false,
		PushEnabled:  true,
		CreatedAt:    BaseTime,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

type RuleOption func(*entities.AlertRule)

func RuleWithID(id int64) RuleOption {
	return func(r *entities.AlertRule) { r.ID = id }
}

func RuleWithSubject(subject string) RuleOption {
	return func(r *entities.AlertRule) { r.Subject = subject }
}

func RuleWithThreshold(threshold float64) RuleOption {
	return func(r *entities.AlertRule) { r.Threshold = threshold }
}

func RuleCrossingUnder() RuleOption {
	return func(r *entities.AlertRule) { r.CrossingOver = false }
}

func RuleOnVolume() RuleOption {
	return func(r *entities.AlertRule) { r.OnVolume = true }
}

func RuleFireOnce() RuleOption {
	return func(r *entities.AlertRule) { r.FireOnce = true }
}

func RuleWithChannels(push, device, mail bool) RuleOption {
	return func(r *entities.AlertRule) {
		r.PushEnabled = push
		r.DeviceEnabled = device
		r.MailEnabled = mail
	}
}

// CreateTestSnapshot creates a snapshot with default values.
func CreateTestSnapshot(subject string, price, volume float64, at time.Time) entities.StatSnapshot {
	return entities.StatSnapshot{
		Subject:   subject,
		Price:     price,
		Volume:    volume,
		CreatedAt: at,
	}
}

// CreateTestFeedItem creates a feed item with default values.
func CreateTestFeedItem(opts ...FeedItemOption) entities.FeedItem {
	f := entities.FeedItem{
		ID:        1,
		Subject:   SnekUnit,
		Kind:      entities.AlertKindToken,
		Text:      "SNEK",
		Price:     1.0,
		Color:     "#FFFFFF",
		CreatedAt: BaseTime,
		UpdatedAt: BaseTime,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

type FeedItemOption func(*entities.FeedItem)

func FeedItemWithID(id int64) FeedItemOption {
	return func(f *entities.FeedItem) { f.ID = id }
}

func FeedItemWithText(text string) FeedItemOption {
	return func(f *entities.FeedItem) { f.Text = text }
}

func FeedItemWithSubject(subject string) FeedItemOption {
	return func(f *entities.FeedItem) { f.Subject = subject }
}

func FeedItemOneShot() FeedItemOption {
	return func(f *entities.FeedItem) { f.OneShot = true }
}
