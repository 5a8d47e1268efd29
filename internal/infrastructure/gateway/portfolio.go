package gateway

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/config"
)

const portfolioName = "portfolio"

// FTPosition is one fungible token position of a wallet.
type FTPosition struct {
	Unit        string  `json:"unit"`
	Ticker      string  `json:"ticker"`
	Fingerprint string  `json:"fingerprint"`
	AdaValue    float64 `json:"adaValue"`
	Price       float64 `json:"price"`
	Balance     float64 `json:"balance"`
	Change30D   float64 `json:"30d"`
}

// LPPosition is one liquidity pool position of a wallet.
type LPPosition struct {
	Ticker       string  `json:"ticker"`
	TokenA       string  `json:"tokenA"`
	TokenAName   string  `json:"tokenAName"`
	TokenAAmount float64 `json:"tokenAAmount"`
	TokenB       string  `json:"tokenB"`
	TokenBName   string  `json:"tokenBName"`
	TokenBAmount float64 `json:"tokenBAmount"`
	AdaValue     float64 `json:"adaValue"`
	Amount       float64 `json:"amount"`
}

// NFTPosition is one collection position of a wallet.
type NFTPosition struct {
	Policy    string  `json:"policy"`
	Name      string  `json:"name"`
	AdaValue  float64 `json:"adaValue"`
	Floor     float64 `json:"floorPrice"`
	Balance   float64 `json:"balance"`
	Change30D float64 `json:"30d"`
}

// WalletPositions is a wallet's balance broken into position lists.
type WalletPositions struct {
	FTs  []FTPosition  `json:"positionsFt"`
	LPs  []LPPosition  `json:"positionsLp"`
	NFTs []NFTPosition `json:"positionsNft"`
}

// CollectionStats is the per-collection market stats payload.
type CollectionStats struct {
	Price    float64 `json:"price"`
	Volume   float64 `json:"volume"`
	Listings int64   `json:"listings"`
	Owners   int64   `json:"owners"`
	Supply   int64   `json:"supply"`
	TopOffer float64 `json:"topOffer"`
}

// Portfolio talks to the portfolio data provider, authenticating with
// an x-api-key header.
type Portfolio struct {
	logger *zap.Logger
	state  atomic.Pointer[client]
}

// NewPortfolio creates a portfolio gateway from configuration.
func NewPortfolio(cfg config.PortfolioConfig, logger *zap.Logger) *Portfolio {
	p := &Portfolio{logger: logger}
	p.Configure(cfg)
	return p
}

// Configure rebuilds the underlying client for a new API key and
// swaps it in atomically.
func (p *Portfolio) Configure(cfg config.PortfolioConfig) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		p.state.Store(nil)
		return
	}

	header := http.Header{}
	header.Set("x-api-key", cfg.APIKey)

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	p.state.Store(newClient(portfolioName, cfg.BaseURL, httpClient, header, cfg.RateLimitRPS, p.logger))
}

// Positions fetches a wallet's balance broken into FT/LP/NFT lists.
func (p *Portfolio) Positions(ctx context.Context, address string) (*WalletPositions, error) {
	c := p.state.Load()
	if c == nil {
		return nil, noCredential(portfolioName, p.logger)
	}

	query := url.Values{}
	query.Set("address", address)

	body, err := c.get(ctx, "/wallet/portfolio/positions", query)
	if err != nil {
		return nil, err
	}

	var positions WalletPositions
	if err := c.decode(body, &positions); err != nil {
		return nil, err
	}

	return &positions, nil
}

// CollectionStats fetches market stats for a collection policy.
func (p *Portfolio) CollectionStats(ctx context.Context, policy string) (*CollectionStats, error) {
	c := p.state.Load()
	if c == nil {
		return nil, noCredential(portfolioName, p.logger)
	}

	query := url.Values{}
	query.Set("policy", policy)

	body, err := c.get(ctx, "/nft/collection/stats", query)
	if err != nil {
		return nil, err
	}

	var stats CollectionStats
	if err := c.decode(body, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// TokenPrices resolves current prices for a list of token units.
func (p *Portfolio) TokenPrices(ctx context.Context, units []string) (map[string]float64, error) {
	c := p.state.Load()
	if c == nil {
		return nil, noCredential(portfolioName, p.logger)
	}

	body, err := c.post(ctx, "/token/prices", units)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]float64)
	if err := c.decode(body, &prices); err != nil {
		return nil, err
	}

	return prices, nil
}
