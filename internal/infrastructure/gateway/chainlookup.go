package gateway

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/config"
)

const chainLookupName = "chainlookup"

// HandlePolicyID is the minting policy of the on-chain handle NFTs.
// A handle resolves through the asset named by this policy plus the
// hex-encoded handle string.
const HandlePolicyID = "f0ff48bbb7bbe9d59a40f1ce90e9e9d0ff5002ec48f232b49ca0fb9a"

// ErrHandleNotResolved reports that a handle lookup succeeded at the
// transport level but returned no owning address. It is distinct from
// every transport failure kind.
var ErrHandleNotResolved = errors.New("handle could not be resolved")

// AssetAddress is one (address, quantity) pair holding an asset.
type AssetAddress struct {
	Address  string `json:"address"`
	Quantity string `json:"quantity"`
}

// AddressInfo is the chain-level summary of an address.
type AddressInfo struct {
	Address      string `json:"address"`
	StakeAddress string `json:"stake_address"`
}

// ChainLookup talks to the chain query API, authenticating with a
// project_id header.
type ChainLookup struct {
	logger *zap.Logger
	state  atomic.Pointer[client]
}

// NewChainLookup creates a chain lookup gateway from configuration.
func NewChainLookup(cfg config.ChainLookupConfig, logger *zap.Logger) *ChainLookup {
	g := &ChainLookup{logger: logger}
	g.Configure(cfg)
	return g
}

// Configure rebuilds the underlying client for a new project id and
// swaps it in atomically.
func (g *ChainLookup) Configure(cfg config.ChainLookupConfig) {
	if cfg.BaseURL == "" || cfg.ProjectID == "" {
		g.state.Store(nil)
		return
	}

	header := http.Header{}
	header.Set("project_id", cfg.ProjectID)

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	g.state.Store(newClient(chainLookupName, cfg.BaseURL, httpClient, header, cfg.RateLimitRPS, g.logger))
}

// AssetAddresses lists addresses holding an asset, most first.
func (g *ChainLookup) AssetAddresses(ctx context.Context, assetHexed string, count int) ([]AssetAddress, error) {
	c := g.state.Load()
	if c == nil {
		return nil, noCredential(chainLookupName, g.logger)
	}

	query := url.Values{}
	query.Set("count", strconv.Itoa(count))

	body, err := c.get(ctx, "/assets/"+assetHexed+"/addresses", query)
	if err != nil {
		return nil, err
	}

	var addresses []AssetAddress
	if err := c.decode(body, &addresses); err != nil {
		return nil, err
	}

	return addresses, nil
}

// AddressInfo fetches the chain summary for an address, including its
// stake address.
func (g *ChainLookup) AddressInfo(ctx context.Context, address string) (*AddressInfo, error) {
	c := g.state.Load()
	if c == nil {
		return nil, noCredential(chainLookupName, g.logger)
	}

	body, err := c.get(ctx, "/addresses/"+address, nil)
	if err != nil {
		return nil, err
	}

	var info AddressInfo
	if err := c.decode(body, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// ResolveHandle resolves a human-readable handle ("$name" or "name")
// to the wallet address currently holding it. The lookup key is the
// handle policy id concatenated with the hex encoding of the handle
// string; the first returned address wins. An empty result maps to
// ErrHandleNotResolved, transport failures pass through unchanged.
func (g *ChainLookup) ResolveHandle(ctx context.Context, handle string) (string, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(handle)), "$")
	if name == "" {
		return "", ErrHandleNotResolved
	}

	asset := HandlePolicyID + hex.EncodeToString([]byte(name))

	addresses, err := g.AssetAddresses(ctx, asset, 1)
	if err != nil {
		if IsKind(err, KindHTTPError) {
			var ge *Error
			if errors.As(err, &ge) && ge.StatusCode == http.StatusNotFound {
				return "", ErrHandleNotResolved
			}
		}
		return "", err
	}

	if len(addresses) == 0 {
		return "", ErrHandleNotResolved
	}

	return addresses[0].Address, nil
}
