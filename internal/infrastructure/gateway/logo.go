package gateway

import (
	"context"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/config"
)

const logoName = "logo"

// LogoMetadata is a token's logo payload: either inline base64 data
// or a URL, depending on what the provider stores.
type LogoMetadata struct {
	Unit   string `json:"unit"`
	Base64 string `json:"logo"`
	URL    string `json:"url"`
}

// Logo talks to the logo metadata provider.
type Logo struct {
	logger *zap.Logger
	state  atomic.Pointer[client]
}

// NewLogo creates a logo gateway from configuration.
func NewLogo(cfg config.LogoConfig, logger *zap.Logger) *Logo {
	l := &Logo{logger: logger}
	l.Configure(cfg)
	return l
}

// Configure rebuilds the underlying client and swaps it in atomically.
// The api key is optional for this provider; the base endpoint is not.
func (l *Logo) Configure(cfg config.LogoConfig) {
	if cfg.BaseURL == "" {
		l.state.Store(nil)
		return
	}

	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("x-api-key", cfg.APIKey)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	l.state.Store(newClient(logoName, cfg.BaseURL, httpClient, header, cfg.RateLimitRPS, l.logger))
}

// Metadata fetches the logo payload for a token unit.
func (l *Logo) Metadata(ctx context.Context, unit string) (*LogoMetadata, error) {
	c := l.state.Load()
	if c == nil {
		return nil, noCredential(logoName, l.logger)
	}

	body, err := c.get(ctx, "/metadata/"+unit, nil)
	if err != nil {
		return nil, err
	}

	var meta LogoMetadata
	if err := c.decode(body, &meta); err != nil {
		return nil, err
	}

	if meta.Unit == "" {
		meta.Unit = unit
	}

	return &meta, nil
}
