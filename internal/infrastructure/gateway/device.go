package gateway

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/icholy/digest"
	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/config"
)

const deviceName = "device"

// DeviceStatus is the display device's status payload.
type DeviceStatus struct {
	Mode     string  `json:"mode"`
	Number   float64 `json:"number"`
	Text     string  `json:"text"`
	Rainbow  bool    `json:"rainbow"`
	Centered bool    `json:"centered"`
	Tag      string  `json:"tag"`
}

// DeviceRender is one render dispatch to the display.
type DeviceRender struct {
	Text    string  `json:"text"`
	Number  float64 `json:"number,omitempty"`
	Color   string  `json:"color,omitempty"`
	Rainbow bool    `json:"rainbow,omitempty"`
	Tag     string  `json:"tag,omitempty"`
}

// Device talks to the external display over the local network using
// HTTP digest authentication. The digest transport caches the server
// challenge across requests.
type Device struct {
	logger *zap.Logger
	state  atomic.Pointer[client]
}

// NewDevice creates a device gateway from configuration. An absent
// address or credential leaves the gateway in the valid unconfigured
// state.
func NewDevice(cfg config.DeviceConfig, logger *zap.Logger) *Device {
	d := &Device{logger: logger}
	d.Configure(cfg)
	return d
}

// Configure rebuilds the underlying client for a new credential and
// swaps it in atomically.
func (d *Device) Configure(cfg config.DeviceConfig) {
	if cfg.BaseURL == "" || cfg.Username == "" {
		d.state.Store(nil)
		return
	}

	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &digest.Transport{
			Username: cfg.Username,
			Password: cfg.Password,
		},
	}

	d.state.Store(newClient(deviceName, cfg.BaseURL, httpClient, nil, cfg.RateLimitRPS, d.logger))
}

// Status fetches the device's current display state.
func (d *Device) Status(ctx context.Context) (*DeviceStatus, error) {
	c := d.state.Load()
	if c == nil {
		return nil, noCredential(deviceName, d.logger)
	}

	body, err := c.get(ctx, "/status", nil)
	if err != nil {
		return nil, err
	}

	var status DeviceStatus
	if err := c.decode(body, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// Show dispatches one render to the display.
func (d *Device) Show(ctx context.Context, render DeviceRender) error {
	c := d.state.Load()
	if c == nil {
		return noCredential(deviceName, d.logger)
	}

	_, err := c.post(ctx, "/show", render)
	if err != nil && IsKind(err, KindBodyAndErrorNull) {
		// The device acknowledges renders with an empty body.
		return nil
	}
	return err
}

// HealthCheck reports whether the device answers its status endpoint.
func (d *Device) HealthCheck(ctx context.Context) error {
	_, err := d.Status(ctx)
	return err
}
