package notify

import (
	"context"

	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
)

// DeviceRenderer dispatches one render to the external display.
type DeviceRenderer interface {
	Show(ctx context.Context, render gateway.DeviceRender) error
}

// DeviceChannel delivers notifications to the external display.
type DeviceChannel struct {
	device DeviceRenderer
}

var _ Channel = (*DeviceChannel)(nil)

// NewDeviceChannel wraps a display gateway as a delivery channel.
func NewDeviceChannel(device DeviceRenderer) *DeviceChannel {
	return &DeviceChannel{device: device}
}

func (d *DeviceChannel) Name() string { return "device" }

// Send renders the message title on the display, tagged with the
// subject so later renders for the same subject replace it.
func (d *DeviceChannel) Send(ctx context.Context, msg Message) error {
	return d.device.Show(ctx, gateway.DeviceRender{
		Text:   msg.Title,
		Number: msg.Price,
		Color:  msg.Color,
		Tag:    msg.Subject,
	})
}
