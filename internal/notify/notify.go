package notify

import (
	"context"

	"go.uber.org/zap"
)

// Message is one alert notification, rendered per channel.
type Message struct {
	Subject string
	Title   string
	Body    string
	Price   float64
	Color   string
}

// Channels selects which delivery channels a message goes to.
type Channels struct {
	Push   bool
	Device bool
	Mail   bool
}

// Channel delivers a message over one medium.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher fans a message out to its selected channels. Delivery is
// best effort: a channel failure is logged and never blocks the other
// channels or the caller.
type Dispatcher struct {
	push   Channel
	device Channel
	mail   Channel
	logger *zap.Logger
}

// NewDispatcher wires the three channels; any of them may be nil when
// the corresponding integration is not configured.
func NewDispatcher(push, device, mail Channel, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		push:   push,
		device: device,
		mail:   mail,
		logger: logger,
	}
}

// Dispatch sends the message to every selected channel independently.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, channels Channels) {
	targets := make([]Channel, 0, 3)
	if channels.Push && d.push != nil {
		targets = append(targets, d.push)
	}
	if channels.Device && d.device != nil {
		targets = append(targets, d.device)
	}
	if channels.Mail && d.mail != nil {
		targets = append(targets, d.mail)
	}

	for _, ch := range targets {
		if err := ch.Send(ctx, msg); err != nil {
			d.logger.Warn("Notification delivery failed",
				zap.String("channel", ch.Name()),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}
}
