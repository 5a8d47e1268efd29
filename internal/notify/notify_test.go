package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeChannel struct {
	name  string
	sent  []Message
	fail  error
	calls int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(ctx context.Context, msg Message) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	msg := Message{Subject: "unitA", Title: "ALERT", Body: "crossed over 1.5"}

	t.Run("only selected channels receive the message", func(t *testing.T) {
		push := &fakeChannel{name: "push"}
		device := &fakeChannel{name: "device"}
		mail := &fakeChannel{name: "mail"}
		d := NewDispatcher(push, device, mail, zap.NewNop())

		d.Dispatch(ctx, msg, Channels{Push: true, Mail: true})

		if push.calls != 1 {
			t.Errorf("expected 1 push delivery, got %d", push.calls)
		}
		if device.calls != 0 {
			t.Errorf("expected no device delivery, got %d", device.calls)
		}
		if mail.calls != 1 {
			t.Errorf("expected 1 mail delivery, got %d", mail.calls)
		}
	})

	t.Run("one failing channel does not block the others", func(t *testing.T) {
		push := &fakeChannel{name: "push", fail: errors.New("telegram down")}
		device := &fakeChannel{name: "device"}
		mail := &fakeChannel{name: "mail"}
		d := NewDispatcher(push, device, mail, zap.NewNop())

		d.Dispatch(ctx, msg, Channels{Push: true, Device: true, Mail: true})

		if device.calls != 1 {
			t.Errorf("expected device delivery despite push failure, got %d", device.calls)
		}
		if mail.calls != 1 {
			t.Errorf("expected mail delivery despite push failure, got %d", mail.calls)
		}
	})

	t.Run("nil channels are skipped", func(t *testing.T) {
		d := NewDispatcher(nil, nil, nil, zap.NewNop())
		d.Dispatch(ctx, msg, Channels{Push: true, Device: true, Mail: true})
	})
}
