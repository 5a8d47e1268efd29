package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/foliowatch/foliowatch/internal/config"
)

// TelegramChannel delivers push notifications through a Telegram bot.
// Sends are throttled client-side; a 429 from the Bot API is retried
// once after the server-provided backoff.
type TelegramChannel struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Channel = (*TelegramChannel)(nil)

// NewTelegramChannel creates the push channel, or nil when no bot
// token is configured.
func NewTelegramChannel(cfg config.NotifyConfig, logger *zap.Logger) (*TelegramChannel, error) {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	rps := cfg.TelegramRPS
	if rps <= 0 {
		rps = 0.2
	}

	return &TelegramChannel{
		bot:     bot,
		chatID:  cfg.TelegramChatID,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}, nil
}

func (t *TelegramChannel) Name() string { return "telegram" }

// Send posts the message to the configured chat.
func (t *TelegramChannel) Send(ctx context.Context, msg Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	text := msg.Title
	if msg.Body != "" {
		text += "\n" + msg.Body
	}

	out := tgbotapi.NewMessage(t.chatID, text)

	_, err := t.bot.Send(out)
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		t.logger.Warn("Telegram rate limited, retrying",
			zap.Int("retry_after_seconds", apiErr.RetryAfter),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(apiErr.RetryAfter) * time.Second):
		}
		_, err = t.bot.Send(out)
	}

	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
