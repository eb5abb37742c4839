// Package telegram wraps the Bot API client used for webhook registration
// and recap dispatch to the relay channel.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bangpateng/recap-bot/internal/config"
)

const (
	webhookPath = "/webhook"

	// photoTimeout bounds the multipart photo upload. Text posts and
	// webhook registration rely on transport defaults.
	photoTimeout = 30 * time.Second

	sendRPS   = 1
	sendBurst = 1
)

// entityParseMarker is the fragment Telegram returns when it rejects a
// message over malformed HTML entities.
const entityParseMarker = "can't parse entities"

// Bot posts to the relay channel and registers the inbound webhook.
type Bot struct {
	api      *tgbotapi.BotAPI
	photoAPI *tgbotapi.BotAPI
	cfg      *config.Config
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("bot api init: %w", err)
	}

	photoAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: photoTimeout})
	if err != nil {
		return nil, fmt.Errorf("photo api init: %w", err)
	}

	return &Bot{
		api:      api,
		photoAPI: photoAPI,
		cfg:      cfg,
		limiter:  rate.NewLimiter(sendRPS, sendBurst),
		logger:   logger,
	}, nil
}

// RegisterWebhook points Telegram at {WEBHOOK_URL}/webhook for channel_post
// updates only.
func (b *Bot) RegisterWebhook(ctx context.Context) error {
	url := b.cfg.WebhookURL + webhookPath

	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}

	wh.AllowedUpdates = []string{"channel_post"}

	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate wait: %w", err)
	}

	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook %s: %w", url, err)
	}

	b.logger.Info().Str("url", url).Msg("webhook registered")

	return nil
}

// SendPhoto posts the recap cover image to the relay channel.
func (b *Bot) SendPhoto(ctx context.Context, path string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("photo rate wait: %w", err)
	}

	photo := tgbotapi.NewPhoto(b.cfg.RelayChannelID, tgbotapi.FilePath(path))
	if _, err := b.photoAPI.Send(photo); err != nil {
		return fmt.Errorf("send photo to %d: %w", b.cfg.RelayChannelID, err)
	}

	return nil
}

// SendHTML posts rich text to the relay channel with link previews off.
func (b *Bot) SendHTML(ctx context.Context, text string) error {
	return b.send(ctx, text, tgbotapi.ModeHTML)
}

// SendPlain posts bare text to the relay channel with link previews off.
func (b *Bot) SendPlain(ctx context.Context, text string) error {
	return b.send(ctx, text, "")
}

func (b *Bot) send(ctx context.Context, text, parseMode string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send rate wait: %w", err)
	}

	msg := tgbotapi.NewMessage(b.cfg.RelayChannelID, text)
	msg.ParseMode = parseMode
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message to %d: %w", b.cfg.RelayChannelID, err)
	}

	return nil
}

// IsEntityParseError reports whether err is Telegram rejecting the message
// over HTML entity parsing, the only failure that warrants the plain-text
// fallback.
func IsEntityParseError(err error) bool {
	return err != nil && strings.Contains(err.Error(), entityParseMarker)
}
