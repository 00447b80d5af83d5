package telegramimpl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/telegram"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot     *tgbotapi.BotAPI
	StaffChat int64
	Logger    logger.Logger
}

var _ telegram.Client = (*TelegramImpl)(nil)

// New returns a Noop client when no bot token or staff chat is configured.
func New(opts Opts) (telegram.Client, error) {
	cfg := opts.Config.Telegram
	log := opts.Logger.WithComponent("Telegram")

	if cfg.Token == "" || cfg.StaffChat == 0 {
		log.Warn("Telegram is not configured, staff notifications are disabled")
		return &Noop{Logger: log}, nil
	}

	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	tgBot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, httpClient)
	if err != nil {
		log.Error("Error creating bot", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramImpl{
		TgBot:     tgBot,
		StaffChat: cfg.StaffChat,
		Logger:    log,
	}, nil
}

// Noop drops every notification.
type Noop struct {
	Logger logger.Logger
}

var _ telegram.Client = (*Noop)(nil)

func (n *Noop) NotifyStaff(ctx context.Context, text string) error {
	n.Logger.Debug("Dropping staff notification", "text", text)
	return nil
}

func (n *Noop) SendListing(ctx context.Context, listing domain.ExtractedListing) error {
	n.Logger.Debug("Dropping listing notification", "id", listing.ID)
	return nil
}
