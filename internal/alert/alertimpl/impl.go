package alertimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"

	"github.com/vankhoa205/tweet-extractor-service/internal/alert"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// TelegramImpl delivers alerts to a Telegram chat.
type TelegramImpl struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger logger.Logger
}

var _ alert.Client = (*TelegramImpl)(nil)

// New builds the Telegram alerter, or a noop one when no credentials are
// configured. Callers never see a nil client.
func New(opts Opts) (alert.Client, error) {
	log := opts.Logger.WithComponent("alert")

	if opts.Config.Telegram.Token == "" || opts.Config.Telegram.ChatID == 0 {
		log.Info("Telegram alerting disabled, no credentials configured")
		return Noop{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		log.Error("Error creating Telegram bot", "error", err)
		return nil, err
	}

	log.Info("Telegram alerting enabled", "chat_id", opts.Config.Telegram.ChatID)
	return &TelegramImpl{
		bot:    bot,
		chatID: opts.Config.Telegram.ChatID,
		logger: log,
	}, nil
}

func (t *TelegramImpl) Send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Error sending alert", "chat_id", t.chatID, "error", err)
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}

// Noop swallows alerts when alerting is not configured.
type Noop struct{}

var _ alert.Client = Noop{}

func (Noop) Send(string) error { return nil }
