package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lottobot/pkg/logger"
	"lottobot/pkg/lottery"
)

// TelegramNotifier mirrors the Slack dispatcher over a Telegram bot. The
// top-up prompt becomes an inline keyboard with one URL button.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// NewTelegramNotifier validates the token via an API call and returns a
// ready notifier. Returns (nil, nil) when token is empty (Telegram not
// configured).
func NewTelegramNotifier(token string, chatID int64, log *logger.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = false

	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
		log:    log,
	}, nil
}

// SendText sends a plain message to the configured chat.
func (t *TelegramNotifier) SendText(_ context.Context, message string) error {
	if t.chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, header(message))
	_, err := t.api.Send(msg)
	return err
}

// SendTopUpPrompt sends the insufficient-balance message with a button
// opening the funding page.
func (t *TelegramNotifier) SendTopUpPrompt(_ context.Context) error {
	if t.chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, header(topUpText))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(topUpButton, lottery.PaymentURL),
		),
	)
	_, err := t.api.Send(msg)
	return err
}
