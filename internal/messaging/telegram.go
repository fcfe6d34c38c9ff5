// Package messaging delivers reminder texts to students over Telegram.
package messaging

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// DeliveryError оборачивает ошибку отправки конкретному получателю
type DeliveryError struct {
	ChatID int64
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver message to %d: %v", e.ChatID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// TelegramSender отправляет Markdown-сообщения через общий экземпляр бота
type TelegramSender struct {
	bot *bot.Bot
}

func NewTelegramSender(b *bot.Bot) *TelegramSender {
	return &TelegramSender{bot: b}
}

// Send отправляет одно сообщение, ответ Telegram не используется
func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}

	return nil
}
