package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/lesson_scheduler/internal/formatting"
	"github.com/Freeeeeet/lesson_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/start - Начать работу с ботом\n" +
	"/lessons - Свободные занятия\n" +
	"/mylessons - Мои занятия\n" +
	"/help - Показать эту справку\n\n" +
	"За 25 минут до начала занятия бот пришлёт напоминание со ссылкой."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.logger.Info("User started bot",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.String("username", update.Message.From.Username))

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Здесь можно посмотреть свободные занятия и своё расписание.\n\n"+
			"/lessons - Свободные занятия\n"+
			"/mylessons - Мои занятия\n"+
			"/help - Справка",
		update.Message.From.FirstName,
	)

	h.send(ctx, b, update.Message.Chat.ID, welcomeText, false)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.send(ctx, b, update.Message.Chat.ID, helpText, false)
}

// HandleLessons показывает свободные занятия
func (h *Handlers) HandleLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	lessons, err := h.lessons.ListAvailable(ctx)
	if err != nil {
		h.logger.Error("Failed to list available lessons", zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить занятия. Попробуйте позже.", false)
		return
	}

	h.send(ctx, b, update.Message.Chat.ID, AvailableLessonsText(lessons, h.location), true)
}

// HandleMyLessons показывает занятия студента, привязанного к этому Telegram-аккаунту
func (h *Handlers) HandleMyLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID

	student, lessons, err := h.lessons.ListForTelegramUser(ctx, telegramID)
	if errors.Is(err, service.ErrStudentNotFound) {
		h.send(ctx, b, update.Message.Chat.ID,
			"🔗 Ваш Telegram не привязан к профилю студента. Обратитесь к учителю.", false)
		return
	}
	if err != nil {
		h.logger.Error("Failed to list student lessons",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить занятия. Попробуйте позже.", false)
		return
	}

	h.send(ctx, b, update.Message.Chat.ID, MyLessonsText(student, lessons, h.location), true)
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markdown bool) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markdown {
		params.ParseMode = models.ParseModeMarkdown
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Warn("Failed to send bot reply",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// escape - короткий алиас для Markdown-экранирования
func escape(s string) string {
	return formatting.EscapeMarkdown(s)
}
