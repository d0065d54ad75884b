package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
)

// TelegramLogger mirrors notable events into topics of an admin chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError  LogType = "error"
	LogTypeSignIn LogType = "signIn"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	message = Truncate(message, config.MaxTelegramMessageLen, "\n\n... (truncated)")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, where string) {
	l.Log(LogTypeError, formatError(err, where, time.Now()))
}

func (l *TelegramLogger) LogSignIn(id *domain.Identity) {
	l.Log(LogTypeSignIn, formatSignIn(id))
}

func formatError(err error, where string, at time.Time) string {
	return fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		where, err.Error(), at.Format("2006-01-02 15:04:05"))
}

func formatSignIn(id *domain.Identity) string {
	msg := fmt.Sprintf("👤 Sign-in\n\nID: %d\nName: %s", id.TelegramID, id.FullName)
	if id.Username != "" {
		msg += "\nUsername: @" + id.Username
	}
	return msg
}

func (l *TelegramLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeSignIn:
		return l.cfg.LogTopicSignIn
	default:
		return 0
	}
}
