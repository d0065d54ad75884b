package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/set-night/skyvqa/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, h.handleNew)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/end", bot.MatchTypePrefix, h.handleNew)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sessions", bot.MatchTypePrefix, h.handleSessions)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypePrefix, h.handleLogout)

	// Sessions callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbNewSession, bot.MatchTypeExact, h.handleNewSession)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbDeleteCurrent, bot.MatchTypeExact, h.handleDeleteCurrentSession)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbDeleteAll, bot.MatchTypeExact, h.handleDeleteAllSessions)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbSwitchSession, bot.MatchTypePrefix, h.handleSwitchSession)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbSessionsPage, bot.MatchTypePrefix, h.handleSessionsPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.NoopCallback, bot.MatchTypeExact, h.handleNoop)

	// Questions: photos, image documents and plain text
	h.bot.RegisterHandlerMatchFunc(IsQuestion, h.HandleMessage)
}

// IsQuestion matches messages that carry a question or an image: anything
// but commands.
func IsQuestion(update *models.Update) bool {
	msg := update.Message
	if msg == nil {
		return false
	}
	if len(msg.Photo) > 0 || msg.Document != nil {
		return true
	}
	text := strings.TrimSpace(msg.Text)
	return text != "" && !strings.HasPrefix(text, "/")
}

// handleNoop acknowledges display-only buttons such as the page indicator.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
