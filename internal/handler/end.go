package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/middleware"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

// handleNew starts a fresh analysis and makes it active.
func (h *Handler) handleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	s := h.conversations.Get(chatID).CreateSession()
	slog.Debug("session created", "chat_id", chatID, "session_id", s.ID)
	tg.SendText(ctx, b, chatID, "🔄 New analysis started. Send an image with your question.", nil)
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.conversations.Get(chatID).ClearConversations()
	tg.SendText(ctx, b, chatID, "🗑 All analyses deleted. Use /new to start again.", nil)
}

// handleLogout signs the user out and forgets the chat's conversations.
func (h *Handler) handleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if id := middleware.GetIdentity(ctx); id != nil {
		h.identities.SignOut(ctx, id.TelegramID)
	}
	h.conversations.Drop(chatID)
	tg.SendText(ctx, b, chatID, "👋 Signed out. Send /start to begin again.", nil)
}
