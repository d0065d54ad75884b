package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/middleware"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

const commandList = "📋 Commands:\n" +
	"/new — Start a new analysis\n" +
	"/sessions — Switch or delete analyses\n" +
	"/history — Show the current conversation\n" +
	"/clear — Delete all analyses\n" +
	"/logout — Sign out and forget everything\n\n" +
	"Send a satellite image with a question as the caption, then keep asking about it. " +
	"If I ask for a GSD value, reply with a number (meters per pixel)."

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	// A chat's first contact creates its manager and first session.
	h.conversations.Get(chatID)

	tg.SendText(ctx, b, chatID, welcomeText(middleware.GetIdentity(ctx).DisplayName()), nil)
}

func welcomeText(name string) string {
	return fmt.Sprintf("👋 Hello, %s!\n\n"+
		"I answer questions about satellite imagery and outline what I find.\n\n%s",
		name, commandList)
}
