package handler

import (
	"github.com/go-telegram/bot"

	"github.com/set-night/skyvqa/internal/service"
	"github.com/set-night/skyvqa/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot           *bot.Bot
	conversations *service.Conversations
	identities    *service.IdentityService
	tgLogger      *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot           *bot.Bot
	Conversations *service.Conversations
	Identities    *service.IdentityService
	TgLogger      *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:           deps.Bot,
		conversations: deps.Conversations,
		identities:    deps.Identities,
		tgLogger:      deps.TgLogger,
	}
}
