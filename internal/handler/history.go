package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/domain"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	active, ok := h.conversations.Get(chatID).Active()
	if !ok {
		tg.SendText(ctx, b, chatID, "No analysis is open. Use /sessions or /new.", nil)
		return
	}

	if err := tg.SendLongMessage(ctx, b, chatID, formatHistory(active), nil); err != nil {
		slog.Error("send history", "error", err, "chat_id", chatID)
	}
}

// formatHistory renders a session transcript as plain text.
func formatHistory(s domain.ChatSession) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛰 %s\n", s.Title)

	if len(s.Messages) == 0 {
		sb.WriteString("\nNo messages yet.")
		return sb.String()
	}

	for _, m := range s.Messages {
		who := "🧑 You"
		if m.Role == domain.RoleAssistant {
			who = "🤖 Assistant"
		}
		fmt.Fprintf(&sb, "\n%s · %s\n", who, m.CreatedAt.Format("15:04"))
		if m.Content != "" {
			sb.WriteString(m.Content)
			sb.WriteString("\n")
		}
		for _, a := range m.Attachments {
			fmt.Fprintf(&sb, "📎 %s\n", a.Name)
		}
	}

	if s.Pending != nil {
		sb.WriteString("\n⏳ Waiting for a GSD value.")
	}
	return strings.TrimRight(sb.String(), "\n")
}
