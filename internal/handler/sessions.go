package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

const (
	cbNewSession    = "new_session"
	cbDeleteCurrent = "delete_current"
	cbDeleteAll     = "delete_all"
	cbSwitchSession = "switch_session_"
	cbSessionsPage  = "sessions_page_"
)

func (h *Handler) handleSessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.sendSessionsPage(ctx, b, chatID, 0, 0)
}

// sendSessionsPage sends the session list, or edits messageID in place when set.
func (h *Handler) sendSessionsPage(ctx context.Context, b *bot.Bot, chatID int64, page int, messageID int) {
	m := h.conversations.Get(chatID)
	activeID := ""
	if active, ok := m.Active(); ok {
		activeID = active.ID
	}

	text, keyboard := sessionsView(m.Sessions(), activeID, page)

	if messageID != 0 {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
		if err == nil {
			return
		}
		slog.Debug("edit sessions message failed, sending new one", "error", err)
	}
	tg.SendText(ctx, b, chatID, text, keyboard)
}

// sessionsView renders one page of the session list, newest first.
func sessionsView(sessions []domain.ChatSession, activeID string, page int) (string, *models.InlineKeyboardMarkup) {
	totalPages := (len(sessions) + config.SessionsPerPage - 1) / config.SessionsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	page = min(max(page, 0), totalPages-1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📂 Analyses (%d)\n\n", len(sessions))
	if activeID == "" {
		sb.WriteString("No analysis is open. Pick one below or start a new one.")
	} else {
		sb.WriteString("✅ marks the open analysis.")
	}

	var rows [][]models.InlineKeyboardButton

	start := page * config.SessionsPerPage
	end := min(start+config.SessionsPerPage, len(sessions))
	for _, s := range sessions[start:end] {
		label := fmt.Sprintf("%s · %s", s.Title, s.CreatedAt.Format("02.01 15:04"))
		if s.ID == activeID {
			label = "✅ " + label
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, cbSwitchSession+s.ID)))
	}

	actions := []models.InlineKeyboardButton{tg.InlineButton("➕ New", cbNewSession)}
	if activeID != "" {
		actions = append(actions, tg.InlineButton("🗑 Current", cbDeleteCurrent))
	}
	if len(sessions) > 0 {
		actions = append(actions, tg.InlineButton("🗑 All", cbDeleteAll))
	}
	rows = append(rows, actions)

	if pageRow := tg.PaginationRow(page, totalPages, cbSessionsPage); pageRow != nil {
		rows = append(rows, pageRow)
	}

	return sb.String(), tg.InlineKeyboard(rows...)
}

// callbackTarget acknowledges the callback and returns where to redraw the list.
func callbackTarget(ctx context.Context, b *bot.Bot, update *models.Update) (chatID int64, messageID int, ok bool) {
	if update.CallbackQuery == nil {
		return 0, 0, false
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return 0, 0, false
	}
	return msg.Chat.ID, msg.ID, true
}

func (h *Handler) handleNewSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackTarget(ctx, b, update)
	if !ok {
		return
	}
	h.conversations.Get(chatID).CreateSession()
	h.sendSessionsPage(ctx, b, chatID, 0, messageID)
}

func (h *Handler) handleDeleteCurrentSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackTarget(ctx, b, update)
	if !ok {
		return
	}

	m := h.conversations.Get(chatID)
	if active, ok := m.Active(); ok {
		if err := m.DeleteSession(active.ID); err != nil {
			slog.Warn("delete session", "error", err, "chat_id", chatID)
		}
	}
	h.sendSessionsPage(ctx, b, chatID, 0, messageID)
}

func (h *Handler) handleDeleteAllSessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackTarget(ctx, b, update)
	if !ok {
		return
	}
	h.conversations.Get(chatID).ClearConversations()
	h.sendSessionsPage(ctx, b, chatID, 0, messageID)
}

func (h *Handler) handleSwitchSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackTarget(ctx, b, update)
	if !ok {
		return
	}

	sessionID := strings.TrimPrefix(update.CallbackQuery.Data, cbSwitchSession)
	if !h.conversations.Get(chatID).SelectSession(sessionID) {
		slog.Debug("switch to unknown session ignored", "chat_id", chatID, "session_id", sessionID)
	}
	h.sendSessionsPage(ctx, b, chatID, 0, messageID)
}

func (h *Handler) handleSessionsPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackTarget(ctx, b, update)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, cbSessionsPage))
	h.sendSessionsPage(ctx, b, chatID, page, messageID)
}
