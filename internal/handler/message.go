package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
	"github.com/set-night/skyvqa/internal/overlay"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

// HandleMessage runs one conversational turn for a photo, image document
// or text message.
func (h *Handler) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	text := strings.TrimSpace(msg.Text)
	if msg.Caption != "" {
		text = strings.TrimSpace(msg.Caption)
	}

	// 1. Collect the upload
	var attachments []domain.Attachment
	if f, ok := pickImage(msg); ok {
		att, err := downloadAttachment(ctx, b, f)
		if err != nil {
			slog.Warn("image rejected", "error", err, "chat_id", chatID)
			tg.SendText(ctx, b, chatID, attachmentNotice(err), nil)
			return
		}
		attachments = append(attachments, att)
	}

	if text == "" && len(attachments) == 0 {
		return
	}

	m := h.conversations.Get(chatID)

	// 2. Ask, with an upload indicator while the backend works
	stopTyping := tg.StartTyping(ctx, b, chatID)
	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	reply, err := m.SendMessage(reqCtx, text, attachments)
	cancel()
	stopTyping()

	if err != nil {
		if notice, ok := turnNotice(err); ok {
			tg.SendText(ctx, b, chatID, notice, nil)
			return
		}
		// Backend failures are not shown to the user.
		slog.Error("vqa turn failed", "error", err, "chat_id", chatID)
		h.tgLogger.LogError(err, fmt.Sprintf("vqa turn, chat %d", chatID))
		return
	}
	if reply == nil {
		return
	}

	// 3. Deliver the assistant message
	if err := deliver(ctx, b, chatID, msg.ID, reply); err != nil {
		slog.Error("deliver answer", "error", err, "chat_id", chatID)
	}
}

const turnInProgressNotice = "⏳ Please wait for the current answer."

// turnNotice maps turn errors the user should hear about to their text.
func turnNotice(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrImageRequired):
		return config.MissingImageAlert, true
	case errors.Is(err, domain.ErrNoActiveSession):
		return "🆕 No analysis was open, so a new one was started. Please send your message again.", true
	case errors.Is(err, domain.ErrTurnInProgress):
		return turnInProgressNotice, true
	default:
		return "", false
	}
}

// deliver sends an assistant message: its rendered image with the content as
// caption, or plain text.
func deliver(ctx context.Context, b *bot.Bot, chatID int64, replyTo int, reply *domain.Message) error {
	for _, att := range reply.Attachments {
		_, data, err := overlay.DecodeDataURL(att.URL)
		if err != nil {
			slog.Error("decode rendered image", "error", err, "chat_id", chatID)
			continue
		}
		return tg.SendImage(ctx, b, chatID, att.Name, data, reply.Content)
	}

	content := reply.Content
	if content == "" {
		content = "🤷 The model returned no answer."
	}
	return tg.SendLongMessage(ctx, b, chatID, content, &replyTo)
}
