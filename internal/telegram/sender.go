package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/config"
)

// Telegram caps photo captions well below the message limit.
const MaxCaptionLen = 1024

// SendLongMessage sends plain text, split into several messages if needed.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, replyToID *int) error {
	for _, part := range SplitMessage(text, config.MaxTelegramMessageLen) {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		if replyToID != nil {
			params.ReplyParameters = &models.ReplyParameters{
				MessageID:                *replyToID,
				AllowSendingWithoutReply: true,
			}
			replyToID = nil // only reply to first part
		}

		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SendText sends a short notice, logging instead of returning failures.
func SendText(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		slog.Warn("failed to send message", "error", err, "chat_id", chatID)
	}
}

// StartTyping sends "typing..." action every 4 seconds until the returned cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		for {
			b.SendChatAction(ctx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionUploadPhoto,
			})
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}

// SendImage uploads an encoded image as a photo. Telegram rejects some images
// as photos (size, aspect ratio), so those are retried as a document.
// Captions longer than MaxCaptionLen follow as a separate text message.
func SendImage(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte, caption string) error {
	photoCaption, rest := caption, ""
	if len([]rune(caption)) > MaxCaptionLen {
		photoCaption, rest = "", caption
	}

	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption: photoCaption,
	})
	if err != nil {
		slog.Warn("send photo failed, falling back to document", "error", err, "chat_id", chatID)
		_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
			Caption:  photoCaption,
		})
		if err != nil {
			return fmt.Errorf("send document: %w", err)
		}
	}

	if rest != "" {
		return SendLongMessage(ctx, b, chatID, rest, nil)
	}
	return nil
}
