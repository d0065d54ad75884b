package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

const rateLimitNotice = "⏳ Too many requests. Please wait a moment."

// ChatLimiter keeps one token bucket per chat.
type ChatLimiter struct {
	mu     sync.Mutex
	limits map[int64]*rate.Limiter
	every  rate.Limit
	burst  int
}

// NewChatLimiter allows perMinute messages per chat, all of which may
// arrive in a burst. perMinute <= 0 disables limiting.
func NewChatLimiter(perMinute int) *ChatLimiter {
	l := &ChatLimiter{limits: make(map[int64]*rate.Limiter)}
	if perMinute <= 0 {
		l.every = rate.Inf
		return l
	}
	l.every = rate.Every(time.Minute / time.Duration(perMinute))
	l.burst = perMinute
	return l
}

func (l *ChatLimiter) limiter(chatID int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limits[chatID]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.every, l.burst)
	l.limits[chatID] = lim
	return lim
}

func (l *ChatLimiter) Allow(chatID int64) bool {
	return l.limiter(chatID).Allow()
}

// RateLimit drops messages from chats that exceed their bucket.
// Callback queries and senders for which exempt reports true are never limited.
func RateLimit(limiter *ChatLimiter, exempt func(telegramID int64) bool) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			if from := update.Message.From; from != nil && exempt != nil && exempt(from.ID) {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   rateLimitNotice,
				}); err != nil {
					slog.Warn("failed to send rate limit notice", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
