package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// PanicReporter receives recovered panics, e.g. to forward them to an admin chat.
type PanicReporter func(ctx context.Context, err error)

// Recover returns middleware that recovers from panics.
func Recover(report PanicReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					updateType, chatID, _ := describe(update)
					slog.Error("panic recovered in handler",
						"panic", r,
						"type", updateType,
						"chat_id", chatID,
						"stack", string(debug.Stack()),
					)
					if report != nil {
						report(ctx, fmt.Errorf("panic in %s handler (chat %d): %v", updateType, chatID, r))
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
