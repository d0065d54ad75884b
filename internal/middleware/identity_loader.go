package middleware

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/skyvqa/internal/domain"
	"github.com/set-night/skyvqa/internal/service"
)

type ctxKey string

const IdentityKey ctxKey = "identity"

// GetIdentity extracts the signed-in identity from context.
func GetIdentity(ctx context.Context) *domain.Identity {
	id, ok := ctx.Value(IdentityKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return id
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// SignInFunc is called once per newly created identity.
type SignInFunc func(ctx context.Context, id *domain.Identity)

// IdentityLoader signs the sender in on first contact and puts the identity
// into the handler context.
func IdentityLoader(identities *service.IdentityService, onSignIn SignInFunc) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			from := sender(update)
			if from == nil {
				next(ctx, b, update)
				return
			}

			fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)
			id, created := identities.FindOrCreate(ctx, from.ID, fullName, from.Username)
			if created && onSignIn != nil {
				onSignIn(ctx, id)
			}

			next(WithIdentity(ctx, id), b, update)
		}
	}
}

func sender(update *models.Update) *models.User {
	switch {
	case update.Message != nil:
		return update.Message.From
	case update.CallbackQuery != nil:
		return &update.CallbackQuery.From
	default:
		return nil
	}
}
