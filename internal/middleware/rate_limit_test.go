package middleware

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestChatLimiter_BurstThenBlock(t *testing.T) {
	l := NewChatLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(1), "message %d", i)
	}
	assert.False(t, l.Allow(1))

	// Buckets are per chat.
	assert.True(t, l.Allow(2))
}

func TestChatLimiter_Disabled(t *testing.T) {
	l := NewChatLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(1))
	}
}

func TestRateLimit_PassesCallbacks(t *testing.T) {
	l := NewChatLimiter(1)
	calls := 0
	h := RateLimit(l, nil)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		calls++
	})

	for i := 0; i < 3; i++ {
		h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{ID: "cb"}})
	}
	assert.Equal(t, 3, calls)
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	l := NewChatLimiter(2)
	calls := 0
	h := RateLimit(l, nil)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		calls++
	})

	msg := &models.Update{Message: &models.Message{Chat: models.Chat{ID: 9}}}
	h(context.Background(), nil, msg)
	h(context.Background(), nil, msg)
	assert.Equal(t, 2, calls)
}

func TestRateLimit_ExemptsAdmins(t *testing.T) {
	l := NewChatLimiter(1)
	calls := 0
	h := RateLimit(l, func(id int64) bool { return id == 77 })(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		calls++
	})

	msg := &models.Update{Message: &models.Message{Chat: models.Chat{ID: 77}, From: &models.User{ID: 77}}}
	for i := 0; i < 5; i++ {
		h(context.Background(), nil, msg)
	}
	assert.Equal(t, 5, calls)
}
