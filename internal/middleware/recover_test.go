package middleware

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover_ReportsPanic(t *testing.T) {
	var reported error
	h := Recover(func(_ context.Context, err error) { reported = err })(
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			panic("boom")
		},
	)

	assert.NotPanics(t, func() {
		h(context.Background(), nil, &models.Update{Message: &models.Message{Chat: models.Chat{ID: 3}}})
	})
	require.Error(t, reported)
	assert.Contains(t, reported.Error(), "boom")
	assert.Contains(t, reported.Error(), "chat 3")
}
