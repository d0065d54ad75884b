package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
)

func TestFormatError(t *testing.T) {
	at := time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC)
	msg := formatError(errors.New("backend returned HTTP 502"), "vqa chat 7", at)
	assert.Equal(t, "❌ Error\n\nContext: vqa chat 7\nError: backend returned HTTP 502\nTime: 2024-03-09 08:07:06", msg)
}

func TestFormatSignIn(t *testing.T) {
	assert.Equal(t, "👤 Sign-in\n\nID: 1\nName: Ann\nUsername: @ann",
		formatSignIn(&domain.Identity{TelegramID: 1, FullName: "Ann", Username: "ann"}))
	assert.Equal(t, "👤 Sign-in\n\nID: 2\nName: Bo",
		formatSignIn(&domain.Identity{TelegramID: 2, FullName: "Bo"}))
}

func TestTelegramLogger_DisabledIsNoop(t *testing.T) {
	l := NewTelegramLogger(nil, &config.Config{})
	assert.NotPanics(t, func() { l.LogError(errors.New("x"), "y") })

	var nilLogger *TelegramLogger
	assert.NotPanics(t, func() { nilLogger.LogSignIn(&domain.Identity{}) })
}
