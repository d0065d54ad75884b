package handler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
	"github.com/set-night/skyvqa/internal/overlay"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestIsQuestion(t *testing.T) {
	tests := []struct {
		name string
		msg  *models.Message
		want bool
	}{
		{"nil message", nil, false},
		{"text", &models.Message{Text: "how many ships?"}, true},
		{"blank text", &models.Message{Text: "   "}, false},
		{"command", &models.Message{Text: "/sessions"}, false},
		{"photo", &models.Message{Photo: []models.PhotoSize{{FileID: "p"}}}, true},
		{"document", &models.Message{Document: &models.Document{FileID: "d"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuestion(&models.Update{Message: tt.msg}))
		})
	}
}

func TestPickImage(t *testing.T) {
	f, ok := pickImage(&models.Message{Photo: []models.PhotoSize{
		{FileID: "small", FileUniqueID: "s"},
		{FileID: "large", FileUniqueID: "l"},
	}})
	require.True(t, ok)
	assert.Equal(t, "large", f.fileID)
	assert.Equal(t, "l.jpg", f.name)
	assert.Equal(t, "image/jpeg", f.mimeType)

	f, ok = pickImage(&models.Message{Document: &models.Document{FileID: "doc", FileName: "scene.tif", MimeType: "image/tiff"}})
	require.True(t, ok)
	assert.Equal(t, "scene.tif", f.name)
	assert.Equal(t, "image/tiff", f.mimeType)

	_, ok = pickImage(&models.Message{Text: "hi"})
	assert.False(t, ok)
}

func TestBuildAttachment(t *testing.T) {
	data := pngBytes(t)

	att, err := buildAttachment("harbor.png", "", data)
	require.NoError(t, err)
	assert.Equal(t, "harbor.png", att.Name)
	assert.Equal(t, "image/png", att.MIMEType)
	assert.Equal(t, int64(len(data)), att.Size)
	assert.NotEmpty(t, att.ID)
	require.NotNil(t, att.File)
	assert.Equal(t, data, att.File.Data)
	assert.Equal(t, att.URL, att.PreviewURL)

	mimeType, decoded, err := overlay.DecodeDataURL(att.Preview())
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, data, decoded)
}

func TestBuildAttachment_NamesUnnamedUploads(t *testing.T) {
	att, err := buildAttachment("", "", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image.png", att.Name)
}

func TestBuildAttachment_TrustsDeclaredTypeForUnsniffableImages(t *testing.T) {
	tiff := []byte("II*\x00\x08\x00\x00\x00")
	att, err := buildAttachment("scene.tif", "image/tiff", tiff)
	require.NoError(t, err)
	assert.Equal(t, "image/tiff", att.MIMEType)

	_, err = buildAttachment("blob.bin", "", tiff)
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
}

func TestBuildAttachment_RejectsNonImages(t *testing.T) {
	_, err := buildAttachment("notes.png", "image/png", []byte("just some text"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)

	_, err = buildAttachment("empty.png", "image/png", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
}

func TestAttachmentNotice(t *testing.T) {
	assert.Contains(t, attachmentNotice(tg.ErrFileTooLarge), "20 MB")
	assert.Contains(t, attachmentNotice(fmt.Errorf("x: %w", domain.ErrUnsupportedImage)), "send an image")
	assert.Contains(t, attachmentNotice(errors.New("timeout")), "Could not download")
}

func TestTurnNotice(t *testing.T) {
	notice, ok := turnNotice(domain.ErrImageRequired)
	assert.True(t, ok)
	assert.Equal(t, config.MissingImageAlert, notice)

	_, ok = turnNotice(fmt.Errorf("wrapped: %w", domain.ErrNoActiveSession))
	assert.True(t, ok)

	notice, ok = turnNotice(domain.ErrTurnInProgress)
	assert.True(t, ok)
	assert.Equal(t, turnInProgressNotice, notice)

	_, ok = turnNotice(&domain.BackendError{StatusCode: 502})
	assert.False(t, ok, "backend errors stay silent")
}

func makeSessions(n int) []domain.ChatSession {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]domain.ChatSession, n)
	for i := range out {
		out[i] = domain.ChatSession{
			ID:        fmt.Sprintf("s%d", i),
			Title:     fmt.Sprintf("Analysis %d", i),
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestSessionsView_FirstPage(t *testing.T) {
	text, kb := sessionsView(makeSessions(7), "s1", 0)

	assert.Contains(t, text, "Analyses (7)")
	rows := kb.InlineKeyboard
	require.Len(t, rows, config.SessionsPerPage+2)

	assert.Equal(t, "switch_session_s0", rows[0][0].CallbackData)
	assert.Equal(t, "✅ Analysis 1 · 01.06 09:00", rows[1][0].Text)
	assert.False(t, strings.HasPrefix(rows[0][0].Text, "✅"))

	actions := rows[config.SessionsPerPage]
	require.Len(t, actions, 3)
	assert.Equal(t, cbNewSession, actions[0].CallbackData)
	assert.Equal(t, cbDeleteCurrent, actions[1].CallbackData)
	assert.Equal(t, cbDeleteAll, actions[2].CallbackData)

	pager := rows[config.SessionsPerPage+1]
	assert.Equal(t, "1/2", pager[0].Text)
	assert.Equal(t, "sessions_page_1", pager[1].CallbackData)
}

func TestSessionsView_ClampsPageAndHidesDeleteWithoutActive(t *testing.T) {
	text, kb := sessionsView(makeSessions(7), "", 9)

	assert.Contains(t, text, "No analysis is open")
	rows := kb.InlineKeyboard
	require.Len(t, rows, 2+2)
	assert.Equal(t, "switch_session_s5", rows[0][0].CallbackData)
	assert.Equal(t, "switch_session_s6", rows[1][0].CallbackData)

	actions := rows[2]
	require.Len(t, actions, 2)
	assert.Equal(t, cbNewSession, actions[0].CallbackData)
	assert.Equal(t, cbDeleteAll, actions[1].CallbackData)
}

func TestSessionsView_Empty(t *testing.T) {
	_, kb := sessionsView(nil, "", 0)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 1)
	assert.Equal(t, cbNewSession, kb.InlineKeyboard[0][0].CallbackData)
}

func TestFormatHistory(t *testing.T) {
	at := time.Date(2024, 6, 1, 14, 5, 0, 0, time.UTC)
	s := domain.ChatSession{
		Title: "Count the aircraft",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "Count the aircraft", CreatedAt: at, Attachments: []domain.Attachment{{Name: "apron.jpg"}}},
			{Role: domain.RoleAssistant, Content: "Grounded outputs", CreatedAt: at, Attachments: []domain.Attachment{{Name: "grounded.png"}}},
			{Role: domain.RoleUser, Content: "Area of the apron?", CreatedAt: at},
			{Role: domain.RoleAssistant, Content: "Please enter GSD value.", CreatedAt: at},
		},
		Pending: &domain.PendingClarification{Question: "Area of the apron?"},
	}

	want := "🛰 Count the aircraft\n" +
		"\n🧑 You · 14:05\nCount the aircraft\n📎 apron.jpg\n" +
		"\n🤖 Assistant · 14:05\nGrounded outputs\n📎 grounded.png\n" +
		"\n🧑 You · 14:05\nArea of the apron?\n" +
		"\n🤖 Assistant · 14:05\nPlease enter GSD value.\n" +
		"\n⏳ Waiting for a GSD value."
	assert.Equal(t, want, formatHistory(s))
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Equal(t, "🛰 New Analysis\n\nNo messages yet.", formatHistory(domain.ChatSession{Title: "New Analysis"}))
}

func TestWelcomeText(t *testing.T) {
	text := welcomeText((*domain.Identity)(nil).DisplayName())
	assert.True(t, strings.HasPrefix(text, "👋 Hello, there!"))
	assert.Contains(t, text, "/sessions")
}
