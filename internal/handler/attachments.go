package handler

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
	"github.com/set-night/skyvqa/internal/overlay"
	tg "github.com/set-night/skyvqa/internal/telegram"
)

// imageFile identifies the upload in a message, if any.
type imageFile struct {
	fileID   string
	name     string
	mimeType string
	size     int64
}

// pickImage returns the largest photo size or the attached document.
func pickImage(msg *models.Message) (imageFile, bool) {
	if n := len(msg.Photo); n > 0 {
		p := msg.Photo[n-1]
		return imageFile{
			fileID:   p.FileID,
			name:     p.FileUniqueID + ".jpg",
			mimeType: "image/jpeg",
			size:     int64(p.FileSize),
		}, true
	}
	if d := msg.Document; d != nil {
		return imageFile{
			fileID:   d.FileID,
			name:     d.FileName,
			mimeType: d.MimeType,
			size:     int64(d.FileSize),
		}, true
	}
	return imageFile{}, false
}

// downloadAttachment fetches the file from Telegram and wraps it for a turn.
func downloadAttachment(ctx context.Context, b *bot.Bot, f imageFile) (domain.Attachment, error) {
	if f.size > config.MaxImageSize {
		return domain.Attachment{}, tg.ErrFileTooLarge
	}
	if f.mimeType != "" && !isImageType(f.mimeType) {
		return domain.Attachment{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, f.mimeType)
	}

	data, remoteName, err := tg.DownloadFile(ctx, b, f.fileID, config.MaxImageSize)
	if err != nil {
		return domain.Attachment{}, err
	}

	name := f.name
	if name == "" {
		name = remoteName
	}
	return buildAttachment(name, f.mimeType, data)
}

// buildAttachment checks that data is an image and makes the upload
// attachment with its binary handle and a data: URL preview.
func buildAttachment(name, declaredType string, data []byte) (domain.Attachment, error) {
	if len(data) == 0 {
		return domain.Attachment{}, fmt.Errorf("%w: empty file", domain.ErrUnsupportedImage)
	}
	if len(data) > config.MaxImageSize {
		return domain.Attachment{}, tg.ErrFileTooLarge
	}

	mimeType := http.DetectContentType(data)
	if !isImageType(mimeType) {
		// Formats the sniffer does not know (TIFF) keep the declared type.
		if !isImageType(declaredType) || !strings.HasPrefix(mimeType, "application/octet-stream") {
			return domain.Attachment{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mimeType)
		}
		mimeType = declaredType
	}
	if name == "" {
		name = "image" + extensionFor(mimeType)
	}

	ref := overlay.EncodeDataURL(mimeType, data)
	return domain.Attachment{
		ID:         uuid.NewString(),
		Name:       name,
		MIMEType:   mimeType,
		Size:       int64(len(data)),
		URL:        ref,
		PreviewURL: ref,
		File: &domain.ImageBlob{
			Name:     name,
			MIMEType: mimeType,
			Data:     data,
		},
	}, nil
}

func isImageType(t string) bool {
	mediaType, _, err := mime.ParseMediaType(t)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

func extensionFor(mimeType string) string {
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// attachmentNotice is the user-facing text for an upload that was refused.
func attachmentNotice(err error) string {
	switch {
	case errors.Is(err, tg.ErrFileTooLarge):
		return fmt.Sprintf("📦 The image is too large. The limit is %d MB.", config.MaxImageSize/(1024*1024))
	case errors.Is(err, domain.ErrUnsupportedImage):
		return "🖼 Please send an image (JPEG, PNG, GIF, BMP, TIFF or WebP)."
	default:
		return "❌ Could not download the image. Please try again."
	}
}
