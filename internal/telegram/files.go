package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-telegram/bot"
)

var ErrFileTooLarge = errors.New("file too large")

// DownloadFile downloads a file from Telegram by file ID. At most maxSize
// bytes are read; larger files are an error. It returns the data and the
// base name of the file on Telegram's side.
func DownloadFile(ctx context.Context, b *bot.Bot, fileID string, maxSize int64) ([]byte, string, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}
	if maxSize > 0 && file.FileSize > maxSize {
		return nil, "", fmt.Errorf("file is %d bytes, limit %d: %w", file.FileSize, maxSize, ErrFileTooLarge)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download file: HTTP %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, maxSize)
	if err != nil {
		return nil, "", err
	}
	return data, path.Base(file.FilePath), nil
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read file data: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
