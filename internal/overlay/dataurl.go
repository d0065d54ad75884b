package overlay

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/set-night/skyvqa/internal/domain"
)

const dataURLScheme = "data:"

// EncodeDataURL wraps raw image bytes into a base64 data: URL.
func EncodeDataURL(mimeType string, data []byte) domain.ImageRef {
	return domain.ImageRef(dataURLScheme + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL returns the media type and payload of a data: URL.
func DecodeDataURL(ref domain.ImageRef) (string, []byte, error) {
	s := string(ref)
	if !strings.HasPrefix(s, dataURLScheme) {
		return "", nil, fmt.Errorf("%w: not a data URL", domain.ErrUnsupportedImage)
	}

	meta, payload, ok := strings.Cut(s[len(dataURLScheme):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URL has no payload", domain.ErrUnsupportedImage)
	}

	isBase64 := strings.HasSuffix(meta, ";base64")
	meta = strings.TrimSuffix(meta, ";base64")
	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" {
		mimeType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode base64 payload: %w", err)
		}
		return mimeType, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("unescape payload: %w", err)
	}
	return mimeType, []byte(unescaped), nil
}
