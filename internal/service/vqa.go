package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
)

const maxErrorSummary = 300

// VQAService talks to the inference backend (normally through the proxy).
type VQAService struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

func NewVQAService(endpoint, username, password string) *VQAService {
	return &VQAService{
		endpoint:   endpoint,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

// Ask posts the image and question as multipart form data and decodes the answer.
func (s *VQAService) Ask(ctx context.Context, req domain.VQARequest) (*domain.VQAResult, error) {
	if req.Image == nil {
		return nil, domain.ErrImageRequired
	}

	body, contentType, err := encodeVQAForm(req)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if s.username != "" || s.password != "" {
		httpReq.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("vqa request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.BackendError{
			StatusCode: resp.StatusCode,
			Summary:    summarizeErrorBody(resp.Header.Get("Content-Type"), respBody),
		}
	}

	var result domain.VQAResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &result, nil
}

func encodeVQAForm(req domain.VQARequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := req.Image.Name
	if name == "" {
		name = "image"
	}
	mimeType := req.Image.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(req.Image.Data)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "image",
		"filename": name,
	}))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Image.Data); err != nil {
		return nil, "", err
	}

	queryType := req.QueryType
	if queryType == "" {
		queryType = config.QueryTypeAuto
	}
	fields := [][2]string{
		{"question", req.Question},
		{"query_type", queryType},
	}
	if req.GSD != "" {
		fields = append(fields, [2]string{"gsd", req.GSD})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// summarizeErrorBody extracts something readable from a failed response:
// the JSON error field, the title and text of an HTML page (tunnel and
// gateway error pages), or the raw body.
func summarizeErrorBody(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)

	if mediaType == "application/json" || trimmed[0] == '{' {
		var payload struct {
			Error  any `json:"error"`
			Detail any `json:"detail"`
		}
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			for _, v := range []any{payload.Error, payload.Detail} {
				if v == nil {
					continue
				}
				if s, ok := v.(string); ok {
					return truncateSummary(s)
				}
				if b, err := json.Marshal(v); err == nil {
					return truncateSummary(string(b))
				}
			}
		}
	}

	if mediaType == "text/html" || bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")) || bytes.HasPrefix(trimmed, []byte("<html")) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
		if err == nil {
			doc.Find("script, style").Remove()
			title := strings.TrimSpace(doc.Find("title").First().Text())
			text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
			switch {
			case title != "" && text != "":
				return truncateSummary(title + ": " + text)
			case title != "":
				return truncateSummary(title)
			case text != "":
				return truncateSummary(text)
			}
		}
	}

	return truncateSummary(string(trimmed))
}

func truncateSummary(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxErrorSummary {
		return s
	}
	return string([]rune(s)[:maxErrorSummary]) + "..."
}
