package domain

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageRef is a displayable image reference, a data: URL.
type ImageRef string

// ImageBlob is the raw image a user uploaded.
type ImageBlob struct {
	Name     string
	MIMEType string
	Data     []byte
}

type Attachment struct {
	ID         string
	Name       string
	MIMEType   string
	Size       int64
	URL        ImageRef
	PreviewURL ImageRef

	// File is set only for images the user is uploading in the current turn.
	File *ImageBlob
}

// Preview returns the reference an overlay should be drawn on.
func (a *Attachment) Preview() ImageRef {
	if a.PreviewURL != "" {
		return a.PreviewURL
	}
	return a.URL
}

type Message struct {
	ID          string
	Role        Role
	Content     string
	CreatedAt   time.Time
	Attachments []Attachment
}

// PendingClarification is a question parked until the user supplies a GSD value.
type PendingClarification struct {
	Question string
	Image    *ImageBlob
	Preview  ImageRef
}

type ChatSession struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Messages  []Message

	LastImage   *ImageBlob
	LastPreview ImageRef

	Pending *PendingClarification
}

// Snapshot returns a copy that shares no mutable slices with s.
func (s *ChatSession) Snapshot() ChatSession {
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}
