package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
)

// Asker sends one question about an image to the inference backend.
type Asker interface {
	Ask(ctx context.Context, req domain.VQARequest) (*domain.VQAResult, error)
}

// OverlayRenderer draws grounding boxes over an image.
type OverlayRenderer interface {
	Render(ctx context.Context, ref domain.ImageRef, boxes []domain.DetectionBox) (domain.ImageRef, error)
}

// ConversationManager owns the sessions of one chat and runs its turns.
// Callers only ever see snapshots; all mutation goes through its methods.
type ConversationManager struct {
	asker    Asker
	renderer OverlayRenderer
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*domain.ChatSession
	order    []string // newest first
	activeID string
	loading  bool
}

func NewConversationManager(asker Asker, renderer OverlayRenderer, logger *slog.Logger) *ConversationManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationManager{
		asker:    asker,
		renderer: renderer,
		logger:   logger,
		sessions: make(map[string]*domain.ChatSession),
	}
}

// CreateSession puts a new empty session at the head and makes it active.
func (m *ConversationManager) CreateSession() domain.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked().Snapshot()
}

func (m *ConversationManager) createLocked() *domain.ChatSession {
	s := &domain.ChatSession{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     config.DefaultSessionTitle,
		CreatedAt: time.Now(),
	}
	m.sessions[s.ID] = s
	m.order = append([]string{s.ID}, m.order...)
	m.activeID = s.ID
	return s
}

// SelectSession activates the session with id. Unknown ids are ignored.
func (m *ConversationManager) SelectSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	m.activeID = id
	return true
}

// DeleteSession removes a session. Deleting the active one leaves no
// session active; nothing is reselected.
func (m *ConversationManager) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	if m.activeID == id {
		m.activeID = ""
	}
	return nil
}

// ClearConversations drops every session.
func (m *ConversationManager) ClearConversations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*domain.ChatSession)
	m.order = nil
	m.activeID = ""
}

// Sessions lists all sessions, newest first.
func (m *ConversationManager) Sessions() []domain.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ChatSession, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sessions[id].Snapshot())
	}
	return out
}

// Active returns the active session, if any.
func (m *ConversationManager) Active() (domain.ChatSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.activeLocked()
	if s == nil {
		return domain.ChatSession{}, false
	}
	return s.Snapshot(), true
}

// Messages returns the history of the active session.
func (m *ConversationManager) Messages() []domain.Message {
	s, ok := m.Active()
	if !ok {
		return nil
	}
	return s.Messages
}

// IsLoading reports whether a turn is waiting on the backend.
func (m *ConversationManager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *ConversationManager) activeLocked() *domain.ChatSession {
	if m.activeID == "" {
		return nil
	}
	return m.sessions[m.activeID]
}

// SendMessage runs one conversational turn on the active session and
// returns the assistant message it appended, if any.
//
// Without an active session a new one is created and the message is dropped
// (ErrNoActiveSession). A turn that has no image to work with returns
// ErrImageRequired before any backend call.
func (m *ConversationManager) SendMessage(ctx context.Context, text string, attachments []domain.Attachment) (*domain.Message, error) {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil, domain.ErrTurnInProgress
	}

	s := m.activeLocked()
	if s == nil {
		created := m.createLocked()
		m.mu.Unlock()
		m.logger.Info("no active session, created one and dropped message", "session_id", created.ID)
		return nil, domain.ErrNoActiveSession
	}
	sessionID := s.ID

	// Numeric reply to a pending GSD request.
	if s.Pending != nil && len(attachments) == 0 {
		if gsd, ok := ParseGSD(text); ok {
			pending := s.Pending
			s.Pending = nil
			m.loading = true
			m.mu.Unlock()
			defer m.finishTurn()

			m.logger.Info("answering gsd clarification", "session_id", sessionID, "gsd", gsd.String())
			result, err := m.asker.Ask(ctx, domain.VQARequest{
				Image:     pending.Image,
				Question:  pending.Question,
				QueryType: config.QueryTypeAuto,
				GSD:       gsd.String(),
			})
			if err != nil {
				return nil, fmt.Errorf("ask backend with gsd: %w", err)
			}

			preview := pending.Preview
			if preview == "" {
				preview = m.lastPreview(sessionID)
			}
			return m.handleNormalResult(ctx, sessionID, result, preview), nil
		}
	}

	userMsg := domain.Message{
		ID:          uuid.NewString(),
		Role:        domain.RoleUser,
		Content:     text,
		CreatedAt:   time.Now(),
		Attachments: cloneAttachments(attachments),
	}
	s.Messages = append(s.Messages, userMsg)
	if len(s.Messages) == 1 {
		s.Title = SessionTitle(text)
	}

	var (
		image   *domain.ImageBlob
		preview domain.ImageRef
	)
	if upload := firstUpload(attachments); upload != nil {
		image = upload.File
		preview = upload.Preview()
		s.LastImage = image
		s.LastPreview = preview
	} else if s.LastImage != nil {
		image = s.LastImage
		preview = s.LastPreview
	} else {
		m.mu.Unlock()
		return nil, domain.ErrImageRequired
	}

	m.loading = true
	m.mu.Unlock()
	defer m.finishTurn()

	result, err := m.asker.Ask(ctx, domain.VQARequest{
		Image:     image,
		Question:  text,
		QueryType: config.QueryTypeAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("ask backend: %w", err)
	}

	if result.MissingGSD() {
		prompt := strings.TrimSpace(result.Answer)
		if prompt == "" {
			prompt = config.DefaultGSDPrompt
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		s, ok := m.sessions[sessionID]
		if !ok {
			m.logger.Warn("session removed during turn, dropping gsd request", "session_id", sessionID)
			return nil, nil
		}
		s.Pending = &domain.PendingClarification{
			Question: text,
			Image:    image,
			Preview:  preview,
		}
		msg := newAssistantMessage(prompt, nil)
		s.Messages = append(s.Messages, msg)
		return &msg, nil
	}

	return m.handleNormalResult(ctx, sessionID, result, preview), nil
}

func (m *ConversationManager) finishTurn() {
	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

func (m *ConversationManager) lastPreview(sessionID string) domain.ImageRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s.LastPreview
	}
	return ""
}

// handleNormalResult turns a backend answer into the assistant message.
// Grounding problems are logged and never fail the turn.
func (m *ConversationManager) handleNormalResult(ctx context.Context, sessionID string, result *domain.VQAResult, preview domain.ImageRef) *domain.Message {
	if result == nil {
		result = &domain.VQAResult{}
	}
	parsed := ClassifyDetections(result)
	boxes, err := parsed.Boxes()
	if err != nil {
		m.logger.Error("grounding parsing failed", "session_id", sessionID, "error", err)
		boxes = nil
	}

	content := strings.TrimSpace(result.Answer)
	var attachments []domain.Attachment

	if len(boxes) > 0 && preview != "" {
		rendered, err := m.renderer.Render(ctx, preview, boxes)
		if err != nil {
			m.logger.Error("render grounding overlay", "session_id", sessionID, "boxes", len(boxes), "error", err)
		} else {
			content = config.GroundedCaption
			attachments = []domain.Attachment{{
				ID:         uuid.NewString(),
				Name:       config.GroundedImageName,
				MIMEType:   "image/png",
				URL:        rendered,
				PreviewURL: rendered,
			}}
		}
	}

	msg := newAssistantMessage(content, attachments)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.logger.Warn("session removed during turn, dropping answer", "session_id", sessionID)
		return nil
	}
	s.Messages = append(s.Messages, msg)
	return &msg
}

// SessionTitle derives a title from the first message: 30 characters,
// followed by "..." when cut.
func SessionTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= config.TitleMaxLen {
		return text
	}
	return string(runes[:config.TitleMaxLen]) + config.TitleEllipsis
}

func newAssistantMessage(content string, attachments []domain.Attachment) domain.Message {
	return domain.Message{
		ID:          uuid.NewString(),
		Role:        domain.RoleAssistant,
		Content:     content,
		CreatedAt:   time.Now(),
		Attachments: attachments,
	}
}

func firstUpload(attachments []domain.Attachment) *domain.Attachment {
	for i := range attachments {
		if attachments[i].File != nil {
			return &attachments[i]
		}
	}
	return nil
}

func cloneAttachments(attachments []domain.Attachment) []domain.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	return append([]domain.Attachment(nil), attachments...)
}
