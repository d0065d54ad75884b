package service

import (
	"log/slog"
	"sync"
)

// Conversations keeps one ConversationManager per chat for the life of the process.
type Conversations struct {
	asker    Asker
	renderer OverlayRenderer

	mu       sync.Mutex
	managers map[int64]*ConversationManager
}

func NewConversations(asker Asker, renderer OverlayRenderer) *Conversations {
	return &Conversations{
		asker:    asker,
		renderer: renderer,
		managers: make(map[int64]*ConversationManager),
	}
}

// Get returns the chat's manager. A chat seen for the first time starts
// with one fresh session.
func (c *Conversations) Get(chatID int64) *ConversationManager {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.managers[chatID]; ok {
		return m
	}
	m := NewConversationManager(c.asker, c.renderer, slog.Default().With("chat_id", chatID))
	m.CreateSession()
	c.managers[chatID] = m
	return m
}

// Drop forgets everything about a chat.
func (c *Conversations) Drop(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.managers, chatID)
}

func (c *Conversations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.managers)
}
