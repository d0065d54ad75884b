package service

import (
	"context"
	"sync"
	"time"

	"github.com/set-night/skyvqa/internal/domain"
)

// IdentityService is the local, unverified sign-in record per Telegram user.
// It lives only for the process lifetime.
type IdentityService struct {
	mu         sync.RWMutex
	identities map[int64]*domain.Identity
	now        func() time.Time
}

func NewIdentityService() *IdentityService {
	return &IdentityService{
		identities: make(map[int64]*domain.Identity),
		now:        time.Now,
	}
}

// FindOrCreate returns the stored identity, refreshing its display fields,
// or signs the user in. The bool reports whether a new identity was created.
func (s *IdentityService) FindOrCreate(_ context.Context, telegramID int64, fullName, username string) (*domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.identities[telegramID]; ok {
		if fullName != "" {
			id.FullName = fullName
		}
		id.Username = username
		cp := *id
		return &cp, false
	}

	id := &domain.Identity{
		TelegramID: telegramID,
		FullName:   fullName,
		Username:   username,
		SignedInAt: s.now(),
	}
	s.identities[telegramID] = id
	cp := *id
	return &cp, true
}

func (s *IdentityService) Get(_ context.Context, telegramID int64) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identities[telegramID]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	cp := *id
	return &cp, nil
}

// SignOut forgets the identity. It reports whether one was signed in.
func (s *IdentityService) SignOut(_ context.Context, telegramID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.identities[telegramID]
	delete(s.identities, telegramID)
	return ok
}
