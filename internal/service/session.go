package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
)

// SessionStore owns the chat session list and the active session id. It is
// the only writer of the active id.
type SessionStore struct {
	api      domain.ChatAPI
	notifier notify.Notifier

	// emitMu orders active-id changes with their notifications
	emitMu sync.Mutex

	mu        sync.Mutex
	sessions  []domain.ChatSession
	active    domain.ID
	version   uint64
	issued    uint64
	applied   uint64
	listeners map[int]func(domain.ID)
	nextID    int
}

// NewSessionStore creates a new session store
func NewSessionStore(api domain.ChatAPI, notifier notify.Notifier) *SessionStore {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &SessionStore{
		api:       api,
		notifier:  notifier,
		listeners: make(map[int]func(domain.ID)),
	}
}

// OnActiveChange registers fn to run whenever the active id changes. An
// empty id means no session is active. The returned func removes it.
func (s *SessionStore) OnActiveChange(fn func(domain.ID)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Active returns the active session id
func (s *SessionStore) Active() (domain.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, !s.active.IsZero()
}

// Sessions returns the last listed sessions in server order
func (s *SessionStore) Sessions() []domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Session returns a listed session by id
func (s *SessionStore) Session(id domain.ID) (domain.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.ChatSession{}, false
	}
	return s.sessions[i], true
}

// ListSessions fetches the session list. A listing that raced with a local
// mutation is dropped; the mutation reloads on its own. When the active
// session is missing from a fresh listing it was deleted elsewhere and is
// cleared.
func (s *SessionStore) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	s.mu.Lock()
	s.issued++
	gen, version := s.issued, s.version
	s.mu.Unlock()

	sessions, err := s.api.ListSessions(ctx)
	if err != nil {
		notify.Error(s.notifier, "chat.list", "Could not load your chats", err)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if gen < s.applied || version != s.version {
		current := make([]domain.ChatSession, len(s.sessions))
		copy(current, s.sessions)
		s.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("dropping stale session list")
		return current, nil
	}
	s.applied = gen
	s.sessions = make([]domain.ChatSession, len(sessions))
	copy(s.sessions, sessions)

	var listeners []func(domain.ID)
	if !s.active.IsZero() && s.indexOf(s.active) < 0 {
		log.Info().Str("session_id", s.active.String()).Msg("active session no longer exists")
		s.active = ""
		listeners = s.listenersLocked()
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn("")
	}

	out := make([]domain.ChatSession, len(sessions))
	copy(out, sessions)
	return out, nil
}

// CreateSession starts a new session, makes it active and reloads the list
func (s *SessionStore) CreateSession(ctx context.Context) (*domain.ChatSession, error) {
	created, err := s.api.CreateSession(ctx)
	if err != nil {
		notify.Error(s.notifier, "chat.create", "Could not start a new chat", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.mutate(func() {
		if s.indexOf(created.ID) < 0 {
			s.sessions = append([]domain.ChatSession{*created}, s.sessions...)
		}
	})
	s.setActive(created.ID)
	log.Info().Str("session_id", created.ID.String()).Msg("session created")

	s.reload(ctx)
	return created, nil
}

// Select makes a listed session active
func (s *SessionStore) Select(id domain.ID) error {
	s.mu.Lock()
	known := s.indexOf(id) >= 0
	s.mu.Unlock()

	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	s.setActive(id)
	return nil
}

// RenameSession sets a trimmed title. Nothing is sent when the trimmed title
// is empty or equal to the current one. A session that is already gone is
// reconciled by the reload.
func (s *SessionStore) RenameSession(ctx context.Context, id domain.ID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 && s.sessions[i].Title == title {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if _, err := s.api.RenameSession(ctx, id, title); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info().Str("session_id", id.String()).Msg("renamed session no longer exists")
			s.reload(ctx)
			return nil
		}
		notify.Error(s.notifier, "chat.rename", "Could not rename chat", err)
		return fmt.Errorf("failed to rename session %s: %w", id, err)
	}

	s.mutate(func() {
		if i := s.indexOf(id); i >= 0 {
			s.sessions[i].Title = title
		}
	})
	log.Info().Str("session_id", id.String()).Msg("session renamed")

	s.reload(ctx)
	return nil
}

// DeleteSession removes a session. Deleting the active session clears it as
// soon as the service confirms, then a replacement is created and made
// active. If no replacement can be created the first remaining session is
// used, if any.
func (s *SessionStore) DeleteSession(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteSession(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			notify.Error(s.notifier, "chat.delete", "Could not delete chat", err)
			return fmt.Errorf("failed to delete session %s: %w", id, err)
		}
		log.Info().Str("session_id", id.String()).Msg("session already deleted")
	}

	var wasActive bool
	s.mutate(func() {
		if i := s.indexOf(id); i >= 0 {
			s.sessions = append(s.sessions[:i:i], s.sessions[i+1:]...)
		}
		wasActive = s.active == id
	})
	log.Info().Str("session_id", id.String()).Bool("active", wasActive).Msg("session deleted")

	if !wasActive {
		s.reload(ctx)
		return nil
	}

	s.setActive("")

	if _, err := s.CreateSession(ctx); err == nil {
		return nil
	}

	// No replacement: fall back to whatever still exists.
	s.reload(ctx)
	s.mu.Lock()
	var fallback domain.ID
	if s.active.IsZero() && len(s.sessions) > 0 {
		fallback = s.sessions[0].ID
	}
	s.mu.Unlock()
	if !fallback.IsZero() {
		s.setActive(fallback)
	}
	return nil
}

// Restore re-activates a previously active session when it still exists and
// starts a new one otherwise.
func (s *SessionStore) Restore(ctx context.Context, id domain.ID) (domain.ID, error) {
	if _, err := s.ListSessions(ctx); err != nil {
		return "", err
	}

	if !id.IsZero() {
		if err := s.Select(id); err == nil {
			return id, nil
		}
		log.Info().Str("session_id", id.String()).Msg("stored session is gone, starting a new one")
	}

	created, err := s.CreateSession(ctx)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// setActive changes the active id and notifies listeners
func (s *SessionStore) setActive(id domain.ID) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.active == id {
		s.mu.Unlock()
		return
	}
	s.active = id
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
}

// mutate applies a local change that supersedes any listing in flight
func (s *SessionStore) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	fn()
}

// reload refreshes the list after a mutation. Failures are already notified.
func (s *SessionStore) reload(ctx context.Context) {
	if _, err := s.ListSessions(ctx); err != nil {
		log.Warn().Err(err).Msg("reload after session change failed")
	}
}

func (s *SessionStore) indexOf(id domain.ID) int {
	for i, session := range s.sessions {
		if session.ID == id {
			return i
		}
	}
	return -1
}

func (s *SessionStore) listenersLocked() []func(domain.ID) {
	out := make([]func(domain.ID), 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
