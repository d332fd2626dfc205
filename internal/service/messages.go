package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
	"github.com/Rrens/wardrobe-stylist/internal/outfit"
)

// ActiveSession exposes the active session id read-only
type ActiveSession interface {
	Active() (domain.ID, bool)
}

// SendStatus is the outcome of SendMessage
type SendStatus int

const (
	// SendRejected means nothing was appended or sent
	SendRejected SendStatus = iota
	// SendAppended means the reply was appended after the user message
	SendAppended
	// SendFailed means the apology was appended after the user message
	SendFailed
	// SendDiscarded means the session changed while the request was in flight
	SendDiscarded
)

func (s SendStatus) String() string {
	switch s {
	case SendRejected:
		return "rejected"
	case SendAppended:
		return "appended"
	case SendFailed:
		return "failed"
	case SendDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("SendStatus(%d)", int(s))
	}
}

// SendResult reports what SendMessage did
type SendResult struct {
	Status SendStatus
	Reply  *domain.Message
	Err    error
}

// MessageStream holds the ordered message log of the loaded session
type MessageStream struct {
	api      domain.ChatAPI
	sessions ActiveSession
	notifier notify.Notifier

	mu       sync.Mutex
	loaded   domain.ID
	messages []domain.Message
	draft    string
	pending  int
	loadGen  uint64
	// loading is set while the latest load has not answered yet
	loading bool
}

// NewMessageStream creates a new message stream reading the active session
// from sessions
func NewMessageStream(api domain.ChatAPI, sessions ActiveSession, notifier notify.Notifier) *MessageStream {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &MessageStream{api: api, sessions: sessions, notifier: notifier}
}

// Loaded returns the session whose log is held
func (s *MessageStream) Loaded() domain.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Messages returns a copy of the log
func (s *MessageStream) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Draft returns the input buffer
func (s *MessageStream) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the input buffer
func (s *MessageStream) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Pending returns the number of sends awaiting a reply
func (s *MessageStream) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LoadMessages replaces the log with the messages of sessionID. The previous
// log is dropped immediately. A load overtaken by a newer load, or by a
// change of active session, is discarded. Sends are rejected until the
// latest load has answered.
func (s *MessageStream) LoadMessages(ctx context.Context, sessionID domain.ID) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.loaded = sessionID
	s.messages = nil
	s.loading = !sessionID.IsZero()
	s.mu.Unlock()

	if sessionID.IsZero() {
		return nil
	}

	msgs, err := s.api.ListMessages(ctx, sessionID)
	if err != nil {
		if s.finishLoad(gen, sessionID) {
			notify.Error(s.notifier, "chat.messages", "Could not load messages", err)
		}
		return fmt.Errorf("failed to load messages for session %s: %w", sessionID, err)
	}

	for i := range msgs {
		if err := outfit.DecodeMessage(&msgs[i]); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID.String()).Str("message_id", msgs[i].ID.String()).Msg("showing message without outfit")
		}
	}

	active, _ := s.sessions.Active()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.loadGen {
		s.loading = false
	}
	if gen != s.loadGen || s.loaded != sessionID || active != sessionID {
		log.Debug().Str("session_id", sessionID.String()).Msg("dropping stale message load")
		return nil
	}
	s.messages = msgs
	return nil
}

// SendMessage appends prompt optimistically, clears the draft and asks the
// stylist. The reply, or a local apology on failure, is appended only while
// sessionID is still active and its log was not reloaded meanwhile; a reload
// fetches the exchange from the service instead. Blank prompts, sessions
// other than the loaded one and sends during a pending load are rejected
// without a request.
func (s *MessageStream) SendMessage(ctx context.Context, sessionID domain.ID, prompt string) SendResult {
	if strings.TrimSpace(prompt) == "" || sessionID.IsZero() {
		return SendResult{Status: SendRejected}
	}
	if active, _ := s.sessions.Active(); active != sessionID {
		return SendResult{Status: SendRejected}
	}

	s.mu.Lock()
	if s.loaded != sessionID || s.loading {
		s.mu.Unlock()
		return SendResult{Status: SendRejected}
	}
	gen := s.loadGen
	s.messages = append(s.messages, domain.NewUserMessage(prompt))
	s.draft = ""
	s.pending++
	s.mu.Unlock()

	reply, err := s.api.SendMessage(ctx, sessionID, prompt)
	if err == nil {
		if decodeErr := outfit.DecodeMessage(reply); decodeErr != nil {
			log.Warn().Err(decodeErr).Str("session_id", sessionID.String()).Msg("showing reply without outfit")
		}
	}

	active, _ := s.sessions.Active()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending--
	if active != sessionID || s.loaded != sessionID || s.loadGen != gen {
		log.Debug().Str("session_id", sessionID.String()).Msg("discarding reply for inactive session")
		return SendResult{Status: SendDiscarded, Err: err}
	}

	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("send failed")
		s.messages = append(s.messages, domain.NewApologyMessage())
		return SendResult{Status: SendFailed, Err: err}
	}

	s.messages = append(s.messages, *reply)
	return SendResult{Status: SendAppended, Reply: reply}
}

// finishLoad clears the loading flag for a failed load and reports whether
// that load was still the latest for sessionID
func (s *MessageStream) finishLoad(gen uint64, sessionID domain.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen || s.loaded != sessionID {
		return false
	}
	s.loading = false
	return true
}
