// Package memory holds the in-memory state behind the development stylist
// service. It mirrors the behavior of the remote service closely enough to
// exercise the client stores end to end.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// DefaultColor is assigned when an upload carries no color
const DefaultColor = "Default Color"

var (
	// ErrNotFound is returned for unknown item or session ids
	ErrNotFound = errors.New("not found")

	// ErrNoOutfit is returned when the wardrobe cannot produce a suggestion
	ErrNoOutfit = errors.New("not enough variety")
)

var (
	topCategories       = []string{"T-Shirt", "Shirt", "Blouse", "Suit", "Sweater"}
	bottomCategories    = []string{"Jeans", "Skirt", "Trousers"}
	dressCategories     = []string{"Dress"}
	outerwearCategories = []string{"Jacket", "Coat"}
)

type storedMessage struct {
	id        int
	role      string
	content   string
	outfit    string
	createdAt time.Time
}

type storedSession struct {
	id        int
	title     string
	createdAt time.Time
	messages  []storedMessage
}

// Store is a concurrency-safe in-memory wardrobe and chat history
type Store struct {
	mu        sync.Mutex
	nextItem  int
	nextChat  int
	nextMsg   int
	items     []domain.ClothingItem
	sessions  []*storedSession
	uploads   map[string][]byte
	now       func() time.Time
	Weather   string
	Inference func(filename string) string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		uploads: make(map[string][]byte),
		now:     func() time.Time { return time.Now().UTC() },
		Weather: "Jakarta: 28°C, Clear",
	}
}

// Items returns all clothing items in insertion order
func (s *Store) Items() []domain.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ClothingItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem stores an uploaded image and its metadata
func (s *Store) AddItem(filename string, content []byte, category, color string) domain.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItem++
	stored := fmt.Sprintf("%d_%s", s.nextItem, filename)
	if category == "" && s.Inference != nil {
		category = s.Inference(filename)
	}
	if color == "" {
		color = DefaultColor
	}
	item := domain.ClothingItem{
		ID:       domain.ID(strconv.Itoa(s.nextItem)),
		Filename: stored,
		Category: category,
		Color:    color,
	}
	s.items = append(s.items, item)
	s.uploads[stored] = content
	return item
}

// UpdateItem applies a partial patch
func (s *Store) UpdateItem(id domain.ID, patch domain.ItemPatch) (domain.ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if patch.Category != nil {
			s.items[i].Category = *patch.Category
		}
		if patch.Color != nil {
			s.items[i].Color = *patch.Color
		}
		return s.items[i], nil
	}
	return domain.ClothingItem{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
}

// DeleteItem removes an item and its image
func (s *Store) DeleteItem(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		delete(s.uploads, item.Filename)
		return nil
	}
	return fmt.Errorf("item %s: %w", id, ErrNotFound)
}

// Upload returns the bytes stored under filename
func (s *Store) Upload(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.uploads[filename]
	return data, ok
}

// Sessions returns all chat sessions, newest first
func (s *Store) Sessions() []domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatSession, 0, len(s.sessions))
	for i := len(s.sessions) - 1; i >= 0; i-- {
		out = append(out, s.sessions[i].view())
	}
	return out
}

// CreateSession starts an empty chat
func (s *Store) CreateSession() domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextChat++
	session := &storedSession{id: s.nextChat, title: domain.DefaultSessionTitle, createdAt: s.now()}
	s.sessions = append(s.sessions, session)
	return session.view()
}

// RenameSession changes a session title
func (s *Store) RenameSession(id domain.ID, title string) (domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _ := s.find(id)
	if session == nil {
		return domain.ChatSession{}, fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}
	session.title = title
	return session.view(), nil
}

// DeleteSession removes a session and its messages
func (s *Store) DeleteSession(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx := s.find(id)
	if idx < 0 {
		return fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	return nil
}

// Messages returns the log of a session in arrival order
func (s *Store) Messages(id domain.ID) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, _ := s.find(id)
	if session == nil {
		return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}
	out := make([]map[string]any, 0, len(session.messages))
	for _, m := range session.messages {
		out = append(out, m.wire())
	}
	return out, nil
}

// Send records a prompt and the stylist's answer. Failures to build an outfit
// are answered with a text-only message, as the service does.
func (s *Store) Send(id domain.ID, prompt string) (map[string]any, error) {
	suggestion, suggestErr := s.Suggest(prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, _ := s.find(id)
	if session == nil {
		return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}

	session.messages = append(session.messages, s.message("user", prompt, ""))

	var reply storedMessage
	if suggestErr != nil {
		reply = s.message("ai", suggestErr.Error(), "")
	} else {
		raw, _ := json.Marshal(suggestion)
		reply = s.message("ai", suggestion.StylistNotes, string(raw))
	}
	session.messages = append(session.messages, reply)
	return reply.wire(), nil
}

// Suggest builds an outfit from the current wardrobe: a dress or the first
// top with the first bottom, plus outerwear when available.
func (s *Store) Suggest(prompt string) (*domain.OutfitSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := func(categories []string) *domain.ClothingItem {
		for _, item := range s.items {
			for _, c := range categories {
				if strings.EqualFold(item.Category, c) {
					found := item
					return &found
				}
			}
		}
		return nil
	}

	suggestion := &domain.OutfitSuggestion{WeatherInfo: s.Weather}
	if top, bottom := first(topCategories), first(bottomCategories); top != nil && bottom != nil {
		suggestion.Top, suggestion.Bottom = top, bottom
	} else if dress := first(dressCategories); dress != nil {
		suggestion.Top = dress
	} else {
		return nil, fmt.Errorf("%w for %q. Try uploading more clothes!", ErrNoOutfit, prompt)
	}
	suggestion.Outerwear = first(outerwearCategories)

	notes := fmt.Sprintf("Here is a great option for %q. ", prompt)
	if suggestion.Bottom != nil {
		notes += fmt.Sprintf("The %s and %s pair well together.", strings.ToLower(suggestion.Top.Category), strings.ToLower(suggestion.Bottom.Category))
	} else {
		notes += fmt.Sprintf("This %s is a perfect choice.", strings.ToLower(suggestion.Top.Category))
	}
	suggestion.StylistNotes = notes
	return suggestion, nil
}

func (s *Store) find(id domain.ID) (*storedSession, int) {
	for i, session := range s.sessions {
		if strconv.Itoa(session.id) == string(id) {
			return session, i
		}
	}
	return nil, -1
}

func (s *Store) message(role, content, outfit string) storedMessage {
	s.nextMsg++
	return storedMessage{id: s.nextMsg, role: role, content: content, outfit: outfit, createdAt: s.now()}
}

func (ss *storedSession) view() domain.ChatSession {
	return domain.ChatSession{
		ID:        domain.ID(strconv.Itoa(ss.id)),
		Title:     ss.title,
		CreatedAt: domain.NewTimestamp(ss.createdAt),
	}
}

// wire renders a message the way the service does: numeric id, "ai" role,
// naive ISO timestamp and the outfit as a JSON string or null.
func (m storedMessage) wire() map[string]any {
	var outfit any
	if m.outfit != "" {
		outfit = m.outfit
	}
	return map[string]any{
		"id":          m.id,
		"role":        m.role,
		"content":     m.content,
		"outfit_data": outfit,
		"created_at":  m.createdAt.Format("2006-01-02T15:04:05.000000"),
	}
}
