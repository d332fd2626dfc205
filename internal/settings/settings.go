// Package settings holds the process-wide UI preferences. Values are loaded
// once at start and every setter persists before the in-memory value changes.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// Preference keys
const (
	KeyDarkMode       = "dark_mode"
	KeySidebarVisible = "sidebar_visible"
	KeyLastSession    = "last_session"
)

// Settings is a snapshot of the preferences
type Settings struct {
	DarkMode       bool      `json:"dark_mode"`
	SidebarVisible bool      `json:"sidebar_visible"`
	LastSession    domain.ID `json:"last_session,omitempty"`
}

// Defaults returns the settings used before anything was persisted
func Defaults() Settings {
	return Settings{SidebarVisible: true}
}

// Store owns the current Settings value
type Store struct {
	repo domain.PreferenceRepository

	mu      sync.Mutex
	current Settings
}

// Load reads every preference from repo, falling back to defaults for
// missing or unreadable values
func Load(ctx context.Context, repo domain.PreferenceRepository) (*Store, error) {
	s := Defaults()

	if v, ok, err := repo.Get(ctx, KeyDarkMode); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	} else if ok {
		s.DarkMode = parseBool(KeyDarkMode, v, s.DarkMode)
	}

	if v, ok, err := repo.Get(ctx, KeySidebarVisible); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	} else if ok {
		s.SidebarVisible = parseBool(KeySidebarVisible, v, s.SidebarVisible)
	}

	if v, ok, err := repo.Get(ctx, KeyLastSession); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	} else if ok {
		s.LastSession = domain.ID(v)
	}

	return &Store{repo: repo, current: s}, nil
}

func parseBool(key, v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring malformed preference")
		return fallback
	}
	return b
}

// Current returns a copy of the current settings
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetDarkMode persists and applies the dark mode flag
func (s *Store) SetDarkMode(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBool(ctx, KeyDarkMode, on, &s.current.DarkMode)
}

// ToggleDarkMode flips dark mode and returns the new value
func (s *Store) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.current.DarkMode
	if err := s.setBool(ctx, KeyDarkMode, next, &s.current.DarkMode); err != nil {
		return s.current.DarkMode, err
	}
	return next, nil
}

// SetSidebarVisible persists and applies sidebar visibility
func (s *Store) SetSidebarVisible(ctx context.Context, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBool(ctx, KeySidebarVisible, visible, &s.current.SidebarVisible)
}

// ToggleSidebar flips sidebar visibility and returns the new value
func (s *Store) ToggleSidebar(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.current.SidebarVisible
	if err := s.setBool(ctx, KeySidebarVisible, next, &s.current.SidebarVisible); err != nil {
		return s.current.SidebarVisible, err
	}
	return next, nil
}

// SetLastSession records the session to restore on the next start. A zero
// id clears it.
func (s *Store) SetLastSession(ctx context.Context, id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Set(ctx, KeyLastSession, id.String()); err != nil {
		return fmt.Errorf("failed to save %s: %w", KeyLastSession, err)
	}
	s.current.LastSession = id
	return nil
}

// setBool must be called with mu held
func (s *Store) setBool(ctx context.Context, key string, v bool, field *bool) error {
	if err := s.repo.Set(ctx, key, strconv.FormatBool(v)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	*field = v
	return nil
}
