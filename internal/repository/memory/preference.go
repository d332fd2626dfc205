package memory

import (
	"context"
	"sync"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// PreferenceRepository keeps preferences for the lifetime of the process
type PreferenceRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ domain.PreferenceRepository = (*PreferenceRepository)(nil)

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{values: make(map[string]string)}
}

func (r *PreferenceRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	return value, ok, nil
}

func (r *PreferenceRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}
