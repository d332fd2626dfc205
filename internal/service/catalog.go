package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
	"github.com/Rrens/wardrobe-stylist/internal/validation"
)

// CatalogStore loads, groups and mutates the clothing collection. Groups are
// always rebuilt from a full server listing: every successful mutation is
// followed by a reload instead of a local patch.
type CatalogStore struct {
	api       domain.CatalogAPI
	validator *validation.Validator
	notifier  notify.Notifier

	// emitMu orders apply+notify so listeners observe reloads in apply order
	emitMu sync.Mutex

	mu        sync.Mutex
	items     []domain.ClothingItem
	groups    domain.Groups
	loaded    bool
	issued    uint64
	applied   uint64
	listeners map[int]func(domain.Groups)
	nextID    int
}

// NewCatalogStore creates a new catalog store
func NewCatalogStore(api domain.CatalogAPI, validator *validation.Validator, notifier notify.Notifier) *CatalogStore {
	if validator == nil {
		validator = validation.New()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	return &CatalogStore{
		api:       api,
		validator: validator,
		notifier:  notifier,
		groups:    domain.GroupByCategory(nil),
		listeners: make(map[int]func(domain.Groups)),
	}
}

// Subscribe registers fn to run after every applied reload. Listeners must
// not call Load themselves. The returned func removes the listener.
func (s *CatalogStore) Subscribe(fn func(domain.Groups)) func() {
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

// Groups returns the current category partition
func (s *CatalogStore) Groups() domain.Groups {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups
}

// Items returns the current items in server order
func (s *CatalogStore) Items() []domain.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ClothingItem, len(s.items))
	copy(out, s.items)
	return out
}

// Loaded reports whether at least one load has been applied
func (s *CatalogStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load fetches all items and rebuilds the groups. A load that was issued
// before the one already applied is dropped. On failure the displayed state
// is left untouched.
func (s *CatalogStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	items, err := s.api.ListItems(ctx)
	if err != nil {
		notify.Error(s.notifier, "catalog.load", "Could not load your wardrobe", err)
		return fmt.Errorf("failed to load items: %w", err)
	}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if gen < s.applied {
		s.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("dropping stale catalog load")
		return nil
	}
	s.applied = gen
	s.items = make([]domain.ClothingItem, len(items))
	copy(s.items, items)
	s.groups = domain.GroupByCategory(s.items)
	s.loaded = true
	groups := s.groups
	listeners := make([]func(domain.Groups), 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	log.Debug().Int("items", groups.Count()).Int("categories", groups.Len()).Msg("catalog loaded")

	for _, fn := range listeners {
		fn(groups)
	}
	return nil
}

// Create uploads a new item and reloads. Category and color may be left
// empty for the service to infer.
func (s *CatalogStore) Create(ctx context.Context, item domain.NewItem) (*domain.ClothingItem, error) {
	if err := s.validator.Struct(item); err != nil {
		notify.Error(s.notifier, "catalog.create", "Please select a png, jpg or jpeg image to upload", err)
		return nil, err
	}

	created, err := s.api.CreateItem(ctx, item)
	if err != nil {
		notify.Error(s.notifier, "catalog.create", "Upload failed", err)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	log.Info().Str("item_id", created.ID.String()).Str("category", created.Category).Msg("item created")
	s.reload(ctx)
	return created, nil
}

// Update applies a partial patch and reloads
func (s *CatalogStore) Update(ctx context.Context, id domain.ID, patch domain.ItemPatch) (*domain.ClothingItem, error) {
	updated, err := s.api.UpdateItem(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notify.Error(s.notifier, "catalog.update", "This item no longer exists", err)
			s.reload(ctx)
			return nil, fmt.Errorf("failed to update item %s: %w", id, err)
		}
		notify.Error(s.notifier, "catalog.update", "Failed to update item", err)
		return nil, fmt.Errorf("failed to update item %s: %w", id, err)
	}

	log.Info().Str("item_id", id.String()).Msg("item updated")
	s.reload(ctx)
	return updated, nil
}

// Delete removes an item and reloads. An item that is already gone counts
// as deleted.
func (s *CatalogStore) Delete(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteItem(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			notify.Error(s.notifier, "catalog.delete", "Failed to delete item", err)
			return fmt.Errorf("failed to delete item %s: %w", id, err)
		}
		log.Info().Str("item_id", id.String()).Msg("item already deleted")
	} else {
		log.Info().Str("item_id", id.String()).Msg("item deleted")
	}

	s.reload(ctx)
	return nil
}

// reload runs the post-mutation load. Its failure has already been notified
// and does not undo the mutation.
func (s *CatalogStore) reload(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("reload after mutation failed")
	}
}
