package service

import (
	"fmt"
	"sync"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// ViewMode is the state of the category browser
type ViewMode int

const (
	// Overview lists one card per category
	Overview ViewMode = iota
	// Detail lists the items of a single category
	Detail
)

func (m ViewMode) String() string {
	switch m {
	case Overview:
		return "overview"
	case Detail:
		return "detail"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// CategoryCard summarizes one category on the overview
type CategoryCard struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Cover    string `json:"cover"`
}

// CategoryView is the Overview/Detail state machine over the catalog groups.
// It also owns the single open item menu.
type CategoryView struct {
	mu       sync.Mutex
	groups   domain.Groups
	mode     ViewMode
	category string
	menu     *domain.ID
}

// NewCategoryView creates a view in Overview over the store's current groups
// and keeps it in sync with every reload.
func NewCategoryView(store *CatalogStore) *CategoryView {
	v := &CategoryView{groups: domain.GroupByCategory(nil)}
	if store != nil {
		v.groups = store.Groups()
		store.Subscribe(v.Reconcile)
	}
	return v
}

// State returns the mode and, in Detail, the open category
func (v *CategoryView) State() (ViewMode, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode, v.category
}

// Reconcile applies a fresh set of groups. An open category that no longer
// exists sends the view back to Overview, and a menu whose item is gone is
// closed.
func (v *CategoryView) Reconcile(groups domain.Groups) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.groups = groups
	if v.mode == Detail && !groups.Has(v.category) {
		v.mode = Overview
		v.category = ""
		v.menu = nil
	}
	if v.menu != nil && !v.visible(*v.menu) {
		v.menu = nil
	}
}

// Select opens a category from the Overview
func (v *CategoryView) Select(category string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode != Overview {
		return fmt.Errorf("%w: select %q while viewing %q", ErrInvalidTransition, category, v.category)
	}
	if !v.groups.Has(category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	v.mode = Detail
	v.category = category
	v.menu = nil
	return nil
}

// Back returns to the Overview. It is a no-op in Overview.
func (v *CategoryView) Back() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode == Overview {
		return
	}
	v.mode = Overview
	v.category = ""
	v.menu = nil
}

// Items returns the items of the open category, or nil in Overview
func (v *CategoryView) Items() []domain.ClothingItem {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode != Detail {
		return nil
	}
	items, _ := v.groups.Items(v.category)
	return items
}

// Categories returns the overview cards in display order. The cover is the
// first item's image.
func (v *CategoryView) Categories() []CategoryCard {
	v.mu.Lock()
	defer v.mu.Unlock()

	groups := v.groups.All()
	cards := make([]CategoryCard, 0, len(groups))
	for _, g := range groups {
		cards = append(cards, CategoryCard{
			Category: g.Category,
			Count:    len(g.Items),
			Cover:    g.Items[0].Filename,
		})
	}
	return cards
}

// OpenMenu opens the action menu of a displayed item, closing any other
func (v *CategoryView) OpenMenu(id domain.ID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.visible(id) {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	v.menu = &id
	return nil
}

// ToggleMenu opens the menu of id, or closes it when it is already open
func (v *CategoryView) ToggleMenu(id domain.ID) error {
	v.mu.Lock()
	if v.menu != nil && *v.menu == id {
		v.menu = nil
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()
	return v.OpenMenu(id)
}

// CloseMenu closes the open menu, if any
func (v *CategoryView) CloseMenu() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.menu = nil
}

// MenuItem returns the item whose menu is open
func (v *CategoryView) MenuItem() (domain.ID, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.menu == nil {
		return "", false
	}
	return *v.menu, true
}

// visible reports whether id is shown in the current state. Callers hold mu.
func (v *CategoryView) visible(id domain.ID) bool {
	if v.mode != Detail {
		return v.groups.Contains(id)
	}
	items, _ := v.groups.Items(v.category)
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
