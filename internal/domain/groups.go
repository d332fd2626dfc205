package domain

// CategoryGroup is one entry of the derived category partition
type CategoryGroup struct {
	Category string         `json:"category"`
	Items    []ClothingItem `json:"items"`
}

// Groups is the category partition of a catalog snapshot. It is always derived
// from a full item list and never patched in place.
type Groups struct {
	order []string
	items map[string][]ClothingItem
}

// GroupByCategory partitions items by GroupKey. Keys keep the order of first
// appearance and items keep server order.
func GroupByCategory(items []ClothingItem) Groups {
	g := Groups{items: make(map[string][]ClothingItem)}
	for _, item := range items {
		key := item.GroupKey()
		if _, ok := g.items[key]; !ok {
			g.order = append(g.order, key)
		}
		g.items[key] = append(g.items[key], item)
	}
	return g
}

// Keys returns the category keys in display order
func (g Groups) Keys() []string {
	keys := make([]string, len(g.order))
	copy(keys, g.order)
	return keys
}

// Has reports whether the category currently has at least one item
func (g Groups) Has(category string) bool {
	_, ok := g.items[category]
	return ok
}

// Items returns a copy of the items in category
func (g Groups) Items(category string) ([]ClothingItem, bool) {
	items, ok := g.items[category]
	if !ok {
		return nil, false
	}
	out := make([]ClothingItem, len(items))
	copy(out, items)
	return out, true
}

// Len returns the number of categories
func (g Groups) Len() int {
	return len(g.order)
}

// Count returns the total number of items across all groups
func (g Groups) Count() int {
	n := 0
	for _, items := range g.items {
		n += len(items)
	}
	return n
}

// All returns the groups in display order
func (g Groups) All() []CategoryGroup {
	out := make([]CategoryGroup, 0, len(g.order))
	for _, key := range g.order {
		items, _ := g.Items(key)
		out = append(out, CategoryGroup{Category: key, Items: items})
	}
	return out
}

// Contains reports whether an item with id is part of the snapshot
func (g Groups) Contains(id ID) bool {
	for _, items := range g.items {
		for _, item := range items {
			if item.ID == id {
				return true
			}
		}
	}
	return false
}
