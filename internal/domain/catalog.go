package domain

import (
	"context"
	"io"
)

// UncategorizedKey groups items whose category is absent
const UncategorizedKey = "Uncategorized"

// ClothingItem represents a single garment in the wardrobe
type ClothingItem struct {
	ID       ID     `json:"id" validate:"required"`
	Filename string `json:"filename" validate:"required"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

// GroupKey returns the category group the item belongs to
func (c ClothingItem) GroupKey() string {
	if c.Category == "" {
		return UncategorizedKey
	}
	return c.Category
}

// Upload is the image file attached to a new item
type Upload struct {
	Name    string    `validate:"required,imagefile"`
	Content io.Reader `validate:"required"`
}

// NewItem represents a create request. Category and Color are inferred by the
// service when left empty.
type NewItem struct {
	File     *Upload `validate:"required"`
	Category string  `validate:"omitempty,max=100"`
	Color    string  `validate:"omitempty,max=50"`
}

// ItemPatch is a partial update; nil fields are left untouched
type ItemPatch struct {
	Category *string `json:"category,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p.Category == nil && p.Color == nil
}

// CatalogAPI defines the remote operations on the clothing collection
type CatalogAPI interface {
	ListItems(ctx context.Context) ([]ClothingItem, error)
	CreateItem(ctx context.Context, item NewItem) (*ClothingItem, error)
	UpdateItem(ctx context.Context, id ID, patch ItemPatch) (*ClothingItem, error)
	DeleteItem(ctx context.Context, id ID) error
}
