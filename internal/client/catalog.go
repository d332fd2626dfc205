package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// ListItems returns every clothing item in server order
func (c *Client) ListItems(ctx context.Context) ([]domain.ClothingItem, error) {
	var items []domain.ClothingItem
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("clothes"), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem uploads an image with optional metadata
func (c *Client) CreateItem(ctx context.Context, item domain.NewItem) (*domain.ClothingItem, error) {
	if item.File == nil || item.File.Content == nil || item.File.Name == "" {
		return nil, fmt.Errorf("%w: an image file is required", domain.ErrValidation)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("image", filepath.Base(item.File.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, item.File.Content); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if item.Category != "" {
		if err := mw.WriteField("category", item.Category); err != nil {
			return nil, fmt.Errorf("failed to write form: %w", err)
		}
	}
	if item.Color != "" {
		if err := mw.WriteField("color", item.Color); err != nil {
			return nil, fmt.Errorf("failed to write form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	var created domain.ClothingItem
	if err := c.do(ctx, http.MethodPost, c.endpoint("upload"), &body, mw.FormDataContentType(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem sends a partial patch for an item
func (c *Client) UpdateItem(ctx context.Context, id domain.ID, patch domain.ItemPatch) (*domain.ClothingItem, error) {
	var updated domain.ClothingItem
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint("clothes", id.String()), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes an item
func (c *Client) DeleteItem(ctx context.Context, id domain.ID) error {
	return c.doJSON(ctx, http.MethodDelete, c.endpoint("clothes", id.String()), nil, nil)
}
