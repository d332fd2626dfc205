// Package assets turns stored item filenames into URLs a client can fetch.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Rrens/wardrobe-stylist/internal/config"
)

// Resolver maps an item filename to a fetchable URL
type Resolver interface {
	URL(ctx context.Context, filename string) (string, error)
}

// StaticResolver serves images from the service's /uploads route
type StaticResolver struct {
	base string
}

// NewStaticResolver creates a resolver rooted at baseURL
func NewStaticResolver(baseURL string) (*StaticResolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid assets base URL %q", baseURL)
	}
	return &StaticResolver{base: strings.TrimRight(baseURL, "/")}, nil
}

func (r *StaticResolver) URL(_ context.Context, filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	return r.base + "/uploads/" + url.PathEscape(filename), nil
}

// NewResolver builds the resolver selected by cfg
func NewResolver(ctx context.Context, cfg config.AssetsConfig) (Resolver, error) {
	switch cfg.Mode {
	case config.AssetsPresigned:
		presigner, err := NewS3Presigner(ctx, cfg)
		if err != nil {
			return nil, err
		}
		r, err := NewPresignedResolver(presigner, cfg.Prefix, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		r, err := NewStaticResolver(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
