package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

const preferencesKey = "preferences"

// PreferenceRepository stores preferences as fields of a single hash
type PreferenceRepository struct {
	client *Client
}

var _ domain.PreferenceRepository = (*PreferenceRepository)(nil)

// NewPreferenceRepository creates a preference repository
func NewPreferenceRepository(client *Client) *PreferenceRepository {
	return &PreferenceRepository{client: client}
}

// Get retrieves the stored value for key
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.rdb.HGet(ctx, r.client.Key(preferencesKey), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.rdb.HSet(ctx, r.client.Key(preferencesKey), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	return nil
}
