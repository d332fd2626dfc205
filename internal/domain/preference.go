package domain

import "context"

// PreferenceRepository stores client preferences as string key/value pairs
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
