package repository

import (
	"context"

	"github.com/bnema/popframe/internal/domain/entity"
)

// PreferenceRepository persists single-string user preferences.
type PreferenceRepository interface {
	// Get retrieves a preference. Returns nil, nil when the key is absent.
	Get(ctx context.Context, key string) (*entity.Preference, error)

	// Set creates or replaces a preference value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a preference. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
