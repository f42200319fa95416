package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/domain/repository"
	"github.com/bnema/popframe/internal/logging"
)

// ManageTilingKeysUseCase reads and writes the tiling control key bindings.
type ManageTilingKeysUseCase struct {
	prefs repository.PreferenceRepository
}

// NewManageTilingKeysUseCase creates a new tiling keys use case.
func NewManageTilingKeysUseCase(prefs repository.PreferenceRepository) *ManageTilingKeysUseCase {
	return &ManageTilingKeysUseCase{prefs: prefs}
}

// Load returns the stored bindings. With no stored preference the returned
// bindings are disabled. A stored value that no longer validates is
// logged and treated as absent.
func (uc *ManageTilingKeysUseCase) Load(ctx context.Context) (entity.TilingKeys, error) {
	log := logging.FromContext(ctx)

	pref, err := uc.prefs.Get(ctx, entity.TilingKeysPreference)
	if err != nil {
		return entity.TilingKeys{}, fmt.Errorf("failed to read tiling keys: %w", err)
	}
	if pref == nil {
		log.Debug().Msg("no tiling keys stored, tiling disabled")
		return entity.TilingKeys{}, nil
	}

	keys, err := entity.ParseTilingKeys(pref.Value)
	if err != nil {
		log.Warn().Err(err).Str("value", pref.Value).Msg("ignoring stored tiling keys")
		return entity.TilingKeys{}, nil
	}

	log.Debug().Str("keys", keys.String()).Msg("tiling keys loaded")
	return keys, nil
}

// Save validates and stores a binding string. An empty string stores the
// empty preference, which enables the default bindings.
func (uc *ManageTilingKeysUseCase) Save(ctx context.Context, value string) (entity.TilingKeys, error) {
	keys, err := entity.ParseTilingKeys(value)
	if err != nil {
		return entity.TilingKeys{}, err
	}

	if err := uc.prefs.Set(ctx, entity.TilingKeysPreference, value); err != nil {
		return entity.TilingKeys{}, fmt.Errorf("failed to save tiling keys: %w", err)
	}

	logging.FromContext(ctx).Info().Str("keys", keys.String()).Msg("tiling keys saved")
	return keys, nil
}

// Disable removes the stored preference.
func (uc *ManageTilingKeysUseCase) Disable(ctx context.Context) error {
	if err := uc.prefs.Delete(ctx, entity.TilingKeysPreference); err != nil {
		return fmt.Errorf("failed to remove tiling keys: %w", err)
	}
	return nil
}
