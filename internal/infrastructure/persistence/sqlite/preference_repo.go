package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/domain/repository"
	"github.com/bnema/popframe/internal/logging"
)

const (
	getPreference = `SELECT key, value, updated_at FROM preferences WHERE key = ?`

	setPreference = `INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	deletePreference = `DELETE FROM preferences WHERE key = ?`
)

type preferenceRepo struct {
	db  port.DatabaseProvider
	now func() time.Time
}

// NewPreferenceRepository creates a SQLite-backed preference repository.
// The connection is resolved on each call, so a LazyDB opens on first use.
func NewPreferenceRepository(db port.DatabaseProvider) repository.PreferenceRepository {
	return &preferenceRepo{db: db, now: time.Now}
}

func (r *preferenceRepo) Get(ctx context.Context, key string) (*entity.Preference, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("key", key).Msg("getting preference")

	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var (
		pref    entity.Preference
		updated int64
	)
	err = db.QueryRowContext(ctx, getPreference, key).Scan(&pref.Key, &pref.Value, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preference %q: %w", key, err)
	}
	pref.UpdatedAt = time.Unix(updated, 0)
	return &pref, nil
}

func (r *preferenceRepo) Set(ctx context.Context, key, value string) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("key", key).Str("value", value).Msg("setting preference")

	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, setPreference, key, value, r.now().Unix()); err != nil {
		return fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	return nil
}

func (r *preferenceRepo) Delete(ctx context.Context, key string) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, deletePreference, key); err != nil {
		return fmt.Errorf("failed to delete preference %q: %w", key, err)
	}
	return nil
}
