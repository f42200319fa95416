package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/popframe/internal/application/port"
	"github.com/bnema/popframe/internal/logging"
)

// ErrClosed is returned by DB after Close.
var ErrClosed = errors.New("database is closed")

// LazyDB opens the preference database on first use. A failed open is
// remembered; later calls return the same error.
type LazyDB struct {
	path string

	mu      sync.Mutex
	db      *sql.DB
	openErr error
	tried   bool
	closed  bool
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a provider for path without touching the file.
func NewLazyDB(path string) *LazyDB {
	return &LazyDB{path: path}
}

// DB returns the connection, opening and migrating on the first call.
// Concurrent first callers wait for the one open.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if !l.tried {
		l.tried = true
		l.db, l.openErr = NewConnection(ctx, l.path)
		if l.openErr != nil {
			logging.FromContext(ctx).Error().Err(l.openErr).Str("path", l.path).Msg("failed to open preference database")
		}
	}
	if l.openErr != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.openErr)
	}
	return l.db, nil
}

// Opened reports whether a connection is open.
func (l *LazyDB) Opened() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil && !l.closed
}

// Path returns the database file location.
func (l *LazyDB) Path() string { return l.path }

// Close closes the connection if one was opened. Further DB calls fail.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
