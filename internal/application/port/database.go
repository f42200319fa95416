// Package port defines the boundaries between the engine, its hosts and
// infrastructure adapters.
package port

import (
	"context"
	"database/sql"
)

// DatabaseProvider hands out the preference database. Implementations may
// open the file and migrate the schema on first use, so commands that never
// read a preference never touch it.
type DatabaseProvider interface {
	// DB returns the open connection.
	DB(ctx context.Context) (*sql.DB, error)

	// Path is the database file location.
	Path() string

	// Close releases the connection if one was opened.
	Close() error
}
