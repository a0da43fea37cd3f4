// Package sqliterepo implements the session and cookie-secret repositories
// on SQLite through database/sql. Prepare creates the tables; upserts use
// ON CONFLICT so a replace is a single statement.
package sqliterepo

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // database/sql driver
)

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "[sqliterepo.Open] sql.Open")
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)
	return db, nil
}
