//go:build !cgo_sqlite

package corpus

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database with the pure Go driver.
func OpenSQLite(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite", dataSource)
}
