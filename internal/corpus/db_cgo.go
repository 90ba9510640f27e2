//go:build cgo_sqlite

package corpus

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens a SQLite database with the cgo driver.
func OpenSQLite(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite3", dataSource)
}
