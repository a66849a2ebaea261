package postgres

import "database/sql"

const Schema = `
CREATE TABLE IF NOT EXISTS ` + kvTable + ` (
	"key"       TEXT PRIMARY KEY,
	"value"     TEXT NOT NULL,
	"updatedAt" TIMESTAMPTZ NOT NULL
);
`

// InitializeSchema creates the key/value table if it does not exist.
func InitializeSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
