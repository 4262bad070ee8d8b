// Package sqlite persists table blobs in a local SQLite database, one
// row per table.
package sqlite

import (
	"database/sql"
	"encoding/json"

	"github.com/aquilax/guestbook/storage"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS state (
	name TEXT PRIMARY KEY,
	blob TEXT NOT NULL
)`

type SQLite struct {
	db *sqlx.DB
}

func New() *SQLite {
	return &SQLite{}
}

func (s *SQLite) Open(driver, dsn string) error {
	var err error
	s.db, err = sqlx.Open(driver, dsn)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(schema)
	return err
}

func (s *SQLite) Load(table string) (storage.Blob, error) {
	var raw string
	err := s.db.Get(&raw, "SELECT blob FROM state WHERE name=$1", table)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data storage.Blob
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLite) Flush(table string, data storage.Blob) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExec(`INSERT INTO state (name, blob) VALUES (:name, :blob)
		ON CONFLICT(name) DO UPDATE SET blob = :blob`,
		map[string]interface{}{
			"name": table,
			"blob": string(raw),
		})
	return err
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
