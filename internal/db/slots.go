package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrSlotEmpty is returned by ReadSlot when nothing has been stored yet.
var ErrSlotEmpty = errors.New("slot is empty")

// ReadSlot returns the raw contents stored under name.
func ReadSlot(db *sql.DB, name string) ([]byte, error) {
	var data string
	err := db.QueryRow(`SELECT data FROM slots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", name, err)
	}
	return []byte(data), nil
}

// WriteSlot overwrites the contents stored under name. The write happens in a
// single transaction, so readers see either the old or the new contents.
func WriteSlot(db *sql.DB, name string, data []byte) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin slot write: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO slots (name, data, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit slot %q: %w", name, err)
	}
	return nil
}

// Slot binds a slot name to a database.
type Slot struct {
	db   *sql.DB
	name string
}

// NewSlot returns the named slot in db.
func NewSlot(db *sql.DB, name string) *Slot {
	return &Slot{db: db, name: name}
}

// Read returns the stored contents, or ErrSlotEmpty.
func (s *Slot) Read() ([]byte, error) {
	return ReadSlot(s.db, s.name)
}

// Write replaces the stored contents.
func (s *Slot) Write(data []byte) error {
	return WriteSlot(s.db, s.name, data)
}
