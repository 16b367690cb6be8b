package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a lookup by ID matches no row
var ErrNotFound = errors.New("not found")

// MemoryPath opens a private in-memory database (tests)
const MemoryPath = ":memory:"

// DB wraps the database connection
type DB struct {
	*sqlx.DB
}

// New opens the database at path and initializes the schema
func New(path string) (*DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// one connection, otherwise every pooled connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// DefaultPath returns the database file inside dataDir, falling back to the
// XDG data directory when dataDir is empty
func DefaultPath(dataDir string) (string, error) {
	if dataDir == "" {
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		dataDir = filepath.Join(dataDir, "nextup")
	}

	return filepath.Join(dataDir, "nextup.db"), nil
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
