// Package store provides a SQLite-backed store for cloud credential profiles.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cloud9/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store holds one credential profile per provider.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the credential database path inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.db")
}

// Open opens or creates the credential database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCredentials stores c, replacing any previous profile for the same provider.
// A zero SavedAt is set to now.
func (s *Store) SaveCredentials(c model.Credentials) error {
	if c.Provider == "" {
		return errors.New("saving credentials: provider is required")
	}
	fields := c.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding credential fields: %w", err)
	}
	savedAt := c.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO credentials (provider, fields, saved_at)
		VALUES (?, ?, ?)`, string(c.Provider), string(raw), savedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// LoadCredentials returns the profile for p. The bool is false when none is saved.
func (s *Store) LoadCredentials(p model.Provider) (model.Credentials, bool, error) {
	var raw, savedAt string
	err := s.db.QueryRow("SELECT fields, saved_at FROM credentials WHERE provider = ?", string(p)).
		Scan(&raw, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credentials{}, false, nil
	}
	if err != nil {
		return model.Credentials{}, false, fmt.Errorf("loading credentials: %w", err)
	}

	c := model.Credentials{Provider: p}
	if err := json.Unmarshal([]byte(raw), &c.Fields); err != nil {
		return model.Credentials{}, false, fmt.Errorf("decoding credential fields: %w", err)
	}
	c.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
	return c, true, nil
}

// Providers lists providers that have a saved profile, sorted by name.
func (s *Store) Providers() ([]model.Provider, error) {
	rows, err := s.db.Query("SELECT provider FROM credentials ORDER BY provider")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Provider
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, model.Provider(p))
	}
	return out, rows.Err()
}

// DeleteCredentials removes the profile for p, if any.
func (s *Store) DeleteCredentials(p model.Provider) error {
	_, err := s.db.Exec("DELETE FROM credentials WHERE provider = ?", string(p))
	return err
}
