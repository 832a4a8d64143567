// Package cache persists solved module signatures between runs so
// unchanged modules skip re-checking. Signatures are msgpack payloads
// in a single sqlite database keyed by (module, content hash); the
// schema version invalidates everything when the payload format
// changes.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// Schema version of ModuleSignature. Bump when the payload format
// changes; stale rows are then treated as misses.
const schemaVersion uint16 = 1

// DeclSignature is one top-level definition's rendered type.
type DeclSignature struct {
	Name string
	Type string
}

// ModuleSignature is the cached result of checking one module.
type ModuleSignature struct {
	Schema  uint16
	Module  string
	Session string
	Checked int64
	Decls   []DeclSignature
}

// Store is the on-disk signature cache.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the cache database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "signatures.db"))
	if err != nil {
		return nil, fmt.Errorf("opening signature cache: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signatures (
			module  TEXT NOT NULL,
			hash    TEXT NOT NULL,
			schema  INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (module, hash)
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing signature cache: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a module signature under its content hash, replacing any
// previous entry for the same (module, hash).
func (s *Store) Put(hash string, sig *ModuleSignature) error {
	sig.Schema = schemaVersion
	payload, err := msgpack.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encoding signature for %s: %w", sig.Module, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO signatures (module, hash, schema, payload) VALUES (?, ?, ?, ?)`,
		sig.Module, hash, schemaVersion, payload,
	)
	if err != nil {
		return fmt.Errorf("storing signature for %s: %w", sig.Module, err)
	}
	return nil
}

// Get loads the signature cached for (module, hash). The second
// result reports whether a usable entry was found; schema mismatches
// count as misses.
func (s *Store) Get(module, hash string) (*ModuleSignature, bool, error) {
	var schema uint16
	var payload []byte
	err := s.db.QueryRow(
		`SELECT schema, payload FROM signatures WHERE module = ? AND hash = ?`,
		module, hash,
	).Scan(&schema, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading signature for %s: %w", module, err)
	}
	if schema != schemaVersion {
		return nil, false, nil
	}

	var sig ModuleSignature
	if err := msgpack.Unmarshal(payload, &sig); err != nil {
		return nil, false, fmt.Errorf("decoding signature for %s: %w", module, err)
	}
	return &sig, true, nil
}

// Stats returns the number of cached signatures.
func (s *Store) Stats() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM signatures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting signatures: %w", err)
	}
	return n, nil
}

// Clear drops every cached signature.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM signatures`); err != nil {
		return fmt.Errorf("clearing signature cache: %w", err)
	}
	return nil
}
