package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"walletlink/internal/domain"
)

// KeyPairSQLiteStore keeps the keypair record in a small key/value table.
// The stored value is the same JSON record the file store writes.
type KeyPairSQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenKeyPairSQLite opens (or creates) the database at path. Use ":memory:"
// for an ephemeral store.
func OpenKeyPairSQLite(path string) (*KeyPairSQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &KeyPairSQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *KeyPairSQLiteStore) Close() error { return s.db.Close() }

func (s *KeyPairSQLiteStore) LoadKeyPair() (domain.KeyPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, KeyPairKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.KeyPair{}, false, nil
	}
	if err != nil {
		return domain.KeyPair{}, false, fmt.Errorf("query keypair: %w", err)
	}
	kp, err := decodeKeyPair([]byte(value))
	if err != nil {
		return domain.KeyPair{}, false, err
	}
	return kp, true, nil
}

func (s *KeyPairSQLiteStore) SaveKeyPair(kp domain.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := encodeKeyPair(kp)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		KeyPairKey, string(b), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save keypair: %w", err)
	}
	return nil
}

func (s *KeyPairSQLiteStore) DeleteKeyPair() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, KeyPairKey); err != nil {
		return fmt.Errorf("delete keypair: %w", err)
	}
	return nil
}

var _ domain.KeyPairStore = (*KeyPairSQLiteStore)(nil)
