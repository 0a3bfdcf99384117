package store

import (
	"path/filepath"
	"sync"

	"walletlink/internal/domain"
)

const sessionsFilename = "wallet_sessions.json"

// SessionFileStore persists wallet sessions keyed by cluster.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

func (s *SessionFileStore) load() (map[domain.Cluster]domain.WalletSession, error) {
	sessions := map[domain.Cluster]domain.WalletSession{}
	if _, err := readJSON(filepath.Join(s.dir, sessionsFilename), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SaveSession writes the session for cluster, replacing any previous one.
func (s *SessionFileStore) SaveSession(cluster domain.Cluster, session domain.WalletSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}
	sessions[cluster] = session
	return writeJSON(filepath.Join(s.dir, sessionsFilename), sessions, 0o600)
}

// LoadSession retrieves the stored session for cluster.
func (s *SessionFileStore) LoadSession(cluster domain.Cluster) (domain.WalletSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return domain.WalletSession{}, false, err
	}
	session, ok := sessions[cluster]
	return session, ok, nil
}

// DeleteSession forgets the session for cluster.
func (s *SessionFileStore) DeleteSession(cluster domain.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := sessions[cluster]; !ok {
		return nil
	}
	delete(sessions, cluster)
	return writeJSON(filepath.Join(s.dir, sessionsFilename), sessions, 0o600)
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
