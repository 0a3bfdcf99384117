package store

import (
	"os"
	"path/filepath"
	"sync"

	"walletlink/internal/domain"
)

// KeyPairFileStore persists the dapp encryption keypair as a JSON file
// named after KeyPairKey inside dir. With a passphrase the record is sealed
// with scrypt and ChaCha20-Poly1305 before it touches disk.
type KeyPairFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewKeyPairFileStore returns a KeyPairFileStore rooted at dir.
func NewKeyPairFileStore(dir string) *KeyPairFileStore {
	return &KeyPairFileStore{dir: dir}
}

// WithPassphrase seals records written from now on and opens sealed ones.
func (s *KeyPairFileStore) WithPassphrase(passphrase string) *KeyPairFileStore {
	s.passphrase = passphrase
	return s
}

func (s *KeyPairFileStore) path() string {
	return filepath.Join(s.dir, KeyPairKey+".json")
}

// LoadKeyPair reads the persisted keypair; ok is false if none exists.
func (s *KeyPairFileStore) LoadKeyPair() (domain.KeyPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return domain.KeyPair{}, false, nil
	}
	if err != nil {
		return domain.KeyPair{}, false, err
	}
	if isSealed(b) {
		if s.passphrase == "" {
			return domain.KeyPair{}, false, ErrPassphraseRequired
		}
		if b, err = unseal(s.passphrase, b); err != nil {
			return domain.KeyPair{}, false, err
		}
	}
	kp, err := decodeKeyPair(b)
	if err != nil {
		return domain.KeyPair{}, false, err
	}
	return kp, true, nil
}

// SaveKeyPair writes kp with 0600 permissions, replacing any previous record.
func (s *KeyPairFileStore) SaveKeyPair(kp domain.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := encodeKeyPair(kp)
	if err != nil {
		return err
	}
	if s.passphrase != "" {
		if b, err = seal(s.passphrase, b); err != nil {
			return err
		}
	}
	return writeFile(s.path(), b, 0o600)
}

// DeleteKeyPair removes the persisted record.
func (s *KeyPairFileStore) DeleteKeyPair() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(s.path())
}

// Compile-time assertion that KeyPairFileStore implements domain.KeyPairStore.
var _ domain.KeyPairStore = (*KeyPairFileStore)(nil)
