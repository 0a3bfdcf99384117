package keypair

import (
	"context"
	"errors"
	"io"
	"sync"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/log"
)

// ErrNotFound is returned by Require when no keypair has been persisted.
var ErrNotFound = errors.New("keypair: no keypair persisted")

// Service manages the dapp encryption keypair using a backing store.
//
// The keypair is created lazily on first use, written once, and then reused
// for every request. A loaded keypair is cached for the life of the Service.
type Service struct {
	store domain.KeyPairStore
	rand  io.Reader

	mu     sync.Mutex
	cached *domain.KeyPair
}

// New returns a keypair service backed by the given store.
func New(s domain.KeyPairStore) *Service { return &Service{store: s} }

// WithRand sets the entropy source used for generation (tests).
func (s *Service) WithRand(r io.Reader) *Service {
	s.rand = r
	return s
}

// GetOrCreate returns the persisted keypair, generating and persisting a new
// one if none exists. A backend error is returned as a persistence failure
// rather than treated as "missing".
func (s *Service) GetOrCreate(ctx context.Context) (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.KeyPair{}, err
	}

	kp, ok, err := s.loadLocked()
	if err != nil {
		return domain.KeyPair{}, err
	}
	if ok {
		return kp, nil
	}

	kp, err = crypto.GenerateKeyPair(s.rand)
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.store.SaveKeyPair(kp); err != nil {
		return domain.KeyPair{}, domain.NewFailure(domain.FailurePersistence, "save keypair", err)
	}
	log.Infof("generated dapp encryption keypair %s", crypto.Fingerprint(kp.PublicKey))
	s.cached = &kp
	return kp, nil
}

// Load returns the persisted keypair without creating one.
func (s *Service) Load(ctx context.Context) (domain.KeyPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, true, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.KeyPair{}, false, err
	}
	return s.loadLocked()
}

// Require is Load that treats absence as ErrNotFound.
func (s *Service) Require(ctx context.Context) (domain.KeyPair, error) {
	kp, ok, err := s.Load(ctx)
	if err != nil {
		return domain.KeyPair{}, err
	}
	if !ok {
		return domain.KeyPair{}, ErrNotFound
	}
	return kp, nil
}

// Reset discards the persisted keypair. The next GetOrCreate generates a new
// one, which invalidates any wallet session sealed to the old key.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cached != nil {
		crypto.WipeKeyPair(s.cached)
		s.cached = nil
	}
	if err := s.store.DeleteKeyPair(); err != nil {
		return domain.NewFailure(domain.FailurePersistence, "delete keypair", err)
	}
	log.Warnf("dapp encryption keypair reset")
	return nil
}

func (s *Service) loadLocked() (domain.KeyPair, bool, error) {
	kp, ok, err := s.store.LoadKeyPair()
	if err != nil {
		return domain.KeyPair{}, false, domain.NewFailure(domain.FailurePersistence, "load keypair", err)
	}
	if !ok {
		return domain.KeyPair{}, false, nil
	}
	if err := crypto.CheckKeyPair(kp); err != nil {
		return domain.KeyPair{}, false, domain.NewFailure(domain.FailurePersistence, "load keypair", err)
	}
	s.cached = &kp
	return kp, true, nil
}

// Compile-time assertion that Service implements domain.KeyPairService.
var _ domain.KeyPairService = (*Service)(nil)
