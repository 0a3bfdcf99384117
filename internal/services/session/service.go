package session

import (
	"errors"
	"sync"
	"time"

	"walletlink/internal/domain"
	"walletlink/internal/log"
)

// ErrInvalidSession is returned when establishing a session without a
// session token or peer key.
var ErrInvalidSession = errors.New("session: missing session token or peer key")

// Service holds the wallet session for one cluster and mirrors it to an
// optional store so later processes can sign with it.
//
// It replaces any ambient process-wide session state: the redirect flow
// writes through Establish, sign requests read through Current.
type Service struct {
	cluster domain.Cluster
	store   domain.SessionStore // may be nil
	now     func() time.Time

	mu      sync.RWMutex
	current *domain.WalletSession
	loaded  bool
}

// New constructs a session Service for cluster.
func New(cluster domain.Cluster, store domain.SessionStore) *Service {
	return &Service{cluster: cluster, store: store, now: time.Now}
}

// Cluster returns the network this service's sessions belong to.
func (s *Service) Cluster() domain.Cluster { return s.cluster }

// Establish records a newly connected wallet session, overwriting the
// previous one.
func (s *Service) Establish(ws domain.WalletSession) error {
	if !ws.Valid() {
		return ErrInvalidSession
	}
	ws.Cluster = s.cluster
	if ws.ConnectedUTC == 0 {
		ws.ConnectedUTC = s.now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveSession(s.cluster, ws); err != nil {
			return domain.NewFailure(domain.FailurePersistence, "save session", err)
		}
	}
	s.current = &ws
	s.loaded = true
	log.Debugf("wallet session established for %s on %s", log.Truncate(ws.WalletPublicKey, 8), s.cluster)
	return nil
}

// Current returns the active session, reading the store on first use.
func (s *Service) Current() (domain.WalletSession, bool, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		if s.current == nil {
			return domain.WalletSession{}, false, nil
		}
		return *s.current, true, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded && s.store != nil {
		ws, ok, err := s.store.LoadSession(s.cluster)
		if err != nil {
			return domain.WalletSession{}, false, domain.NewFailure(domain.FailurePersistence, "load session", err)
		}
		if ok {
			s.current = &ws
		}
	}
	s.loaded = true
	if s.current == nil {
		return domain.WalletSession{}, false, nil
	}
	return *s.current, true, nil
}

// Clear forgets the session, e.g. after the peer reports it disconnected.
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.loaded = true
	if s.store != nil {
		if err := s.store.DeleteSession(s.cluster); err != nil {
			return domain.NewFailure(domain.FailurePersistence, "delete session", err)
		}
	}
	return nil
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
