package app

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"walletlink/internal/chain"
	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/pending"
	"walletlink/internal/protocol/deeplink"
	keypairsvc "walletlink/internal/services/keypair"
	sessionsvc "walletlink/internal/services/session"
	walletsvc "walletlink/internal/services/wallet"
	"walletlink/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config    Config
	KeyPairs  *keypairsvc.Service
	Sessions  *sessionsvc.Service
	Codec     *deeplink.Codec
	Broker    *pending.Broker
	Submitter domain.PayloadSubmitter
	HTTP      *http.Client

	closers []io.Closer
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	w := &Wire{Config: cfg}

	// Keypair store: one JSON file, or a row in SQLite.
	var kpStore domain.KeyPairStore
	switch cfg.KeyPair.Backend {
	case BackendSQLite:
		if cfg.KeyPair.Passphrase != "" {
			return nil, errors.New("keypair passphrase is only supported by the file backend")
		}
		path := cfg.KeyPair.Path
		if path == "" {
			path = filepath.Join(cfg.Home, "walletlink.db")
		}
		db, err := store.OpenKeyPairSQLite(path)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, db)
		kpStore = db
	default:
		dir := cfg.KeyPair.Path
		if dir == "" {
			dir = cfg.Home
		}
		kpStore = store.NewKeyPairFileStore(dir).WithPassphrase(cfg.KeyPair.Passphrase)
	}
	sessionStore := store.NewSessionFileStore(cfg.Home)

	codec, err := deeplink.New(deeplink.Config{
		BaseURL:         cfg.Peer.BaseURL,
		ConnectEncoding: cfg.Encoding.Connect,
		SignEncoding:    cfg.Encoding.Sign,
	}, crypto.NaClBox{})
	if err != nil {
		w.Close()
		return nil, err
	}

	policy := pending.ReplacePrior
	if cfg.Pending.Conflict == ConflictReject {
		policy = pending.RejectNew
	}

	w.HTTP = cfg.HTTP
	if w.HTTP == nil {
		w.HTTP = http.DefaultClient
	}

	w.KeyPairs = keypairsvc.New(kpStore)
	w.Sessions = sessionsvc.New(cfg.Peer.Cluster, sessionStore)
	w.Codec = codec
	w.Broker = pending.NewBroker(policy)
	w.Submitter = chain.NewRPCSubmitter(cfg.Solana.RPCURL)
	return w, nil
}

// Wallet returns the caller-facing service reading redirects from src and
// opening request URLs with opener. extra lists additional accepted
// redirect prefixes per operation.
func (w *Wire) Wallet(src domain.RedirectSource, opener domain.URLOpener, extra map[domain.OperationKind][]string) *walletsvc.Service {
	cfg := w.Config
	return walletsvc.New(walletsvc.Config{
		Cluster:         cfg.Peer.Cluster,
		AppURL:          cfg.Peer.AppURL,
		ConnectRedirect: cfg.Redirect.Connect,
		SignRedirect:    cfg.Redirect.Sign,
		ExtraPrefixes:   extra,
		ConnectTimeout:  cfg.Timeouts.Connect,
		SignTimeout:     cfg.Timeouts.Sign,
	}, w.Codec, w.KeyPairs, w.Sessions, w.Broker, src, opener).WithSubmitter(w.Submitter)
}

// Close releases stores that hold resources.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}
