package interfaces

import domaintypes "walletlink/internal/domain/types"

// KeyPairStore persists the dapp encryption keypair under a fixed key.
type KeyPairStore interface {
	// LoadKeyPair reports ok=false when nothing has been persisted yet.
	LoadKeyPair() (kp domaintypes.KeyPair, ok bool, err error)
	SaveKeyPair(kp domaintypes.KeyPair) error
	DeleteKeyPair() error
}

// SessionStore persists the wallet session per cluster so a sign request
// can be issued by a later process than the one that connected.
type SessionStore interface {
	SaveSession(cluster domaintypes.Cluster, session domaintypes.WalletSession) error
	LoadSession(cluster domaintypes.Cluster) (domaintypes.WalletSession, bool, error)
	DeleteSession(cluster domaintypes.Cluster) error
}
