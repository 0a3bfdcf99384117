package interfaces

import (
	"context"

	domaintypes "walletlink/internal/domain/types"
)

// KeyPairService owns the lifecycle of the dapp encryption keypair.
type KeyPairService interface {
	GetOrCreate(ctx context.Context) (domaintypes.KeyPair, error)
	Load(ctx context.Context) (domaintypes.KeyPair, bool, error)
	Reset(ctx context.Context) error
}

// SessionService holds the current wallet session.
type SessionService interface {
	Establish(session domaintypes.WalletSession) error
	Current() (domaintypes.WalletSession, bool, error)
	Clear() error
}
