package domain

import (
	interfaces "walletlink/internal/domain/interfaces"
	types "walletlink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	X25519Public    = types.X25519Public
	X25519Private   = types.X25519Private
	KeyPair         = types.KeyPair
	WalletSession   = types.WalletSession
	ConnectResult   = types.ConnectResult
	ConnectionState = types.ConnectionState
	OperationKind   = types.OperationKind
	Cluster         = types.Cluster
	Encoding        = types.Encoding
	SignablePayload = types.SignablePayload
	Redirect        = types.Redirect
	Failure         = types.Failure
	FailureKind     = types.FailureKind
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyPairStore     = interfaces.KeyPairStore
	SessionStore     = interfaces.SessionStore
	KeyPairService   = interfaces.KeyPairService
	SessionService   = interfaces.SessionService
	PayloadSource    = interfaces.PayloadSource
	PayloadSubmitter = interfaces.PayloadSubmitter
	URLOpener        = interfaces.URLOpener
	RedirectSource   = interfaces.RedirectSource
)

const (
	StateIdle       = types.StateIdle
	StateConnecting = types.StateConnecting
	StateConnected  = types.StateConnected
	StateSigning    = types.StateSigning
	StateSuccess    = types.StateSuccess
	StateError      = types.StateError
	StateExpired    = types.StateExpired

	OpConnect         = types.OpConnect
	OpSignTransaction = types.OpSignTransaction

	ClusterDevnet      = types.ClusterDevnet
	ClusterTestnet     = types.ClusterTestnet
	ClusterMainnetBeta = types.ClusterMainnetBeta

	EncodingBase58 = types.EncodingBase58
	EncodingBase64 = types.EncodingBase64

	FailureUnknown      = types.FailureUnknown
	FailureInvalidInput = types.FailureInvalidInput
	FailureDecryption   = types.FailureDecryption
	FailurePeerRejected = types.FailurePeerRejected
	FailureTimeout      = types.FailureTimeout
	FailurePersistence  = types.FailurePersistence
)

// NewFailure returns a Failure of kind wrapping err.
func NewFailure(kind FailureKind, msg string, err error) *Failure {
	return types.NewFailure(kind, msg, err)
}

// KindOf returns the FailureKind carried anywhere in err's chain.
func KindOf(err error) FailureKind { return types.KindOf(err) }
