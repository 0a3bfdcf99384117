package types

import "fmt"

// ConnectionState is the status of one handshake flow.
type ConnectionState int

const (
	StateIdle ConnectionState = iota
	StateConnecting
	StateConnected
	StateSigning
	StateSuccess
	StateError
	StateExpired
)

func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateSigning:
		return "signing"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	case StateExpired:
		return "expired"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Succeeded reports whether s is a success terminal state.
func (s ConnectionState) Succeeded() bool {
	return s == StateConnected || s == StateSuccess
}

// Active reports whether a request is outstanding with the peer.
func (s ConnectionState) Active() bool {
	return s == StateConnecting || s == StateSigning
}

// OperationKind names the peer action a flow is waiting on. The value is
// also the last path segment of both the request and the redirect URL.
type OperationKind string

const (
	OpConnect         OperationKind = "connect"
	OpSignTransaction OperationKind = "signTransaction"
)

// Cluster is the Solana network the peer should use.
type Cluster string

const (
	ClusterDevnet      Cluster = "devnet"
	ClusterTestnet     Cluster = "testnet"
	ClusterMainnetBeta Cluster = "mainnet-beta"
)

// Valid reports whether c is a known cluster.
func (c Cluster) Valid() bool {
	switch c {
	case ClusterDevnet, ClusterTestnet, ClusterMainnetBeta:
		return true
	}
	return false
}

// Encoding is the text framing of binary values carried in URL parameters.
type Encoding string

const (
	EncodingBase58 Encoding = "base58"
	EncodingBase64 Encoding = "base64"
)

// SignablePayload is an opaque transaction handed to the peer for signing,
// plus what the user is shown before confirming.
type SignablePayload struct {
	Bytes            []byte
	FeePayer         string
	RecentBlockhash  string
	InstructionCount int
}
