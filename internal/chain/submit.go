package chain

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"

	"walletlink/internal/domain"
)

// DefaultRPCURL is the public devnet endpoint.
const DefaultRPCURL = "https://api.devnet.solana.com"

// RPCSubmitter sends signed transactions through a Solana JSON-RPC node.
type RPCSubmitter struct {
	client *rpc.Client
}

// NewRPCSubmitter returns a submitter for endpoint.
func NewRPCSubmitter(endpoint string) *RPCSubmitter {
	if endpoint == "" {
		endpoint = DefaultRPCURL
	}
	return &RPCSubmitter{client: rpc.New(endpoint)}
}

// Submit broadcasts signed and returns the transaction signature.
func (s *RPCSubmitter) Submit(ctx context.Context, signed []byte) (string, error) {
	if _, err := DecodeTransaction(signed); err != nil {
		return "", err
	}
	sig, err := s.client.SendRawTransaction(ctx, signed)
	if err != nil {
		return "", fmt.Errorf("chain: send transaction: %w", err)
	}
	return sig.String(), nil
}

var _ domain.PayloadSubmitter = (*RPCSubmitter)(nil)
