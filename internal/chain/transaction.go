package chain

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"walletlink/internal/domain"
)

// ErrNotTransaction is returned when bytes do not decode as a Solana
// transaction.
var ErrNotTransaction = errors.New("chain: not a solana transaction")

// DecodeTransaction parses a wire-format transaction.
func DecodeTransaction(raw []byte) (*solana.Transaction, error) {
	if len(raw) == 0 {
		return nil, ErrNotTransaction
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTransaction, err)
	}
	if len(tx.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("%w: no account keys", ErrNotTransaction)
	}
	return tx, nil
}

// Inspect returns raw as a SignablePayload with the details shown to the
// user before signing.
func Inspect(raw []byte) (domain.SignablePayload, error) {
	tx, err := DecodeTransaction(raw)
	if err != nil {
		return domain.SignablePayload{}, err
	}
	p := domain.SignablePayload{
		Bytes:            raw,
		FeePayer:         tx.Message.AccountKeys[0].String(),
		InstructionCount: len(tx.Message.Instructions),
	}
	if tx.Message.RecentBlockhash != (solana.Hash{}) {
		p.RecentBlockhash = tx.Message.RecentBlockhash.String()
	}
	return p, nil
}

// SignTransaction adds key's signature to the wire-format transaction raw.
// Placeholder signatures are dropped first; key must be the only required
// signer.
func SignTransaction(raw []byte, key solana.PrivateKey) ([]byte, error) {
	tx, err := DecodeTransaction(raw)
	if err != nil {
		return nil, err
	}
	tx.Signatures = nil
	pub := key.PublicKey()
	if _, err := tx.Sign(func(k solana.PublicKey) *solana.PrivateKey {
		if k.Equals(pub) {
			return &key
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("chain: sign: %w", err)
	}
	return tx.MarshalBinary()
}

// ValidPublicKey reports whether s is a base58 ed25519 account key.
func ValidPublicKey(s string) bool {
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}
