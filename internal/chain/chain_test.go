package chain_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/chain"
)

// unsignedTransfer returns a wire-format transfer with a zeroed signature
// slot for payer, the way a dapp serialises it before the wallet signs.
func unsignedTransfer(t *testing.T, payer solana.PrivateKey) []byte {
	t.Helper()
	to, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1000, payer.PublicKey(), to.PublicKey()).Build(),
		},
		solana.Hash{1, 2, 3},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)
	tx.Signatures = make([]solana.Signature, 1)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestInspect(t *testing.T) {
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	p, err := chain.Inspect(unsignedTransfer(t, payer))
	require.NoError(t, err)
	assert.Equal(t, payer.PublicKey().String(), p.FeePayer)
	assert.Equal(t, 1, p.InstructionCount)
	assert.NotEmpty(t, p.RecentBlockhash)
}

func TestInspect_Garbage(t *testing.T) {
	_, err := chain.Inspect([]byte("claim-tx-bytes"))
	assert.ErrorIs(t, err, chain.ErrNotTransaction)
	_, err = chain.Inspect(nil)
	assert.ErrorIs(t, err, chain.ErrNotTransaction)
}

func TestSignTransaction(t *testing.T) {
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	signed, err := chain.SignTransaction(unsignedTransfer(t, payer), payer)
	require.NoError(t, err)

	tx, err := chain.DecodeTransaction(signed)
	require.NoError(t, err)
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())

	other, _ := solana.NewRandomPrivateKey()
	_, err = chain.SignTransaction(unsignedTransfer(t, payer), other)
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	payer, _ := solana.NewRandomPrivateKey()
	raw := unsignedTransfer(t, payer)
	dir := t.TempDir()

	b64 := filepath.Join(dir, "tx.b64")
	require.NoError(t, os.WriteFile(b64, []byte(base64.StdEncoding.EncodeToString(raw)+"\n"), 0o600))
	p, err := chain.FileSource{Path: b64}.SignablePayload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, p.Bytes)
	assert.Equal(t, payer.PublicKey().String(), p.FeePayer)

	bin := filepath.Join(dir, "tx.bin")
	require.NoError(t, os.WriteFile(bin, raw, 0o600))
	p, err = chain.FileSource{Path: bin}.SignablePayload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, p.Bytes)

	opaque := filepath.Join(dir, "blob")
	require.NoError(t, os.WriteFile(opaque, []byte("claim-tx-bytes"), 0o600))
	_, err = chain.FileSource{Path: opaque}.SignablePayload(context.Background())
	assert.ErrorIs(t, err, chain.ErrNotTransaction)
	p, err = chain.FileSource{Path: opaque, AllowOpaque: true}.SignablePayload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("claim-tx-bytes"), p.Bytes)
	assert.Empty(t, p.FeePayer)
}

func TestValidPublicKey(t *testing.T) {
	k, _ := solana.NewRandomPrivateKey()
	assert.True(t, chain.ValidPublicKey(k.PublicKey().String()))
	assert.False(t, chain.ValidPublicKey("Abc123"))
}
