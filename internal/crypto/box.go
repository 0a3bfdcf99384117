package crypto

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/nacl/box"

	"walletlink/internal/domain"
)

// NonceSize is the XSalsa20-Poly1305 nonce length.
const NonceSize = 24

// BoxCipher seals and opens public-key authenticated boxes
// (X25519 + XSalsa20-Poly1305).
type BoxCipher interface {
	Seal(message []byte, nonce *[NonceSize]byte, peer domain.X25519Public, secret domain.X25519Private) []byte
	Open(sealed []byte, nonce *[NonceSize]byte, peer domain.X25519Public, secret domain.X25519Private) ([]byte, bool)
}

// NaClBox is the BoxCipher backed by golang.org/x/crypto/nacl/box.
type NaClBox struct{}

func (NaClBox) Seal(message []byte, nonce *[NonceSize]byte, peer domain.X25519Public, secret domain.X25519Private) []byte {
	pk := [32]byte(peer)
	sk := [32]byte(secret)
	defer Wipe(sk[:])
	return box.Seal(nil, message, nonce, &pk, &sk)
}

func (NaClBox) Open(sealed []byte, nonce *[NonceSize]byte, peer domain.X25519Public, secret domain.X25519Private) ([]byte, bool) {
	if len(sealed) < box.Overhead {
		return nil, false
	}
	pk := [32]byte(peer)
	sk := [32]byte(secret)
	defer Wipe(sk[:])
	return box.Open(nil, sealed, nonce, &pk, &sk)
}

// NewNonce reads a fresh nonce from r, or from crypto/rand when r is nil.
func NewNonce(r io.Reader) (*[NonceSize]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	var n [NonceSize]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, err
	}
	return &n, nil
}

var _ BoxCipher = NaClBox{}
