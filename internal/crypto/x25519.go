package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"walletlink/internal/domain"
)

// ErrKeyMismatch is returned when a public key is not the base-point
// multiple of its secret key.
var ErrKeyMismatch = errors.New("crypto: public key does not match secret key")

// GenerateKeyPair returns a fresh box keypair drawn from r, or from
// crypto/rand when r is nil.
func GenerateKeyPair(r io.Reader) (domain.KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	pub, priv, err := box.GenerateKey(r)
	if err != nil {
		return domain.KeyPair{}, err
	}
	kp := domain.KeyPair{PublicKey: *pub, SecretKey: *priv}
	Wipe(priv[:])
	return kp, nil
}

// PublicFromSecret derives the public key for secret.
func PublicFromSecret(secret domain.X25519Private) domain.X25519Public {
	var pub, priv [32]byte
	priv = secret
	curve25519.ScalarBaseMult(&pub, &priv)
	Wipe(priv[:])
	return pub
}

// CheckKeyPair verifies that kp.PublicKey belongs to kp.SecretKey.
func CheckKeyPair(kp domain.KeyPair) error {
	want := PublicFromSecret(kp.SecretKey)
	if subtle.ConstantTimeCompare(want[:], kp.PublicKey[:]) != 1 {
		return ErrKeyMismatch
	}
	return nil
}
