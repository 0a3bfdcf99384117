package store

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// envelopeVersion is the newest sealed keypair format this build reads.
const envelopeVersion = 1

// ErrWrongPassphrase is returned when a sealed keypair does not open, either
// because the passphrase is wrong or the file was modified.
var ErrWrongPassphrase = errors.New("store: wrong passphrase or corrupted keypair")

// ErrPassphraseRequired is returned when a sealed keypair is read without a
// passphrase.
var ErrPassphraseRequired = errors.New("store: keypair is passphrase protected")

// envelope is the on-disk form of a passphrase-protected keypair record.
type envelope struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// scrypt cost for new envelopes.
var scryptN, scryptR, scryptP = 1 << 15, 8, 1

// seal encrypts record under a key derived from passphrase.
func seal(passphrase string, record []byte) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	aead, err := envelopeAEAD(passphrase, salt[:], scryptN, scryptR, scryptP)
	if err != nil {
		return nil, err
	}
	// Zero nonce: every envelope gets a fresh salt and so a fresh key.
	var nonce [chacha20poly1305.NonceSize]byte
	return json.Marshal(envelope{
		V:      envelopeVersion,
		Salt:   salt[:],
		N:      scryptN,
		R:      scryptR,
		P:      scryptP,
		Cipher: aead.Seal(nil, nonce[:], record, salt[:]),
	})
}

// unseal opens an envelope produced by seal.
func unseal(passphrase string, b []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptKeyPair, err)
	}
	if env.V > envelopeVersion {
		return nil, fmt.Errorf("store: unsupported keypair envelope version %d", env.V)
	}
	aead, err := envelopeAEAD(passphrase, env.Salt, env.N, env.R, env.P)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func envelopeAEAD(passphrase string, salt []byte, n, r, p int) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, n, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}

// isSealed reports whether b looks like an envelope rather than a plain
// keypair record.
func isSealed(b []byte) bool {
	return bytes.Contains(b, []byte(`"cipher"`)) && bytes.Contains(b, []byte(`"scrypt_N"`))
}
