package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"walletlink/internal/domain"
)

// KeyPairKey is the fixed key the keypair record is stored under.
const KeyPairKey = "phantom_encryption_keypair"

// ErrCorruptKeyPair is returned when a persisted record cannot be decoded
// into a 32-byte public key and a 32-byte secret key.
var ErrCorruptKeyPair = errors.New("store: corrupt keypair record")

// keyPairRecord mirrors the persisted layout: both keys as arrays of byte
// values, e.g. {"publicKey":[12,250,...],"secretKey":[...]}.
type keyPairRecord struct {
	PublicKey []int `json:"publicKey"`
	SecretKey []int `json:"secretKey"`
}

func encodeKeyPair(kp domain.KeyPair) ([]byte, error) {
	rec := keyPairRecord{
		PublicKey: make([]int, len(kp.PublicKey)),
		SecretKey: make([]int, len(kp.SecretKey)),
	}
	for i, b := range kp.PublicKey {
		rec.PublicKey[i] = int(b)
	}
	for i, b := range kp.SecretKey {
		rec.SecretKey[i] = int(b)
	}
	return json.Marshal(rec)
}

func decodeKeyPair(raw []byte) (domain.KeyPair, error) {
	var rec keyPairRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", ErrCorruptKeyPair, err)
	}
	var kp domain.KeyPair
	if err := fillKey(kp.PublicKey[:], rec.PublicKey, "publicKey"); err != nil {
		return domain.KeyPair{}, err
	}
	if err := fillKey(kp.SecretKey[:], rec.SecretKey, "secretKey"); err != nil {
		return domain.KeyPair{}, err
	}
	return kp, nil
}

func fillKey(dst []byte, vals []int, field string) error {
	if len(vals) != len(dst) {
		return fmt.Errorf("%w: %s has %d bytes, want %d", ErrCorruptKeyPair, field, len(vals), len(dst))
	}
	for i, v := range vals {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: %s[%d]=%d out of range", ErrCorruptKeyPair, field, i, v)
		}
		dst[i] = byte(v)
	}
	return nil
}
