package types

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 secret scalar.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// KeyPair is the dapp encryption keypair. It is generated once per
// installation and reused for every request until explicitly reset.
//
// Fixed-size arrays marshal as JSON number arrays, which is the persisted
// record format.
type KeyPair struct {
	PublicKey X25519Public  `json:"publicKey"`
	SecretKey X25519Private `json:"secretKey"`
}

// IsZero reports whether the keypair is unset.
func (k KeyPair) IsZero() bool {
	return k.PublicKey == X25519Public{} && k.SecretKey == X25519Private{}
}
