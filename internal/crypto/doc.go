// Package crypto exposes the minimal primitives used by walletlink.
//
// Contents
//
//   - Box keypair generation and the public/secret consistency check
//     (GenerateKeyPair, PublicFromSecret, CheckKeyPair)
//   - The BoxCipher capability (NaClBox: X25519 + XSalsa20-Poly1305) and
//     nonce generation (NewNonce)
//   - Transport text codecs for URL parameters (Base58, Base64, CodecFor)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Keys are the fixed-size array types defined in internal/domain. Callers
// should treat secret keys as sensitive and rely on Wipe when practical to
// reduce their lifetime in memory.
package crypto
