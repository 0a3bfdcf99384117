package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"walletlink/internal/domain"
)

// Fingerprint returns a short display fingerprint of a public key: the first
// 10 bytes of its SHA-256, hex encoded in groups of four.
func Fingerprint(pub domain.X25519Public) string {
	sum := sha256.Sum256(pub[:])
	h := hex.EncodeToString(sum[:10])
	var b strings.Builder
	for i := 0; i < len(h); i += 4 {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(h[i:min(i+4, len(h))])
	}
	return b.String()
}
