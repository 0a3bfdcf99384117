package crypto

import (
	"runtime"

	"walletlink/internal/domain"
)

// Wipe zeroes the provided buffer. This is best-effort and aims to
// reduce the chance of the compiler eliding the write.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}

// WipeKeyPair zeroes both halves of kp in place.
func WipeKeyPair(kp *domain.KeyPair) {
	if kp == nil {
		return
	}
	Wipe(kp.SecretKey[:])
	Wipe(kp.PublicKey[:])
}
