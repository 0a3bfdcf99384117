// Package session tracks the wallet session produced by a connect handshake.
//
// It stores the wallet public key, the opaque session token and the peer's
// encryption key, persists them per cluster, and exposes them to the sign
// flow.
package session
