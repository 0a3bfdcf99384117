// Package deeplink implements the wallet's deep-link wire protocol.
//
// Outbound, it builds connect and signTransaction request URLs; sign
// requests carry a NaCl box sealed to the wallet's encryption key with the
// dapp's secret key. Inbound, it parses redirect URLs in both custom-scheme
// and https form and opens the sealed response.
//
// Response framing (base58 or base64 for data, nonce and peer key) is chosen
// per operation through Config. Every failure is a *domain.Failure whose Kind
// is InvalidInput, DecryptionFailure or PeerRejected; no function panics on
// malformed input.
package deeplink
