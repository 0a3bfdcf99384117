// Package chain adapts Solana transactions to the handshake: it inspects
// the payload shown to the user, reads payloads from disk, signs on behalf of
// the simulated wallet, and submits signed transactions over JSON-RPC.
package chain
