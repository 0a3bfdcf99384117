// Package store provides persistence for walletlink's local state.
//
// It contains concrete implementations of the domain storage interfaces.
// All methods are concurrency-safe via internal locking. Files live under
// the user's configured home directory and are written atomically with
// 0600 permissions.
//
// The package includes stores for:
//   - The dapp encryption keypair as a JSON file (KeyPairFileStore),
//     optionally sealed under a passphrase (scrypt + ChaCha20-Poly1305)
//   - The same record in SQLite under a fixed key (KeyPairSQLiteStore)
//   - Wallet sessions keyed by cluster (SessionFileStore)
package store
