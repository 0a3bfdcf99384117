// Package keypair owns the dapp encryption keypair lifecycle: lazy creation,
// one-time persistence, cached reuse and explicit reset.
package keypair
