// Package commands defines the walletlink CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init      Create the dapp encryption keypair if it does not exist
//   - pubkey    Print the dapp public key and its fingerprint
//   - reset     Delete the keypair and forget the wallet session
//   - connect   Ask the wallet for its account and a session
//   - sign      Have the wallet sign a transaction, optionally submit it
//   - handle    Apply a redirect URL the wallet opened while we were not running
//   - status    Show the stored wallet session
//
// # Implementation
//
// The root command loads the YAML config and builds the dependency graph
// (stores, codec, broker, services) before any subcommand runs. Redirects
// reach a running command either through a loopback HTTP listener
// (--listen) or by pasting the redirect URL on stdin.
package commands
