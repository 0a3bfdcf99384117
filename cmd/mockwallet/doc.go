// Package main runs a simulated wallet over HTTP for local development and
// end-to-end tests of the walletlink CLI.
//
// HTTP API
//
//	GET /ul/v1/connect?dapp_encryption_public_key=...&redirect_link=...&app_url=...&cluster=...
//	    Approve the connection: issue a session and redirect (302) to
//	    redirect_link with data, nonce and phantom_encryption_public_key.
//
//	GET /ul/v1/signTransaction?dapp_encryption_public_key=...&nonce=...&payload=...&redirect_link=...
//	    Open the sealed {transaction, session}, sign the transaction with the
//	    wallet's account key and redirect with the sealed signed_transaction.
//
//	GET /healthz
//	    Return the wallet's account address.
//
// Behaviour
//
//   - Keys and sessions are held in memory and lost on process exit.
//   - --reject makes every request redirect with errorCode instead.
//   - A sign request for an unknown session redirects with errorCode=4100.
//
// Point the CLI at it with peer.base_url: http://127.0.0.1:8090/ul/v1 and run
// connect/sign with --via-http.
package main
