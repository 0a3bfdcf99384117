// Package redirect moves URLs between walletlink and the wallet.
//
// Inbound, a Channel carries redirects inside the process (launch URL plus
// live publications) and a Listener accepts http redirect links on a
// loopback port and republishes them. Outbound, openers hand request URLs to
// the wallet: printed with an optional QR code, or fetched over HTTP when the
// wallet is reachable that way.
//
// All requests accept a context for cancellation and deadlines. Non-3xx
// wallet responses are returned as errors carrying the request path and
// status text.
package redirect
