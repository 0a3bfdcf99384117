// Package flow dispatches wallet redirects into exactly one outcome.
//
// A Flow lives as long as one screen or CLI request. Redirects reach it from
// an initial URL, a live subscription, or direct calls to Deliver; all paths
// share one processed-URL set and a single-flight guard, so the same URL is
// applied once and a success is never replaced by a later failure.
//
// States: Idle -> Connecting -> Connected | Error | Expired for connect,
// Idle -> Signing -> Success | Error | Expired for sign. Retry moves Error
// back to Idle. A timer forces Error with a timeout failure if the wallet
// does not answer in time.
package flow
