// Package wallet provides the caller-facing actions: connect to the wallet,
// sign a payload and wait for the result, and submit what came back.
//
// It owns no protocol logic of its own. URLs come from the deeplink codec,
// redirects are applied by a flow, and sign results travel through the
// pending broker.
package wallet
