package deeplink

import (
	"errors"
	"fmt"

	"walletlink/internal/domain"
)

var (
	// ErrNoSession is returned when a sign request is built without a session.
	ErrNoSession = errors.New("deeplink: no wallet session")
	// ErrNoPeerKey is returned when a sign request is built without the
	// peer's encryption key.
	ErrNoPeerKey = errors.New("deeplink: no peer encryption key")
	// ErrMissingParam is returned when a redirect lacks data or nonce.
	ErrMissingParam = errors.New("deeplink: missing redirect parameter")
	// ErrBoxOpen is returned when the sealed box fails authentication.
	ErrBoxOpen = errors.New("deeplink: box open failed")
)

func invalid(format string, args ...any) *domain.Failure {
	msg := fmt.Sprintf(format, args...)
	return domain.NewFailure(domain.FailureInvalidInput, msg, errors.New(msg))
}

func invalidErr(msg string, err error) *domain.Failure {
	return domain.NewFailure(domain.FailureInvalidInput, fmt.Sprintf("%s: %v", msg, err), err)
}

// Peer error codes observed on redirects.
const (
	CodeUserRejected        = "4001"
	CodeUnauthorized        = "4100"
	CodeDisconnected        = "4900"
	CodeInvalidInput        = "-32000"
	CodeResourceUnavailable = "-32002"
	CodeTransactionRejected = "-32003"
	CodeMethodNotFound      = "-32601"
	CodeInternalError       = "-32603"
)

var peerMessages = map[string]string{
	CodeUserRejected:        "the user rejected the request",
	CodeUnauthorized:        "the wallet has not authorized this account or method, reconnect first",
	CodeDisconnected:        "the wallet is disconnected, reconnect first",
	CodeInvalidInput:        "the wallet rejected the request parameters",
	CodeResourceUnavailable: "the requested resource is not available",
	CodeTransactionRejected: "the wallet rejected the transaction",
	CodeMethodNotFound:      "the wallet does not support this method",
	CodeInternalError: "internal wallet error; check the dapp key is base58, " +
		"the redirect link and app URL are valid and not blocklisted, " +
		"and the app is registered in the wallet's developer portal",
}

// PeerFailure maps an error redirect to a PeerRejected failure with a
// human-readable message.
func PeerFailure(code, message string) *domain.Failure {
	msg, ok := peerMessages[code]
	switch {
	case !ok && message != "":
		msg = message
	case !ok:
		msg = "the wallet returned an error"
	case message != "":
		msg = msg + " (" + message + ")"
	}
	return &domain.Failure{
		Kind:    domain.FailurePeerRejected,
		Code:    code,
		Message: msg,
	}
}

// EndsSession reports whether a peer error code means the stored session can
// no longer be used and a new connect is required.
func EndsSession(code string) bool {
	return code == CodeUnauthorized || code == CodeDisconnected
}
