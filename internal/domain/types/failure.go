package types

import (
	"errors"
	"fmt"
)

// FailureKind classifies handshake failures.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureInvalidInput
	FailureDecryption
	FailurePeerRejected
	FailureTimeout
	FailurePersistence
)

func (k FailureKind) String() string {
	switch k {
	case FailureInvalidInput:
		return "invalid input"
	case FailureDecryption:
		return "decryption failure"
	case FailurePeerRejected:
		return "peer rejected"
	case FailureTimeout:
		return "timeout"
	case FailurePersistence:
		return "persistence failure"
	default:
		return "unknown"
	}
}

// Failure is the typed error surfaced to callers and stored on a flow.
// Code carries the peer's error code for FailurePeerRejected.
type Failure struct {
	Kind    FailureKind
	Code    string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" && f.Err != nil {
		msg = f.Err.Error()
	}
	if f.Code != "" {
		return fmt.Sprintf("%s (%s): %s", f.Kind, f.Code, msg)
	}
	return fmt.Sprintf("%s: %s", f.Kind, msg)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure returns a Failure of kind wrapping err.
func NewFailure(kind FailureKind, msg string, err error) *Failure {
	return &Failure{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the FailureKind carried anywhere in err's chain.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUnknown
}
