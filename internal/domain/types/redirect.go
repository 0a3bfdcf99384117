package types

// Redirect is a parsed peer redirect. Either Data and Nonce are set, or the
// peer reported an error through ErrorCode/ErrorMessage.
type Redirect struct {
	Action        OperationKind
	Data          string
	Nonce         string
	PeerPublicKey string
	ErrorCode     string
	ErrorMessage  string
}

// IsError reports whether the peer answered with error parameters.
func (r Redirect) IsError() bool {
	return r.ErrorCode != "" || r.ErrorMessage != ""
}
