package types

// WalletSession is what a successful connect leaves behind: the wallet
// account, the opaque session token and the peer's encryption key used to
// seal every later sign request.
type WalletSession struct {
	Cluster         Cluster `json:"cluster"`
	WalletPublicKey string  `json:"wallet_public_key"`
	Session         string  `json:"session"`
	PeerPublicKey   string  `json:"peer_public_key"` // base58
	ConnectedUTC    int64   `json:"connected_utc"`
}

// Valid reports whether the session can seal a sign request.
func (s WalletSession) Valid() bool {
	return s.Session != "" && s.PeerPublicKey != ""
}

// ConnectResult is the decrypted body of a connect redirect.
// PeerPublicKey is normalised to base58 whatever framing the redirect used.
type ConnectResult struct {
	WalletPublicKey string
	Session         string
	PeerPublicKey   string
}
