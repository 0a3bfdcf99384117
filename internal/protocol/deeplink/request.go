package deeplink

import (
	"encoding/json"
	"net/url"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
)

// BuildConnectURL returns the connect request URL. dappPublicKey must be the
// base58 form of a 32-byte key.
func (c *Codec) BuildConnectURL(dappPublicKey, redirectLink string, cluster domain.Cluster, appURL string) (string, error) {
	if _, err := crypto.DecodeKey(crypto.Base58{}, dappPublicKey); err != nil {
		return "", invalidErr("dapp public key", err)
	}
	if err := checkLinks(redirectLink, appURL, cluster); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set(ParamDappEncryptionPublicKey, dappPublicKey)
	q.Set(ParamRedirectLink, redirectLink)
	q.Set(ParamAppURL, appURL)
	q.Set(ParamCluster, string(cluster))
	return c.endpoint(domain.OpConnect) + "?" + q.Encode(), nil
}

// SignRequest carries everything needed to seal a sign request.
type SignRequest struct {
	Payload       []byte
	Session       string
	KeyPair       domain.KeyPair
	PeerPublicKey string // base58
	RedirectLink  string
	Cluster       domain.Cluster
	AppURL        string
}

// BuildSignURL seals {transaction, session} to the peer with a fresh nonce
// and returns the sign request URL. A missing session or peer key is a
// caller bug and is not retryable.
func (c *Codec) BuildSignURL(req SignRequest) (string, error) {
	if req.Session == "" {
		return "", ErrNoSession
	}
	if req.PeerPublicKey == "" {
		return "", ErrNoPeerKey
	}
	if len(req.Payload) == 0 {
		return "", invalid("empty payload")
	}
	if req.KeyPair.IsZero() {
		return "", invalid("dapp keypair not initialised")
	}
	peer, err := crypto.DecodeKey(crypto.Base58{}, req.PeerPublicKey)
	if err != nil {
		return "", invalidErr("peer public key", err)
	}
	if err := checkLinks(req.RedirectLink, req.AppURL, req.Cluster); err != nil {
		return "", err
	}

	plaintext, err := json.Marshal(signPayload{
		Transaction: crypto.B64(req.Payload),
		Session:     req.Session,
	})
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(plaintext)

	nonce, err := crypto.NewNonce(c.rand)
	if err != nil {
		return "", err
	}
	sealed := c.box.Seal(plaintext, nonce, peer, req.KeyPair.SecretKey)

	q := url.Values{}
	q.Set(ParamDappEncryptionPublicKey, crypto.B58(req.KeyPair.PublicKey[:]))
	q.Set(ParamNonce, crypto.B58(nonce[:]))
	q.Set(ParamRedirectLink, req.RedirectLink)
	q.Set(ParamPayload, crypto.B58(sealed))
	q.Set(ParamAppURL, req.AppURL)
	q.Set(ParamCluster, string(req.Cluster))
	return c.endpoint(domain.OpSignTransaction) + "?" + q.Encode(), nil
}

func checkLinks(redirectLink, appURL string, cluster domain.Cluster) error {
	if redirectLink == "" {
		return invalid("redirect link is empty")
	}
	if u, err := url.Parse(redirectLink); err != nil || u.Scheme == "" {
		return invalid("redirect link %q is not an absolute URL", redirectLink)
	}
	if appURL == "" {
		return invalid("app URL is empty")
	}
	if u, err := url.Parse(appURL); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("app URL %q is not an absolute URL", appURL)
	}
	if !cluster.Valid() {
		return invalid("unknown cluster %q", cluster)
	}
	return nil
}
