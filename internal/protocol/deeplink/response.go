package deeplink

import (
	"strings"

	"github.com/tidwall/gjson"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
)

// DecryptConnectResponse opens a connect redirect. data, nonce and
// peerPublicKey are in the connect framing.
func (c *Codec) DecryptConnectResponse(data, nonce string, secret domain.X25519Private, peerPublicKey string) (domain.ConnectResult, error) {
	peer, err := c.PeerKey(domain.OpConnect, peerPublicKey)
	if err != nil {
		return domain.ConnectResult{}, err
	}
	plaintext, err := c.open(c.connect, data, nonce, secret, peer)
	if err != nil {
		return domain.ConnectResult{}, err
	}
	defer crypto.Wipe(plaintext)

	wallet := firstString(plaintext, fieldPublicKey, fieldPublicKeyAlt)
	if wallet == "" {
		return domain.ConnectResult{}, invalid("connect response has no public key")
	}
	session := firstString(plaintext, fieldSession)
	if session == "" {
		return domain.ConnectResult{}, invalid("connect response has no session")
	}
	return domain.ConnectResult{
		WalletPublicKey: wallet,
		Session:         session,
		PeerPublicKey:   crypto.B58(peer[:]),
	}, nil
}

// DecryptSignResponse opens a sign redirect and returns the signed payload.
// data, nonce and peerPublicKey are in the sign framing.
func (c *Codec) DecryptSignResponse(data, nonce string, secret domain.X25519Private, peerPublicKey string) ([]byte, error) {
	peer, err := c.PeerKey(domain.OpSignTransaction, peerPublicKey)
	if err != nil {
		return nil, err
	}
	return c.DecryptSignResponseWithKey(data, nonce, secret, peer)
}

// DecryptSignResponseWithKey is DecryptSignResponse for redirects that omit
// the peer key, using the one remembered from the connect step.
func (c *Codec) DecryptSignResponseWithKey(data, nonce string, secret domain.X25519Private, peer domain.X25519Public) ([]byte, error) {
	plaintext, err := c.open(c.sign, data, nonce, secret, peer)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(plaintext)

	field := firstString(plaintext, fieldSignedTransaction, fieldSignedTransactionAlt)
	if field == "" {
		return nil, invalid("sign response has no signed transaction")
	}
	signed, err := crypto.Base64{}.Decode(field)
	if err != nil {
		return nil, invalidErr("signed transaction", err)
	}
	if len(signed) == 0 {
		return nil, invalid("signed transaction is empty")
	}
	return signed, nil
}

// PeerKey decodes a peer public key in kind's framing.
func (c *Codec) PeerKey(kind domain.OperationKind, s string) (domain.X25519Public, error) {
	if s == "" {
		return domain.X25519Public{}, invalid("redirect has no %s", ParamPeerEncryptionPublicKey)
	}
	k, err := crypto.DecodeKey(c.codecFor(kind), s)
	if err != nil {
		return domain.X25519Public{}, invalidErr(ParamPeerEncryptionPublicKey, err)
	}
	return k, nil
}

func (c *Codec) open(codec crypto.TextCodec, data, nonce string, secret domain.X25519Private, peer domain.X25519Public) ([]byte, error) {
	nb, err := codec.Decode(nonce)
	if err != nil {
		return nil, invalidErr("nonce", err)
	}
	if len(nb) != crypto.NonceSize {
		return nil, invalid("nonce is %d bytes, want %d", len(nb), crypto.NonceSize)
	}
	sealed, err := codec.Decode(data)
	if err != nil {
		return nil, invalidErr("data", err)
	}

	var n [crypto.NonceSize]byte
	copy(n[:], nb)
	plaintext, ok := c.box.Open(sealed, &n, peer, secret)
	if !ok {
		return nil, domain.NewFailure(domain.FailureDecryption, "could not decrypt wallet response", ErrBoxOpen)
	}
	if !gjson.ValidBytes(plaintext) {
		crypto.Wipe(plaintext)
		return nil, invalid("decrypted response is not JSON")
	}
	return plaintext, nil
}

// firstString returns the first non-empty string value among paths.
func firstString(doc []byte, paths ...string) string {
	for _, p := range paths {
		r := gjson.GetBytes(doc, p)
		if r.Type == gjson.String && r.Str != "" {
			return strings.Clone(r.Str)
		}
	}
	return ""
}
