package deeplink_test

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

const (
	redirectConnect = "wene://phantom/connect"
	redirectSign    = "wene://phantom/signTransaction"
	appURL          = "https://wene.app"
)

func newCodec(t *testing.T, cfg deeplink.Config) *deeplink.Codec {
	t.Helper()
	c, err := deeplink.New(cfg, crypto.NaClBox{})
	require.NoError(t, err)
	return c
}

func keys(t *testing.T) (dapp, peer domain.KeyPair) {
	t.Helper()
	var err error
	dapp, err = crypto.GenerateKeyPair(nil)
	require.NoError(t, err)
	peer, err = crypto.GenerateKeyPair(nil)
	require.NoError(t, err)
	return dapp, peer
}

// peerSeal seals body the way the wallet does: its secret key, our public key.
func peerSeal(t *testing.T, codec crypto.TextCodec, body any, dapp, peer domain.KeyPair) (data, nonce string) {
	t.Helper()
	pt, err := json.Marshal(body)
	require.NoError(t, err)
	n, err := crypto.NewNonce(nil)
	require.NoError(t, err)
	sealed := crypto.NaClBox{}.Seal(pt, n, dapp.PublicKey, peer.SecretKey)
	return codec.Encode(sealed), codec.Encode(n[:])
}

func TestDecryptConnectResponse_RoundTrip(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)

	data, nonce := peerSeal(t, crypto.Base58{}, map[string]string{
		"public_key": "Abc123",
		"session":    "sess-1",
	}, dapp, peer)

	got, err := c.DecryptConnectResponse(data, nonce, dapp.SecretKey, crypto.B58(peer.PublicKey[:]))
	require.NoError(t, err)
	assert.Equal(t, "Abc123", got.WalletPublicKey)
	assert.Equal(t, "sess-1", got.Session)
	assert.Equal(t, crypto.B58(peer.PublicKey[:]), got.PeerPublicKey)
}

func TestDecryptConnectResponse_CamelCaseKey(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	data, nonce := peerSeal(t, crypto.Base58{}, map[string]string{"publicKey": "W", "session": "s"}, dapp, peer)

	got, err := c.DecryptConnectResponse(data, nonce, dapp.SecretKey, crypto.B58(peer.PublicKey[:]))
	require.NoError(t, err)
	assert.Equal(t, "W", got.WalletPublicKey)
}

func TestDecryptConnectResponse_Failures(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	peerB58 := crypto.B58(peer.PublicKey[:])
	data, nonce := peerSeal(t, crypto.Base58{}, map[string]string{"public_key": "W", "session": "s"}, dapp, peer)

	other, _ := keys(t)
	_, err := c.DecryptConnectResponse(data, nonce, other.SecretKey, peerB58)
	assert.Equal(t, domain.FailureDecryption, domain.KindOf(err), "wrong secret: %v", err)

	_, err = c.DecryptConnectResponse(data, crypto.B58([]byte{1, 2, 3}), dapp.SecretKey, peerB58)
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err), "short nonce: %v", err)

	_, err = c.DecryptConnectResponse("0OIl", nonce, dapp.SecretKey, peerB58)
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err), "bad alphabet: %v", err)

	_, err = c.DecryptConnectResponse(data, nonce, dapp.SecretKey, "")
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err), "missing peer key: %v", err)

	noSession, n2 := peerSeal(t, crypto.Base58{}, map[string]string{"public_key": "W"}, dapp, peer)
	_, err = c.DecryptConnectResponse(noSession, n2, dapp.SecretKey, peerB58)
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err), "missing session: %v", err)

	notJSON := crypto.NaClBox{}.Seal([]byte("hello"), mustNonce(t), dapp.PublicKey, peer.SecretKey)
	_, err = c.DecryptConnectResponse(crypto.B58(notJSON), nonce, dapp.SecretKey, peerB58)
	// Sealed with a different nonce than the one passed, so it fails to open.
	assert.Equal(t, domain.FailureDecryption, domain.KindOf(err))
}

func mustNonce(t *testing.T) *[crypto.NonceSize]byte {
	t.Helper()
	n, err := crypto.NewNonce(nil)
	require.NoError(t, err)
	return n
}

func TestDecryptConnectResponse_NotJSON(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	n := mustNonce(t)
	sealed := crypto.NaClBox{}.Seal([]byte("hello"), n, dapp.PublicKey, peer.SecretKey)

	_, err := c.DecryptConnectResponse(crypto.B58(sealed), crypto.B58(n[:]), dapp.SecretKey, crypto.B58(peer.PublicKey[:]))
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err))
}

func TestBuildConnectURL(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, _ := keys(t)
	pk := crypto.B58(dapp.PublicKey[:])

	raw, err := c.BuildConnectURL(pk, redirectConnect, domain.ClusterDevnet, appURL)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "phantom.app", u.Host)
	assert.Equal(t, "/ul/v1/connect", u.Path)
	q := u.Query()
	assert.Equal(t, pk, q.Get(deeplink.ParamDappEncryptionPublicKey))
	assert.Equal(t, redirectConnect, q.Get(deeplink.ParamRedirectLink))
	assert.Equal(t, appURL, q.Get(deeplink.ParamAppURL))
	assert.Equal(t, "devnet", q.Get(deeplink.ParamCluster))
}

func TestBuildConnectURL_InvalidInput(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, _ := keys(t)
	pk := crypto.B58(dapp.PublicKey[:])

	cases := map[string]func() (string, error){
		"short key": func() (string, error) {
			return c.BuildConnectURL(crypto.B58([]byte{1}), redirectConnect, domain.ClusterDevnet, appURL)
		},
		"not base58": func() (string, error) {
			return c.BuildConnectURL("0OIl", redirectConnect, domain.ClusterDevnet, appURL)
		},
		"no redirect": func() (string, error) { return c.BuildConnectURL(pk, "", domain.ClusterDevnet, appURL) },
		"relative app": func() (string, error) {
			return c.BuildConnectURL(pk, redirectConnect, domain.ClusterDevnet, "wene.app")
		},
		"bogus cluster": func() (string, error) { return c.BuildConnectURL(pk, redirectConnect, "localnet", appURL) },
	}
	for name, fn := range cases {
		_, err := fn()
		assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err), name)
	}
}

func TestBuildSignURL_PeerCanOpen(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	payload := []byte{0xde, 0xad, 0xbe, 0xef}

	raw, err := c.BuildSignURL(deeplink.SignRequest{
		Payload:       payload,
		Session:       "sess-1",
		KeyPair:       dapp,
		PeerPublicKey: crypto.B58(peer.PublicKey[:]),
		RedirectLink:  redirectSign,
		Cluster:       domain.ClusterDevnet,
		AppURL:        appURL,
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/ul/v1/signTransaction", u.Path)
	q := u.Query()
	assert.Equal(t, crypto.B58(dapp.PublicKey[:]), q.Get(deeplink.ParamDappEncryptionPublicKey))

	nb, err := crypto.Base58{}.Decode(q.Get(deeplink.ParamNonce))
	require.NoError(t, err)
	require.Len(t, nb, crypto.NonceSize)
	sealed, err := crypto.Base58{}.Decode(q.Get(deeplink.ParamPayload))
	require.NoError(t, err)

	var n [crypto.NonceSize]byte
	copy(n[:], nb)
	pt, ok := crypto.NaClBox{}.Open(sealed, &n, dapp.PublicKey, peer.SecretKey)
	require.True(t, ok)

	var body struct {
		Transaction string `json:"transaction"`
		Session     string `json:"session"`
	}
	require.NoError(t, json.Unmarshal(pt, &body))
	assert.Equal(t, "sess-1", body.Session)
	tx, err := crypto.Base64{}.Decode(body.Transaction)
	require.NoError(t, err)
	assert.Equal(t, payload, tx)
}

func TestBuildSignURL_FreshNoncePerCall(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	req := deeplink.SignRequest{
		Payload: []byte{1}, Session: "s", KeyPair: dapp,
		PeerPublicKey: crypto.B58(peer.PublicKey[:]),
		RedirectLink:  redirectSign, Cluster: domain.ClusterDevnet, AppURL: appURL,
	}
	a, err := c.BuildSignURL(req)
	require.NoError(t, err)
	b, err := c.BuildSignURL(req)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBuildSignURL_DeterministicNonce(t *testing.T) {
	c := newCodec(t, deeplink.Config{}).WithRand(bytes.NewReader(make([]byte, 64)))
	dapp, peer := keys(t)
	raw, err := c.BuildSignURL(deeplink.SignRequest{
		Payload: []byte{1}, Session: "s", KeyPair: dapp,
		PeerPublicKey: crypto.B58(peer.PublicKey[:]),
		RedirectLink:  redirectSign, Cluster: domain.ClusterDevnet, AppURL: appURL,
	})
	require.NoError(t, err)
	u, _ := url.Parse(raw)
	assert.Equal(t, crypto.B58(make([]byte, crypto.NonceSize)), u.Query().Get(deeplink.ParamNonce))
}

func TestBuildSignURL_LogicErrors(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	base := deeplink.SignRequest{
		Payload: []byte{1}, Session: "s", KeyPair: dapp,
		PeerPublicKey: crypto.B58(peer.PublicKey[:]),
		RedirectLink:  redirectSign, Cluster: domain.ClusterDevnet, AppURL: appURL,
	}

	noSession := base
	noSession.Session = ""
	_, err := c.BuildSignURL(noSession)
	assert.ErrorIs(t, err, deeplink.ErrNoSession)

	noPeer := base
	noPeer.PeerPublicKey = ""
	_, err = c.BuildSignURL(noPeer)
	assert.ErrorIs(t, err, deeplink.ErrNoPeerKey)

	empty := base
	empty.Payload = nil
	_, err = c.BuildSignURL(empty)
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err))
}

func TestDecryptSignResponse_EncodingPerOperation(t *testing.T) {
	for _, enc := range []domain.Encoding{domain.EncodingBase58, domain.EncodingBase64} {
		t.Run(string(enc), func(t *testing.T) {
			c := newCodec(t, deeplink.Config{SignEncoding: enc})
			assert.Equal(t, enc, c.Encoding(domain.OpSignTransaction))
			assert.Equal(t, domain.EncodingBase58, c.Encoding(domain.OpConnect))

			tc, err := crypto.CodecFor(enc)
			require.NoError(t, err)
			dapp, peer := keys(t)
			signed := []byte("signed-bytes")
			data, nonce := peerSeal(t, tc, map[string]string{
				"signed_transaction": crypto.B64(signed),
			}, dapp, peer)

			// Simulate query decoding turning '+' into ' ' for base64.
			if enc == domain.EncodingBase64 {
				data = strings.ReplaceAll(data, "+", " ")
				nonce = strings.ReplaceAll(nonce, "+", " ")
			}

			got, err := c.DecryptSignResponse(data, nonce, dapp.SecretKey, tc.Encode(peer.PublicKey[:]))
			require.NoError(t, err)
			assert.Equal(t, signed, got)

			got, err = c.DecryptSignResponseWithKey(data, nonce, dapp.SecretKey, peer.PublicKey)
			require.NoError(t, err)
			assert.Equal(t, signed, got)
		})
	}
}

func TestDecryptSignResponse_MissingField(t *testing.T) {
	c := newCodec(t, deeplink.Config{})
	dapp, peer := keys(t)
	data, nonce := peerSeal(t, crypto.Base58{}, map[string]string{"transaction": "x"}, dapp, peer)

	_, err := c.DecryptSignResponse(data, nonce, dapp.SecretKey, crypto.B58(peer.PublicKey[:]))
	assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err))
}

func TestNew_RejectsUnknownEncoding(t *testing.T) {
	_, err := deeplink.New(deeplink.Config{SignEncoding: "hex"}, nil)
	assert.Error(t, err)
	_, err = deeplink.New(deeplink.Config{BaseURL: "not a url"}, nil)
	assert.Error(t, err)
}

func TestParseRedirectURL_Shapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want domain.Redirect
	}{
		{
			name: "custom scheme",
			raw:  "wene://phantom/connect?data=D&nonce=N&phantom_encryption_public_key=P",
			want: domain.Redirect{Action: domain.OpConnect, Data: "D", Nonce: "N", PeerPublicKey: "P"},
		},
		{
			name: "custom scheme with fragment",
			raw:  "wene://phantom/signTransaction?data=D&nonce=N#/claim",
			want: domain.Redirect{Action: domain.OpSignTransaction, Data: "D", Nonce: "N"},
		},
		{
			name: "https",
			raw:  "https://wene.app/phantom/connect?nonce=N&data=D",
			want: domain.Redirect{Action: domain.OpConnect, Data: "D", Nonce: "N"},
		},
		{
			name: "payload alias",
			raw:  "wene://phantom/connect?payload=D&nonce=N",
			want: domain.Redirect{Action: domain.OpConnect, Data: "D", Nonce: "N"},
		},
		{
			name: "error params",
			raw:  "wene://phantom/signTransaction?errorCode=4001&errorMessage=User%20rejected",
			want: domain.Redirect{Action: domain.OpSignTransaction, ErrorCode: "4001", ErrorMessage: "User rejected"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := deeplink.ParseRedirectURL(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRedirectURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"wene://phantom/connect",
		"wene://phantom/connect?",
		"wene://phantom/connect?nonce=N",
		"wene://phantom/connect?data=D",
		"wene://phantom/connect?data=%zz&nonce=N",
		"https://wene.app/phantom/connect",
	} {
		_, err := deeplink.ParseRedirectURL(raw)
		assert.Equal(t, domain.FailureInvalidInput, domain.KindOf(err), "%q", raw)
	}

	_, err := deeplink.ParseRedirectURL("wene://phantom/connect?data=D")
	assert.ErrorIs(t, err, deeplink.ErrMissingParam)
}

func TestPeerFailure(t *testing.T) {
	f := deeplink.PeerFailure("4001", "")
	assert.Equal(t, domain.FailurePeerRejected, f.Kind)
	assert.Contains(t, f.Message, "rejected")

	f = deeplink.PeerFailure("-32603", "boom")
	assert.Contains(t, f.Message, "portal")
	assert.Contains(t, f.Message, "boom")

	f = deeplink.PeerFailure("12345", "custom")
	assert.Equal(t, "custom", f.Message)

	assert.True(t, deeplink.EndsSession("4900"))
	assert.False(t, deeplink.EndsSession("4001"))
}
