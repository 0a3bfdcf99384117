package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"walletlink/internal/chain"
	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

// Wallet simulates the peer wallet: it answers connect and signTransaction
// requests with the redirect URL a real wallet would open.
type Wallet struct {
	box     crypto.BoxCipher
	enc     domain.KeyPair
	account solana.PrivateKey

	mu       sync.Mutex
	opts     Options
	sessions map[string]domain.X25519Public // session -> dapp key
}

// Options shape the wallet's answers.
type Options struct {
	// ConnectEncoding and SignEncoding frame data, nonce and the wallet key
	// in redirects. Empty means base58.
	ConnectEncoding domain.Encoding
	SignEncoding    domain.Encoding
	// RejectCode, when set, answers every request with errorCode.
	RejectCode    string
	RejectMessage string
	// OmitSignPeerKey leaves phantom_encryption_public_key off sign
	// redirects.
	OmitSignPeerKey bool
}

// New returns a wallet with fresh encryption and account keys.
func New(opts Options) (*Wallet, error) {
	enc, err := crypto.GenerateKeyPair(nil)
	if err != nil {
		return nil, err
	}
	account, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return &Wallet{
		box:      crypto.NaClBox{},
		enc:      enc,
		account:  account,
		opts:     opts,
		sessions: make(map[string]domain.X25519Public),
	}, nil
}

// Account returns the wallet's signing key.
func (w *Wallet) Account() solana.PrivateKey { return w.account }

// PublicKey returns the base58 account address.
func (w *Wallet) PublicKey() string { return w.account.PublicKey().String() }

// EncryptionPublicKey returns the wallet's box key.
func (w *Wallet) EncryptionPublicKey() domain.X25519Public { return w.enc.PublicKey }

// SetOptions replaces the options for subsequent requests.
func (w *Wallet) SetOptions(opts Options) {
	w.mu.Lock()
	w.opts = opts
	w.mu.Unlock()
}

// Handle answers requestURL based on its action path.
func (w *Wallet) Handle(requestURL string) (string, error) {
	u, err := url.Parse(requestURL)
	if err != nil {
		return "", err
	}
	switch {
	case strings.HasSuffix(u.Path, "/"+string(domain.OpConnect)):
		return w.HandleConnect(requestURL)
	case strings.HasSuffix(u.Path, "/"+string(domain.OpSignTransaction)):
		return w.HandleSign(requestURL)
	default:
		return "", fmt.Errorf("mock wallet: unsupported action %q", u.Path)
	}
}

// HandleConnect approves a connect request and returns the redirect.
func (w *Wallet) HandleConnect(requestURL string) (string, error) {
	q, redirectLink, dapp, err := w.parseRequest(requestURL)
	if err != nil {
		return "", err
	}
	opts := w.options()
	if opts.RejectCode != "" {
		return errorRedirect(redirectLink, opts.RejectCode, opts.RejectMessage), nil
	}
	if !domain.Cluster(q.Get(deeplink.ParamCluster)).Valid() {
		return errorRedirect(redirectLink, deeplink.CodeInvalidInput, "unknown cluster"), nil
	}

	session := uuid.NewString()
	w.mu.Lock()
	w.sessions[session] = dapp
	w.mu.Unlock()

	body, _ := json.Marshal(map[string]string{
		"public_key": w.PublicKey(),
		"session":    session,
	})
	return w.seal(redirectLink, opts.ConnectEncoding, body, dapp, true)
}

// HandleSign opens a signTransaction request, signs the payload with the
// account key and returns the redirect.
func (w *Wallet) HandleSign(requestURL string) (string, error) {
	q, redirectLink, dapp, err := w.parseRequest(requestURL)
	if err != nil {
		return "", err
	}
	opts := w.options()
	if opts.RejectCode != "" {
		return errorRedirect(redirectLink, opts.RejectCode, opts.RejectMessage), nil
	}

	nonce, err := crypto.Base58{}.Decode(q.Get(deeplink.ParamNonce))
	if err != nil || len(nonce) != crypto.NonceSize {
		return errorRedirect(redirectLink, deeplink.CodeInvalidInput, "bad nonce"), nil
	}
	sealed, err := crypto.Base58{}.Decode(q.Get(deeplink.ParamPayload))
	if err != nil {
		return errorRedirect(redirectLink, deeplink.CodeInvalidInput, "bad payload"), nil
	}
	var n [crypto.NonceSize]byte
	copy(n[:], nonce)
	plaintext, ok := w.box.Open(sealed, &n, dapp, w.enc.SecretKey)
	if !ok {
		return errorRedirect(redirectLink, deeplink.CodeInvalidInput, "payload does not decrypt"), nil
	}

	session := gjson.GetBytes(plaintext, "session").String()
	w.mu.Lock()
	bound, known := w.sessions[session]
	w.mu.Unlock()
	if !known || bound != dapp {
		return errorRedirect(redirectLink, deeplink.CodeUnauthorized, "unknown session"), nil
	}

	tx, err := crypto.Base64{}.Decode(gjson.GetBytes(plaintext, "transaction").String())
	if err != nil || len(tx) == 0 {
		return errorRedirect(redirectLink, deeplink.CodeInvalidInput, "bad transaction"), nil
	}
	signed, err := w.sign(tx)
	if err != nil {
		return errorRedirect(redirectLink, deeplink.CodeTransactionRejected, err.Error()), nil
	}

	body, _ := json.Marshal(map[string]string{"signed_transaction": crypto.B64(signed)})
	return w.seal(redirectLink, opts.SignEncoding, body, dapp, !opts.OmitSignPeerKey)
}

// sign signs Solana transactions in place. Anything else gets a detached
// ed25519 signature prepended.
func (w *Wallet) sign(payload []byte) ([]byte, error) {
	if _, err := chain.DecodeTransaction(payload); err == nil {
		return chain.SignTransaction(payload, w.account)
	}
	sig, err := w.account.Sign(payload)
	if err != nil {
		return nil, err
	}
	return append(sig[:], payload...), nil
}

func (w *Wallet) options() Options {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts
}

func (w *Wallet) parseRequest(requestURL string) (url.Values, string, domain.X25519Public, error) {
	u, err := url.Parse(requestURL)
	if err != nil {
		return nil, "", domain.X25519Public{}, err
	}
	q := u.Query()
	redirectLink := q.Get(deeplink.ParamRedirectLink)
	if redirectLink == "" {
		return nil, "", domain.X25519Public{}, errors.New("mock wallet: request has no redirect_link")
	}
	dapp, err := crypto.DecodeKey(crypto.Base58{}, q.Get(deeplink.ParamDappEncryptionPublicKey))
	if err != nil {
		return nil, "", domain.X25519Public{}, fmt.Errorf("mock wallet: dapp key: %w", err)
	}
	return q, redirectLink, dapp, nil
}

func (w *Wallet) seal(redirectLink string, enc domain.Encoding, body []byte, dapp domain.X25519Public, withKey bool) (string, error) {
	codec, err := crypto.CodecFor(enc)
	if err != nil {
		return "", err
	}
	n, err := crypto.NewNonce(nil)
	if err != nil {
		return "", err
	}
	sealed := w.box.Seal(body, n, dapp, w.enc.SecretKey)

	q := url.Values{}
	if withKey {
		q.Set(deeplink.ParamPeerEncryptionPublicKey, codec.Encode(w.enc.PublicKey[:]))
	}
	q.Set(deeplink.ParamNonce, codec.Encode(n[:]))
	q.Set(deeplink.ParamData, codec.Encode(sealed))
	return redirectLink + "?" + q.Encode(), nil
}

func errorRedirect(redirectLink, code, message string) string {
	q := url.Values{}
	q.Set(deeplink.ParamErrorCode, code)
	if message != "" {
		q.Set(deeplink.ParamErrorMessage, message)
	}
	return redirectLink + "?" + q.Encode()
}
