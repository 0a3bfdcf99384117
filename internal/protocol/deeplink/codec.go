package deeplink

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
)

// Config selects the peer endpoint and the response framing per operation.
// An empty encoding means base58.
type Config struct {
	BaseURL         string
	ConnectEncoding domain.Encoding
	SignEncoding    domain.Encoding
}

// Codec builds outbound request URLs and opens inbound redirect payloads.
// It holds no per-flow state and is safe for concurrent use.
type Codec struct {
	base    string
	box     crypto.BoxCipher
	connect crypto.TextCodec
	sign    crypto.TextCodec
	rand    io.Reader
}

// New returns a Codec for cfg using box for sealing and opening.
func New(cfg Config, box crypto.BoxCipher) (*Codec, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("deeplink: invalid base URL %q", cfg.BaseURL)
	}
	connect, err := crypto.CodecFor(cfg.ConnectEncoding)
	if err != nil {
		return nil, fmt.Errorf("deeplink: connect encoding: %w", err)
	}
	sign, err := crypto.CodecFor(cfg.SignEncoding)
	if err != nil {
		return nil, fmt.Errorf("deeplink: sign encoding: %w", err)
	}
	if box == nil {
		box = crypto.NaClBox{}
	}
	return &Codec{base: base, box: box, connect: connect, sign: sign}, nil
}

// WithRand sets the nonce source (tests). nil means crypto/rand.
func (c *Codec) WithRand(r io.Reader) *Codec {
	c.rand = r
	return c
}

// BaseURL returns the peer endpoint root.
func (c *Codec) BaseURL() string { return c.base }

// Encoding returns the response framing configured for kind.
func (c *Codec) Encoding(kind domain.OperationKind) domain.Encoding {
	return c.codecFor(kind).Encoding()
}

func (c *Codec) codecFor(kind domain.OperationKind) crypto.TextCodec {
	if kind == domain.OpSignTransaction {
		return c.sign
	}
	return c.connect
}

func (c *Codec) endpoint(kind domain.OperationKind) string {
	return c.base + "/" + string(kind)
}
