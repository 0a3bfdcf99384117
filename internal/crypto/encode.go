package crypto

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"walletlink/internal/domain"
)

// TextCodec frames binary values for URL parameters.
type TextCodec interface {
	Encoding() domain.Encoding
	Encode(b []byte) string
	Decode(s string) ([]byte, error)
}

// Base58 is the Bitcoin-alphabet base58 codec used by the peer.
type Base58 struct{}

func (Base58) Encoding() domain.Encoding { return domain.EncodingBase58 }

func (Base58) Encode(b []byte) string { return base58.Encode(b) }

func (Base58) Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("base58: empty input")
	}
	return base58.Decode(s)
}

// Base64 is standard padded base64. Decode also accepts the URL-safe
// alphabet, missing padding, and '+' that query decoding turned into ' '.
type Base64 struct{}

func (Base64) Encoding() domain.Encoding { return domain.EncodingBase64 }

func (Base64) Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func (Base64) Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("base64: empty input")
	}
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	s = strings.TrimRight(s, "=")
	return base64.RawStdEncoding.DecodeString(s)
}

// CodecFor returns the codec for enc.
func CodecFor(enc domain.Encoding) (TextCodec, error) {
	switch enc {
	case domain.EncodingBase58, "":
		return Base58{}, nil
	case domain.EncodingBase64:
		return Base64{}, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", enc)
	}
}

// DecodeKey decodes a 32-byte public key with c.
func DecodeKey(c TextCodec, s string) (domain.X25519Public, error) {
	var pub domain.X25519Public
	b, err := c.Decode(s)
	if err != nil {
		return pub, err
	}
	if len(b) != len(pub) {
		return pub, fmt.Errorf("%s key: want %d bytes, got %d", c.Encoding(), len(pub), len(b))
	}
	copy(pub[:], b)
	return pub, nil
}

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return Base64{}.Encode(b) }

// B58 returns the base58 encoding of b.
func B58(b []byte) string { return Base58{}.Encode(b) }

var (
	_ TextCodec = Base58{}
	_ TextCodec = Base64{}
)
