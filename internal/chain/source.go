package chain

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"walletlink/internal/domain"
)

// FileSource reads the transaction to sign from a file holding either
// base64 text or raw wire bytes.
type FileSource struct {
	Path string
	// AllowOpaque accepts payloads that are not Solana transactions; they
	// are passed through without display metadata.
	AllowOpaque bool
}

func (s FileSource) SignablePayload(ctx context.Context) (domain.SignablePayload, error) {
	if err := ctx.Err(); err != nil {
		return domain.SignablePayload{}, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return domain.SignablePayload{}, err
	}
	raw := b
	if txt := bytes.TrimSpace(b); len(txt) > 0 {
		if dec, err := base64.StdEncoding.DecodeString(string(txt)); err == nil {
			raw = dec
		}
	}
	if len(raw) == 0 {
		return domain.SignablePayload{}, fmt.Errorf("chain: %s is empty", s.Path)
	}

	p, err := Inspect(raw)
	if errors.Is(err, ErrNotTransaction) && s.AllowOpaque {
		return domain.SignablePayload{Bytes: raw}, nil
	}
	return p, err
}

// StaticSource serves a fixed payload.
type StaticSource struct {
	Payload domain.SignablePayload
}

func (s StaticSource) SignablePayload(context.Context) (domain.SignablePayload, error) {
	if len(s.Payload.Bytes) == 0 {
		return domain.SignablePayload{}, errors.New("chain: empty payload")
	}
	return s.Payload, nil
}

var (
	_ domain.PayloadSource = FileSource{}
	_ domain.PayloadSource = StaticSource{}
)
