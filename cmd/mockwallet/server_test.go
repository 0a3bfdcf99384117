package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/app"
	"walletlink/internal/chain"
	"walletlink/internal/domain"
	"walletlink/internal/peer/mock"
	"walletlink/internal/redirect"
)

func TestEndToEnd_OverHTTP(t *testing.T) {
	w, err := mock.New(mock.Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(newRouter(w))
	defer srv.Close()

	cfg := app.DefaultConfig(t.TempDir())
	cfg.Peer.BaseURL = srv.URL + "/ul/v1"
	cfg.Timeouts.Connect = 5 * time.Second
	cfg.Timeouts.Sign = 5 * time.Second
	wire, err := app.NewWire(cfg)
	require.NoError(t, err)
	defer wire.Close()

	ch := redirect.NewChannel()
	opener := redirect.HTTPOpener{Client: srv.Client(), Deliver: func(u string) { ch.Publish(u) }}
	svc := wire.Wallet(ch, opener, nil)
	ctx := context.Background()

	res, err := svc.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey(), res.WalletPublicKey)

	signed, err := svc.Sign(ctx, chain.StaticSource{Payload: domain.SignablePayload{Bytes: []byte("claim-tx-bytes")}})
	require.NoError(t, err)
	assert.Equal(t, []byte("claim-tx-bytes"), signed[64:])
}

func TestRouter_BadRequest(t *testing.T) {
	w, err := mock.New(mock.Options{})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ul/v1/connect?cluster=devnet", nil)
	newRouter(w).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	w, err := mock.New(mock.Options{})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	newRouter(w).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), w.PublicKey())
}
