package redirect_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/redirect"
)

func TestChannel_SubscribePublishUnsubscribe(t *testing.T) {
	ch := redirect.NewChannel()

	_, ok := ch.InitialURL(context.Background())
	assert.False(t, ok)
	ch.SetInitial("wene://phantom/connect?data=a&nonce=b")
	u, ok := ch.InitialURL(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "wene://phantom/connect?data=a&nonce=b", u)

	var got []string
	unsub := ch.Subscribe(func(s string) { got = append(got, s) })
	assert.Equal(t, 1, ch.Publish("x"))
	unsub()
	unsub() // idempotent
	assert.Equal(t, 0, ch.Publish("y"))
	assert.Equal(t, []string{"x"}, got)
	assert.Equal(t, 0, ch.Subscribers())
}

func TestListener_RepublishesFullURL(t *testing.T) {
	l, err := redirect.NewListener("127.0.0.1:0", "")
	require.NoError(t, err)
	l.Serve()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.Close(ctx)
	}()

	var (
		mu  sync.Mutex
		got string
	)
	unsub := l.Subscribe(func(s string) {
		mu.Lock()
		got = s
		mu.Unlock()
	})
	defer unsub()

	target := l.Target("connect")
	assert.True(t, strings.HasSuffix(target, "/phantom/connect"))

	resp, err := http.Get(target + "?data=D&nonce=N")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, target+"?data=D&nonce=N", got)
}

func TestListener_NoSubscriber(t *testing.T) {
	l, err := redirect.NewListener("127.0.0.1:0", "/cb")
	require.NoError(t, err)
	l.Serve()
	defer func() { _ = l.Close(context.Background()) }()

	resp, err := http.Get(l.Target("connect") + "?data=D&nonce=N")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestHTTPOpener_DeliversLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "wene://phantom/connect?errorCode=4001")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	var got string
	op := redirect.HTTPOpener{Deliver: func(s string) { got = s }}
	require.NoError(t, op.Open(context.Background(), srv.URL+"/ul/v1/connect"))
	assert.Equal(t, "wene://phantom/connect?errorCode=4001", got)
}

func TestHTTPOpener_Non3xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := redirect.HTTPOpener{}.Open(context.Background(), srv.URL+"/ul/v1/connect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestPrintOpener_WithQR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, redirect.PrintOpener{W: &buf, QR: true}.Open(context.Background(), "https://phantom.app/ul/v1/connect?x=1"))
	out := buf.String()
	assert.Contains(t, out, "https://phantom.app/ul/v1/connect?x=1")
	assert.Greater(t, strings.Count(out, "\n"), 10)
}
