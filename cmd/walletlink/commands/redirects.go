package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"walletlink/internal/domain"
	"walletlink/internal/log"
	"walletlink/internal/redirect"
	walletsvc "walletlink/internal/services/wallet"
)

// transport flags shared by connect and sign.
type transport struct {
	listen  string
	qr      bool
	viaHTTP bool
}

// open builds the wallet service for one command. With a listen address the
// redirect links point at a loopback listener; otherwise redirects are read
// from stdin as pasted URLs. The returned func tears everything down.
func (t transport) open(ctx context.Context) (*walletsvc.Service, func(), error) {
	listen := t.listen
	if listen == "" {
		listen = wire.Config.Redirect.Listen
	}

	var (
		ch      *redirect.Channel
		src     domain.RedirectSource
		extra   map[domain.OperationKind][]string
		cleanup = func() {}
	)
	if listen != "" {
		l, err := redirect.NewListener(listen, redirect.DefaultBasePath)
		if err != nil {
			return nil, nil, err
		}
		l.Serve()
		cleanup = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.Close(ctx); err != nil {
				log.Warnf("redirect listener: %v", err)
			}
		}
		// The wallet is sent to the listener; custom-scheme links pasted by
		// hand are still accepted.
		extra = map[domain.OperationKind][]string{
			domain.OpConnect:         {wire.Config.Redirect.Connect},
			domain.OpSignTransaction: {wire.Config.Redirect.Sign},
		}
		wire.Config.Redirect.Connect = l.Target(string(domain.OpConnect))
		wire.Config.Redirect.Sign = l.Target(string(domain.OpSignTransaction))
		ch, src = l.Channel, l
	} else {
		ch = redirect.NewChannel()
		src = ch
		go readPasted(ctx, ch)
	}

	var opener domain.URLOpener = redirect.PrintOpener{W: os.Stdout, QR: t.qr}
	if t.viaHTTP {
		opener = redirect.HTTPOpener{Client: wire.HTTP, Deliver: func(u string) { ch.Publish(u) }}
	}
	return wire.Wallet(src, opener, extra), cleanup, nil
}

// readPasted publishes every non-empty stdin line until ctx ends.
func readPasted(ctx context.Context, ch *redirect.Channel) {
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if ch.Publish(line) == 0 {
			fmt.Fprintln(os.Stderr, "No request is waiting for that URL.")
		}
	}
}

func (t *transport) bind(flags *pflag.FlagSet) {
	flags.StringVar(&t.listen, "listen", "", "loopback address for http redirects, e.g. 127.0.0.1:8181")
	flags.BoolVar(&t.qr, "qr", false, "also print the request URL as a QR code")
	flags.BoolVar(&t.viaHTTP, "via-http", false, "request the URL directly and follow the wallet's redirect (simulated wallet)")
}
