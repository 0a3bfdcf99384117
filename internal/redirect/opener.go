package redirect

import (
	"context"
	"fmt"
	"io"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"walletlink/internal/domain"
)

// PrintOpener shows the request URL for the user to open on a device with
// the wallet installed, optionally as a terminal QR code.
type PrintOpener struct {
	W  io.Writer
	QR bool
}

func (p PrintOpener) Open(_ context.Context, rawURL string) error {
	if p.QR {
		q, err := qrcode.New(rawURL, qrcode.Low)
		if err != nil {
			return fmt.Errorf("qr: %w", err)
		}
		if _, err := fmt.Fprintln(p.W, q.ToSmallString(false)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.W, "Open this link with your wallet:\n\n  %s\n\n", rawURL)
	return err
}

// WriteQRCode saves rawURL as a PNG QR code.
func WriteQRCode(rawURL, path string, size int) error {
	return qrcode.WriteFile(rawURL, qrcode.Medium, size, path)
}

// HTTPOpener requests the URL directly and hands the wallet's redirect
// (the Location header) to Deliver. It drives wallets that answer over
// HTTP, such as the simulated wallet.
type HTTPOpener struct {
	Client  *http.Client
	Deliver func(rawURL string)
}

func (o HTTPOpener) Open(ctx context.Context, rawURL string) error {
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	// Never follow: custom-scheme redirect links are not fetchable.
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 3 {
		return fmt.Errorf("wallet %s: %s", req.URL.Path, resp.Status)
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return fmt.Errorf("wallet %s: redirect without location", req.URL.Path)
	}
	if o.Deliver != nil {
		o.Deliver(loc)
	}
	return nil
}

// FuncOpener adapts a function to domain.URLOpener.
type FuncOpener func(ctx context.Context, rawURL string) error

func (f FuncOpener) Open(ctx context.Context, rawURL string) error { return f(ctx, rawURL) }

var (
	_ domain.URLOpener      = PrintOpener{}
	_ domain.URLOpener      = HTTPOpener{}
	_ domain.URLOpener      = FuncOpener(nil)
	_ domain.RedirectSource = (*Listener)(nil)
)
