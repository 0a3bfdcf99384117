package interfaces

import (
	"context"

	domaintypes "walletlink/internal/domain/types"
)

// PayloadSource builds the transaction the user is asked to sign.
type PayloadSource interface {
	SignablePayload(ctx context.Context) (domaintypes.SignablePayload, error)
}

// PayloadSubmitter sends a signed payload to the network and returns its id.
type PayloadSubmitter interface {
	Submit(ctx context.Context, signed []byte) (string, error)
}

// URLOpener hands an outbound request URL to the peer (browser, OS handler,
// QR code on screen, ...).
type URLOpener interface {
	Open(ctx context.Context, rawURL string) error
}

// RedirectSource delivers redirect URLs addressed to this app.
//
// InitialURL returns a URL that was already waiting before the flow started
// (the app was launched by the redirect). Subscribe registers fn for live
// redirects until the returned func is called.
type RedirectSource interface {
	InitialURL(ctx context.Context) (string, bool)
	Subscribe(fn func(rawURL string)) (unsubscribe func())
}
