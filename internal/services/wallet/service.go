package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walletlink/internal/chain"
	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/flow"
	"walletlink/internal/log"
	"walletlink/internal/pending"
	"walletlink/internal/protocol/deeplink"
)

// Config holds the request parameters shared by every round trip.
type Config struct {
	Cluster domain.Cluster
	AppURL  string
	// ConnectRedirect and SignRedirect are the redirect links sent to the
	// wallet, e.g. wene://phantom/connect.
	ConnectRedirect string
	SignRedirect    string
	// ExtraPrefixes are additional redirect targets accepted per operation,
	// such as the http form served by a loopback listener.
	ExtraPrefixes  map[domain.OperationKind][]string
	ConnectTimeout time.Duration
	SignTimeout    time.Duration
}

var (
	// ErrNotConnected is returned by Sign when no wallet session exists.
	ErrNotConnected = errors.New("wallet: not connected; run connect first")
	// ErrNoSubmitter is returned by Submit when no submitter is configured.
	ErrNoSubmitter = errors.New("wallet: no submitter configured")
)

// Service runs connect and sign round trips against the wallet.
//
// Each call builds a request URL, starts a flow listening on the redirect
// source, hands the URL to the opener and waits for the flow to finish:
//   - Connect: get-or-create the dapp keypair, then record the session the
//     wallet returns.
//   - Sign: seal the payload to the session's peer key and wait on the
//     pending broker for the signed bytes.
type Service struct {
	cfg       Config
	codec     *deeplink.Codec
	keys      domain.KeyPairService
	sessions  domain.SessionService
	broker    *pending.Broker
	source    domain.RedirectSource
	opener    domain.URLOpener
	submitter domain.PayloadSubmitter
}

// New constructs a wallet Service.
func New(
	cfg Config,
	codec *deeplink.Codec,
	keys domain.KeyPairService,
	sessions domain.SessionService,
	broker *pending.Broker,
	source domain.RedirectSource,
	opener domain.URLOpener,
) *Service {
	return &Service{
		cfg:      cfg,
		codec:    codec,
		keys:     keys,
		sessions: sessions,
		broker:   broker,
		source:   source,
		opener:   opener,
	}
}

// WithSubmitter sets where Submit sends signed payloads.
func (s *Service) WithSubmitter(sub domain.PayloadSubmitter) *Service {
	s.submitter = sub
	return s
}

// Connect asks the wallet for its account and a session.
func (s *Service) Connect(ctx context.Context) (domain.ConnectResult, error) {
	kp, err := s.keys.GetOrCreate(ctx)
	if err != nil {
		return domain.ConnectResult{}, err
	}
	reqURL, err := s.codec.BuildConnectURL(crypto.B58(kp.PublicKey[:]), s.cfg.ConnectRedirect, s.cfg.Cluster, s.cfg.AppURL)
	if err != nil {
		return domain.ConnectResult{}, err
	}

	f, err := s.newFlow(domain.OpConnect)
	if err != nil {
		return domain.ConnectResult{}, err
	}
	snap, err := s.run(ctx, f, reqURL)
	if err != nil {
		return domain.ConnectResult{}, err
	}

	res := *snap.Connect
	if !chain.ValidPublicKey(res.WalletPublicKey) {
		log.Warnf("wallet returned %q, which is not a valid account key", log.Truncate(res.WalletPublicKey, 12))
	}
	return res, nil
}

// Sign sends the payload from src to the wallet and returns the signed
// bytes.
func (s *Service) Sign(ctx context.Context, src domain.PayloadSource) ([]byte, error) {
	ws, ok, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotConnected
	}
	kp, ok, err := s.keys.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, flow.ErrNoKeyPair
	}
	payload, err := src.SignablePayload(ctx)
	if err != nil {
		return nil, err
	}
	describe(payload)

	reqURL, err := s.codec.BuildSignURL(deeplink.SignRequest{
		Payload:       payload.Bytes,
		Session:       ws.Session,
		KeyPair:       kp,
		PeerPublicKey: ws.PeerPublicKey,
		RedirectLink:  s.cfg.SignRedirect,
		Cluster:       s.cfg.Cluster,
		AppURL:        s.cfg.AppURL,
	})
	if err != nil {
		return nil, err
	}

	op, err := s.broker.Register()
	if err != nil {
		return nil, err
	}
	f, err := s.newFlow(domain.OpSignTransaction)
	if err != nil {
		s.broker.Cancel(op, err)
		return nil, err
	}
	if _, err := s.run(ctx, f, reqURL); err != nil {
		s.broker.Cancel(op, err)
		return nil, err
	}

	// The flow resolves the broker right after it finishes.
	signed, err := op.Wait(ctx)
	if err != nil {
		s.broker.Cancel(op, err)
		return nil, err
	}
	return signed, nil
}

// Submit broadcasts signed and returns the transaction id.
func (s *Service) Submit(ctx context.Context, signed []byte) (string, error) {
	if s.submitter == nil {
		return "", ErrNoSubmitter
	}
	id, err := s.submitter.Submit(ctx, signed)
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	log.Infof("submitted transaction %s", id)
	return id, nil
}

// Handle applies a redirect URL the process was launched with. It is how a
// wallet answer reaches a dapp that was not running when the wallet
// redirected.
func (s *Service) Handle(ctx context.Context, kind domain.OperationKind, rawURL string) (flow.Snapshot, error) {
	if kind == domain.OpSignTransaction {
		op, err := s.broker.Register()
		if err != nil {
			return flow.Snapshot{}, err
		}
		defer s.broker.Cancel(op, pending.ErrSuperseded)
	}
	f, err := s.newFlow(kind)
	if err != nil {
		return flow.Snapshot{}, err
	}
	defer f.Close()

	if err := f.Begin(ctx, launchSource(rawURL)); err != nil {
		return flow.Snapshot{}, err
	}
	snap := f.Snapshot()
	if snap.Status.Active() {
		return snap, fmt.Errorf("redirect was not applied: %s", log.Redact(rawURL))
	}
	if snap.Err != nil {
		return snap, snap.Err
	}
	return snap, nil
}

// Status returns the stored session, if any.
func (s *Service) Status() (domain.WalletSession, bool, error) {
	return s.sessions.Current()
}

// Disconnect forgets the stored session.
func (s *Service) Disconnect() error {
	return s.sessions.Clear()
}

func (s *Service) newFlow(kind domain.OperationKind) (*flow.Flow, error) {
	link, timeout := s.cfg.ConnectRedirect, s.cfg.ConnectTimeout
	if kind == domain.OpSignTransaction {
		link, timeout = s.cfg.SignRedirect, s.cfg.SignTimeout
	}
	prefixes := append([]string{link}, s.cfg.ExtraPrefixes[kind]...)
	return flow.New(flow.Config{Kind: kind, Prefixes: prefixes, Timeout: timeout}, flow.Deps{
		Codec:    s.codec,
		KeyPairs: s.keys,
		Sessions: s.sessions,
		Resolver: s.broker,
	})
}

// run begins f on the redirect source, opens reqURL and waits for f to
// leave its active state.
func (s *Service) run(ctx context.Context, f *flow.Flow, reqURL string) (flow.Snapshot, error) {
	defer f.Close()
	if err := f.Begin(ctx, s.source); err != nil {
		return flow.Snapshot{}, err
	}
	log.Debugf("opening %s", log.Redact(reqURL))
	if err := s.opener.Open(ctx, reqURL); err != nil {
		return flow.Snapshot{}, fmt.Errorf("open wallet: %w", err)
	}

	snap, err := f.Wait(ctx)
	if err != nil {
		return snap, domain.NewFailure(domain.FailureTimeout, "gave up waiting for the wallet", err)
	}
	if snap.Err != nil {
		return snap, snap.Err
	}
	return snap, nil
}

func describe(p domain.SignablePayload) {
	if p.FeePayer == "" {
		log.Infof("signing opaque payload (%d bytes)", len(p.Bytes))
		return
	}
	blockhash := "missing"
	if p.RecentBlockhash != "" {
		blockhash = "set"
	}
	log.Infof("signing transaction: fee payer %s, blockhash %s, %d instruction(s), %d bytes",
		p.FeePayer, blockhash, p.InstructionCount, len(p.Bytes))
}

// launchSource is a redirect source holding only the launch URL.
type launchSource string

func (l launchSource) InitialURL(context.Context) (string, bool) { return string(l), l != "" }

func (launchSource) Subscribe(func(string)) func() { return func() {} }
