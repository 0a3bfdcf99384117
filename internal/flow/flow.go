package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"walletlink/internal/domain"
	"walletlink/internal/log"
	"walletlink/internal/protocol/deeplink"
)

// Default waits for the wallet to answer.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultSignTimeout    = 60 * time.Second
)

var (
	// ErrNotIdle is returned by Begin when a request is already outstanding
	// or the flow has finished.
	ErrNotIdle = errors.New("flow: not idle")
	// ErrNotRetryable is returned by Retry outside the Error state.
	ErrNotRetryable = errors.New("flow: only a failed flow can be retried")
	// ErrNoKeyPair is returned when a redirect arrives before the dapp
	// keypair exists.
	ErrNoKeyPair = errors.New("flow: no dapp keypair")
)

// Resolver receives the outcome of a sign flow.
type Resolver interface {
	Resolve(value []byte) bool
	Reject(err error) bool
}

// Config describes one flow instance.
type Config struct {
	Kind domain.OperationKind
	// Prefixes are the redirect targets this flow accepts, e.g. the
	// custom-scheme and https forms of the redirect link.
	Prefixes []string
	Timeout  time.Duration
}

// Deps are the collaborators a flow reads from and completes into.
type Deps struct {
	Codec    *deeplink.Codec
	KeyPairs domain.KeyPairService
	Sessions domain.SessionService
	// Resolver is required for sign flows.
	Resolver Resolver
}

// Snapshot is a consistent copy of a flow's observable state.
type Snapshot struct {
	ID      string
	Kind    domain.OperationKind
	Status  domain.ConnectionState
	Message string
	Err     error

	Connect *domain.ConnectResult
	Signed  []byte
}

// Flow is the redirect dispatcher for one screen/request lifetime. Deliver
// is its single mutation entry: a URL is applied at most once and a success
// is never overwritten.
type Flow struct {
	id   string
	cfg  Config
	deps Deps

	busy    atomic.Bool // a delivery is being decrypted
	applied atomic.Bool // a success has been applied

	mu          sync.Mutex
	ctx         context.Context
	seen        map[string]struct{}
	status      domain.ConnectionState
	message     string
	failure     error
	connect     *domain.ConnectResult
	signed      []byte
	done        chan struct{}
	gen         uint64
	timer       *time.Timer
	unsubscribe func()
	onChange    func(Snapshot)
}

// New returns an idle flow.
func New(cfg Config, deps Deps) (*Flow, error) {
	switch cfg.Kind {
	case domain.OpConnect:
		if cfg.Timeout <= 0 {
			cfg.Timeout = DefaultConnectTimeout
		}
	case domain.OpSignTransaction:
		if cfg.Timeout <= 0 {
			cfg.Timeout = DefaultSignTimeout
		}
		if deps.Resolver == nil {
			return nil, errors.New("flow: sign flow needs a resolver")
		}
	default:
		return nil, fmt.Errorf("flow: unknown operation %q", cfg.Kind)
	}
	if len(cfg.Prefixes) == 0 {
		return nil, errors.New("flow: no redirect prefixes")
	}
	if deps.Codec == nil || deps.KeyPairs == nil || deps.Sessions == nil {
		return nil, errors.New("flow: missing dependency")
	}
	return &Flow{
		id:     uuid.NewString(),
		cfg:    cfg,
		deps:   deps,
		seen:   make(map[string]struct{}),
		status: domain.StateIdle,
		done:   make(chan struct{}),
		ctx:    context.Background(),
	}, nil
}

// ID identifies the flow in logs.
func (f *Flow) ID() string { return f.id }

// OnChange registers fn to be called after every state change. fn runs on
// the goroutine that caused the change and must not block.
func (f *Flow) OnChange(fn func(Snapshot)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Begin marks the request as sent: the flow becomes Connecting or Signing,
// arms the timeout, and starts consuming src. A URL src already holds is
// checked before live redirects; both go through Deliver.
func (f *Flow) Begin(ctx context.Context, src domain.RedirectSource) error {
	f.mu.Lock()
	if f.status != domain.StateIdle {
		f.mu.Unlock()
		return ErrNotIdle
	}
	f.ctx = ctx
	f.gen++
	gen := f.gen
	f.done = make(chan struct{})
	f.message, f.failure = "", nil
	if f.cfg.Kind == domain.OpConnect {
		f.status = domain.StateConnecting
	} else {
		f.status = domain.StateSigning
	}
	f.timer = time.AfterFunc(f.cfg.Timeout, func() { f.expire(gen) })
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	log.Debugf("flow %s: %s started (timeout %s)", f.id, f.cfg.Kind, f.cfg.Timeout)
	if notify != nil {
		notify(snap)
	}
	if src == nil {
		return nil
	}

	unsub := src.Subscribe(func(u string) { f.Deliver(u) })
	f.mu.Lock()
	if f.gen == gen && f.status.Active() {
		f.unsubscribe = unsub
		unsub = nil
	}
	f.mu.Unlock()
	if unsub != nil {
		unsub()
	}

	if u, ok := src.InitialURL(ctx); ok {
		f.Deliver(u)
	}
	return nil
}

// Deliver offers a redirect URL to the flow and reports what happened.
func (f *Flow) Deliver(raw string) Outcome {
	if !f.matches(raw) {
		log.Debugf("flow %s: ignoring foreign URL %s", f.id, log.Redact(raw))
		return IgnoredForeign
	}

	f.mu.Lock()
	if _, ok := f.seen[raw]; ok {
		f.mu.Unlock()
		log.Debugf("flow %s: duplicate redirect ignored", f.id)
		return IgnoredDuplicate
	}
	if f.status.Succeeded() {
		f.mu.Unlock()
		return IgnoredCompleted
	}
	if !f.status.Active() {
		f.mu.Unlock()
		log.Debugf("flow %s: redirect while %s ignored", f.id, f.status)
		return IgnoredInactive
	}
	if !f.busy.CompareAndSwap(false, true) {
		f.mu.Unlock()
		log.Debugf("flow %s: redirect while busy ignored", f.id)
		return IgnoredBusy
	}
	f.seen[raw] = struct{}{}
	ctx := f.ctx
	f.mu.Unlock()
	defer f.busy.Store(false)

	res, err := f.process(ctx, raw)
	if err != nil {
		return f.fail(err)
	}
	return f.succeed(res)
}

// Retry returns a failed flow to Idle so Begin can be called again. URLs
// already seen stay seen.
func (f *Flow) Retry() error {
	f.mu.Lock()
	if f.status != domain.StateError {
		f.mu.Unlock()
		return ErrNotRetryable
	}
	f.status = domain.StateIdle
	f.message, f.failure = "", nil
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
	return nil
}

// Close stops the timer and the redirect subscription. A decryption already
// running is allowed to finish.
func (f *Flow) Close() {
	f.mu.Lock()
	unsub := f.releaseLocked()
	f.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Snapshot returns the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Done is closed when the current attempt leaves Connecting/Signing.
func (f *Flow) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Wait blocks until the current attempt finishes or ctx ends.
func (f *Flow) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-f.Done():
		return f.Snapshot(), nil
	case <-ctx.Done():
		return f.Snapshot(), ctx.Err()
	}
}

// matches reports whether raw is addressed to one of the flow's targets.
func (f *Flow) matches(raw string) bool {
	for _, p := range f.cfg.Prefixes {
		if !strings.HasPrefix(raw, p) {
			continue
		}
		rest := raw[len(p):]
		if rest == "" || strings.ContainsRune("?#/", rune(rest[0])) {
			return true
		}
	}
	return false
}

func (f *Flow) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:      f.id,
		Kind:    f.cfg.Kind,
		Status:  f.status,
		Message: f.message,
		Err:     f.failure,
	}
	if f.connect != nil {
		c := *f.connect
		s.Connect = &c
	}
	if f.signed != nil {
		s.Signed = append([]byte(nil), f.signed...)
	}
	return s
}

// finishLocked moves an active attempt to a final status and returns the
// unsubscribe func to call once the lock is released.
func (f *Flow) finishLocked(status domain.ConnectionState, msg string, failure error) func() {
	f.status, f.message, f.failure = status, msg, failure
	close(f.done)
	return f.releaseLocked()
}

func (f *Flow) releaseLocked() func() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	unsub := f.unsubscribe
	f.unsubscribe = nil
	return unsub
}
