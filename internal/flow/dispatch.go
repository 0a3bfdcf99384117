package flow

import (
	"context"
	"errors"
	"fmt"

	"walletlink/internal/crypto"
	"walletlink/internal/domain"
	"walletlink/internal/log"
	"walletlink/internal/protocol/deeplink"
)

// Outcome is what Deliver did with a URL.
type Outcome int

const (
	Applied Outcome = iota
	Failed
	IgnoredForeign
	IgnoredDuplicate
	IgnoredCompleted
	IgnoredInactive
	IgnoredBusy
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	case IgnoredForeign:
		return "ignored: foreign"
	case IgnoredDuplicate:
		return "ignored: duplicate"
	case IgnoredCompleted:
		return "ignored: completed"
	case IgnoredInactive:
		return "ignored: inactive"
	case IgnoredBusy:
		return "ignored: busy"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type result struct {
	connect *domain.ConnectResult
	signed  []byte
}

// process parses and opens one redirect. It never touches flow state.
func (f *Flow) process(ctx context.Context, raw string) (result, error) {
	r, err := deeplink.ParseRedirectURL(raw)
	if err != nil {
		return result{}, err
	}
	if r.Action != "" && r.Action != f.cfg.Kind {
		return result{}, domain.NewFailure(domain.FailureInvalidInput,
			fmt.Sprintf("%s redirect delivered to %s flow", r.Action, f.cfg.Kind), nil)
	}
	// The wallet answered with an error: nothing to decrypt.
	if r.IsError() {
		return result{}, deeplink.PeerFailure(r.ErrorCode, r.ErrorMessage)
	}

	kp, ok, err := f.deps.KeyPairs.Load(ctx)
	if err != nil {
		return result{}, err
	}
	if !ok {
		return result{}, domain.NewFailure(domain.FailurePersistence, "dapp keypair missing", ErrNoKeyPair)
	}
	codec := f.deps.Codec

	switch f.cfg.Kind {
	case domain.OpConnect:
		res, err := codec.DecryptConnectResponse(r.Data, r.Nonce, kp.SecretKey, r.PeerPublicKey)
		if err != nil {
			return result{}, err
		}
		return result{connect: &res}, nil

	default:
		if r.PeerPublicKey != "" {
			signed, err := codec.DecryptSignResponse(r.Data, r.Nonce, kp.SecretKey, r.PeerPublicKey)
			return result{signed: signed}, err
		}
		ws, ok, err := f.deps.Sessions.Current()
		if err != nil {
			return result{}, err
		}
		if !ok {
			return result{}, domain.NewFailure(domain.FailureInvalidInput, "sign redirect without peer key and no session", deeplink.ErrNoSession)
		}
		peer, err := crypto.DecodeKey(crypto.Base58{}, ws.PeerPublicKey)
		if err != nil {
			return result{}, domain.NewFailure(domain.FailureInvalidInput, "stored peer key", err)
		}
		signed, err := codec.DecryptSignResponseWithKey(r.Data, r.Nonce, kp.SecretKey, peer)
		return result{signed: signed}, err
	}
}

func (f *Flow) succeed(res result) Outcome {
	// Reserve the success before persisting anything; expire backs off once
	// applied is set.
	f.mu.Lock()
	if f.status.Succeeded() || !f.status.Active() {
		status := f.status
		f.mu.Unlock()
		log.Warnf("flow %s: late result discarded while %s", f.id, status)
		return IgnoredCompleted
	}
	if !f.applied.CompareAndSwap(false, true) {
		f.mu.Unlock()
		return IgnoredCompleted
	}
	f.mu.Unlock()

	if res.connect != nil {
		err := f.deps.Sessions.Establish(domain.WalletSession{
			WalletPublicKey: res.connect.WalletPublicKey,
			Session:         res.connect.Session,
			PeerPublicKey:   res.connect.PeerPublicKey,
		})
		if err != nil {
			f.applied.Store(false)
			return f.fail(err)
		}
	}

	f.mu.Lock()
	next := domain.StateConnected
	if f.cfg.Kind == domain.OpSignTransaction {
		next = domain.StateSuccess
	}
	f.connect, f.signed = res.connect, res.signed
	unsub := f.finishLocked(next, "", nil)
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if res.connect != nil {
		log.Infof("flow %s: connected wallet %s", f.id, res.connect.WalletPublicKey)
	} else {
		log.Infof("flow %s: received signed payload (%d bytes)", f.id, len(res.signed))
		f.deps.Resolver.Resolve(res.signed)
	}
	if notify != nil {
		notify(snap)
	}
	return Applied
}

func (f *Flow) fail(err error) Outcome {
	failure := asFailure(err)

	f.mu.Lock()
	if f.status.Succeeded() {
		f.mu.Unlock()
		log.Warnf("flow %s: failure after success discarded: %v", f.id, failure)
		return IgnoredCompleted
	}
	if !f.status.Active() {
		status := f.status
		f.mu.Unlock()
		log.Warnf("flow %s: failure while %s discarded: %v", f.id, status, failure)
		return IgnoredInactive
	}
	next := domain.StateError
	if failure.Kind == domain.FailurePeerRejected && deeplink.EndsSession(failure.Code) {
		next = domain.StateExpired
	}
	unsub := f.finishLocked(next, failure.Message, failure)
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	log.Errorf("flow %s: %s -> %s: %v", f.id, f.cfg.Kind, next, failure)
	if next == domain.StateExpired {
		if err := f.deps.Sessions.Clear(); err != nil {
			log.Warnf("flow %s: clear session: %v", f.id, err)
		}
	}
	if f.cfg.Kind == domain.OpSignTransaction {
		f.deps.Resolver.Reject(failure)
	}
	if notify != nil {
		notify(snap)
	}
	return Failed
}

// expire is the timeout callback for attempt gen.
func (f *Flow) expire(gen uint64) {
	f.mu.Lock()
	if f.gen != gen || !f.status.Active() {
		f.mu.Unlock()
		return
	}
	if f.applied.Load() {
		f.mu.Unlock()
		log.Debugf("flow %s: timeout ignored, result already being applied", f.id)
		return
	}
	failure := &domain.Failure{
		Kind:    domain.FailureTimeout,
		Message: fmt.Sprintf("no response from the wallet within %s", f.cfg.Timeout),
	}
	unsub := f.finishLocked(domain.StateError, failure.Message, failure)
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	log.Warnf("flow %s: %s timed out", f.id, f.cfg.Kind)
	if f.cfg.Kind == domain.OpSignTransaction {
		f.deps.Resolver.Reject(failure)
	}
	if notify != nil {
		notify(snap)
	}
}

func asFailure(err error) *domain.Failure {
	var f *domain.Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewFailure(domain.FailureTimeout, err.Error(), err)
	}
	return domain.NewFailure(domain.FailureInvalidInput, err.Error(), err)
}
