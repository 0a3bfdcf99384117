package pending

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"walletlink/internal/log"
)

var (
	// ErrConflict is returned by Register under RejectNew while another
	// operation is outstanding.
	ErrConflict = errors.New("pending: an operation is already outstanding")
	// ErrSuperseded fails an operation replaced by a newer Register.
	ErrSuperseded = errors.New("pending: operation superseded by a newer request")
)

// ConflictPolicy decides what Register does when an operation is outstanding.
type ConflictPolicy int

const (
	// ReplacePrior fails the outstanding operation with ErrSuperseded and
	// registers the new one.
	ReplacePrior ConflictPolicy = iota
	// RejectNew keeps the outstanding operation and returns ErrConflict.
	RejectNew
)

// Broker holds at most one outstanding operation awaiting a result that
// arrives later on another goroutine (a wallet redirect).
type Broker struct {
	policy ConflictPolicy

	mu      sync.Mutex
	current *Operation
}

// NewBroker returns an empty broker.
func NewBroker(policy ConflictPolicy) *Broker {
	return &Broker{policy: policy}
}

// Register creates the outstanding operation.
func (b *Broker) Register() (*Operation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if prior := b.current; prior != nil {
		if b.policy == RejectNew {
			return nil, ErrConflict
		}
		log.Warnf("pending operation %s superseded", prior.id)
		prior.complete(nil, ErrSuperseded)
	}
	op := newOperation()
	b.current = op
	return op, nil
}

// Resolve completes the outstanding operation with value. It reports false
// and logs when nothing is outstanding.
func (b *Broker) Resolve(value []byte) bool {
	op := b.take()
	if op == nil {
		log.Warnf("pending: resolve with no outstanding operation")
		return false
	}
	op.complete(value, nil)
	return true
}

// Reject fails the outstanding operation with err. It reports false and logs
// when nothing is outstanding.
func (b *Broker) Reject(err error) bool {
	if err == nil {
		err = errors.New("pending: rejected")
	}
	op := b.take()
	if op == nil {
		log.Warnf("pending: reject with no outstanding operation: %v", err)
		return false
	}
	op.complete(nil, err)
	return true
}

// Pending reports whether an operation is outstanding.
func (b *Broker) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

// Cancel drops op if it is still the outstanding one, failing it with err.
// Waiters use this on timeout so a late result can't land on a newer op.
func (b *Broker) Cancel(op *Operation, err error) {
	b.mu.Lock()
	if b.current == op {
		b.current = nil
	}
	b.mu.Unlock()
	op.complete(nil, err)
}

func (b *Broker) take() *Operation {
	b.mu.Lock()
	defer b.mu.Unlock()
	op := b.current
	b.current = nil
	return op
}

// Operation is a single-slot future.
type Operation struct {
	id   string
	done chan struct{}
	once sync.Once

	value []byte
	err   error
}

func newOperation() *Operation {
	return &Operation{id: uuid.NewString(), done: make(chan struct{})}
}

// ID identifies the operation in logs.
func (o *Operation) ID() string { return o.id }

// Done is closed once the operation has a result.
func (o *Operation) Done() <-chan struct{} { return o.done }

// Wait blocks until the operation completes or ctx ends.
func (o *Operation) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-o.done:
		return o.value, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Operation) complete(value []byte, err error) {
	o.once.Do(func() {
		o.value, o.err = value, err
		close(o.done)
	})
}
