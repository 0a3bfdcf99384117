package pending_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/pending"
)

func TestResolve_FromAnotherGoroutine(t *testing.T) {
	b := pending.NewBroker(pending.ReplacePrior)
	op, err := b.Register()
	require.NoError(t, err)
	require.True(t, b.Pending())

	go b.Resolve([]byte("signed"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := op.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("signed"), got)
	assert.False(t, b.Pending())
}

func TestReject(t *testing.T) {
	b := pending.NewBroker(pending.ReplacePrior)
	op, _ := b.Register()
	boom := errors.New("user rejected")
	require.True(t, b.Reject(boom))

	_, err := op.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestResolveRejectWithNothingRegistered(t *testing.T) {
	b := pending.NewBroker(pending.ReplacePrior)
	assert.False(t, b.Resolve([]byte("x")))
	assert.False(t, b.Reject(errors.New("x")))

	op, _ := b.Register()
	require.True(t, b.Resolve([]byte("a")))
	// Second result for the same op is a no-op.
	assert.False(t, b.Resolve([]byte("b")))
	got, _ := op.Wait(context.Background())
	assert.Equal(t, []byte("a"), got)
}

func TestRegister_ReplacePriorFailsOldOperation(t *testing.T) {
	b := pending.NewBroker(pending.ReplacePrior)
	first, _ := b.Register()
	second, err := b.Register()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	_, err = first.Wait(context.Background())
	assert.ErrorIs(t, err, pending.ErrSuperseded)

	b.Resolve([]byte("ok"))
	got, err := second.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}

func TestRegister_RejectNew(t *testing.T) {
	b := pending.NewBroker(pending.RejectNew)
	first, _ := b.Register()
	_, err := b.Register()
	assert.ErrorIs(t, err, pending.ErrConflict)

	b.Resolve([]byte("ok"))
	got, err := first.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}

func TestWait_ContextDeadline(t *testing.T) {
	b := pending.NewBroker(pending.ReplacePrior)
	op, _ := b.Register()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := op.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	b.Cancel(op, err)
	assert.False(t, b.Pending())
	assert.False(t, b.Resolve([]byte("late")))
}
