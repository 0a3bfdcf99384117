package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/internal/domain"
	"walletlink/internal/services/session"
	"walletlink/internal/store"
)

func TestEstablish_PersistsAcrossInstances(t *testing.T) {
	home := t.TempDir()
	svc := session.New(domain.ClusterDevnet, store.NewSessionFileStore(home))

	_, ok, err := svc.Current()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Establish(domain.WalletSession{
		WalletPublicKey: "Abc123",
		Session:         "sess-1",
		PeerPublicKey:   "Peer58",
	}))

	later := session.New(domain.ClusterDevnet, store.NewSessionFileStore(home))
	ws, ok, err := later.Current()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Abc123", ws.WalletPublicKey)
	assert.Equal(t, "sess-1", ws.Session)
	assert.Equal(t, domain.ClusterDevnet, ws.Cluster)
	assert.NotZero(t, ws.ConnectedUTC)

	// Other clusters don't see it.
	_, ok, err = session.New(domain.ClusterMainnetBeta, store.NewSessionFileStore(home)).Current()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEstablish_RejectsIncomplete(t *testing.T) {
	svc := session.New(domain.ClusterDevnet, nil)
	err := svc.Establish(domain.WalletSession{WalletPublicKey: "W"})
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestClear(t *testing.T) {
	home := t.TempDir()
	svc := session.New(domain.ClusterDevnet, store.NewSessionFileStore(home))
	require.NoError(t, svc.Establish(domain.WalletSession{Session: "s", PeerPublicKey: "p"}))
	require.NoError(t, svc.Clear())

	_, ok, err := svc.Current()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = session.New(domain.ClusterDevnet, store.NewSessionFileStore(home)).Current()
	require.NoError(t, err)
	assert.False(t, ok)
}
