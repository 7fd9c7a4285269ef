package wallet

import (
	"context"
	"testing"

	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	return NewSession(nil, config.KeystoreConfig{Dir: t.TempDir()})
}

func TestDisconnect_SecondCallIsNoop(t *testing.T) {
	s := newTestSession(t)

	s.Disconnect()
	assert.NotPanics(t, s.Disconnect)

	snap := s.Current()
	assert.False(t, snap.HasAccount)
	assert.Empty(t, snap.ChainId)
}

func TestConnect_EmptyKeystore(t *testing.T) {
	s := newTestSession(t)

	err := s.Connect(context.Background(), 15)
	assert.ErrorIs(t, err, ErrWalletUnavailable)
}

func TestTransactOpts_NotConnected(t *testing.T) {
	s := newTestSession(t)

	_, err := s.TransactOpts(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}
