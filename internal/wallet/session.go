package wallet

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/cardnft/card-market-gateway/internal/config"
	"github.com/cardnft/card-market-gateway/internal/event"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Snapshot is the session state published on every change.
type Snapshot struct {
	Account        common.Address `json:"account"`
	HasAccount     bool           `json:"hasAccount"`
	ChainId        string         `json:"chainId"`
	AccountChanged bool           `json:"accountChanged"`
}

// Session is the single active wallet session shared by every view. The
// keystore's first account is the session account, the way an injected
// provider hands over accounts[0]. Account and chain changes are published
// through the event manager; consumers re-fetch, the session itself holds no
// derived state.
type Session struct {
	client *ethclient.Client
	ks     *keystore.KeyStore
	cfg    config.KeystoreConfig

	mu         sync.RWMutex
	account    common.Address
	hasAccount bool
	chainID    *big.Int

	stop    chan struct{}
	stopped bool
	once    sync.Once
}

func NewSession(client *ethclient.Client, cfg config.KeystoreConfig) *Session {
	ks := keystore.NewKeyStore(cfg.Dir, keystore.StandardScryptN, keystore.StandardScryptP)

	return &Session{
		client: client,
		ks:     ks,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// Connect picks the first keystore account, unlocks it, and reads the active
// chain id. It also starts the account and chain watchers.
func (s *Session) Connect(ctx context.Context, chainPollSeconds int) error {
	accs := s.ks.Accounts()
	if len(accs) == 0 {
		return ErrWalletUnavailable
	}

	if err := s.ks.Unlock(accs[0], s.cfg.Passphrase); err != nil {
		zap.L().With(zap.Error(err)).Warn("Wallet: unlock refused")
		return ErrUserRejected
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return ErrWalletUnavailable
	}

	s.mu.Lock()
	s.account = accs[0].Address
	s.hasAccount = true
	s.chainID = chainID
	s.mu.Unlock()

	s.once.Do(func() {
		go s.watchAccounts()
		go s.watchChain(chainPollSeconds)
	})

	zap.L().With(
		zap.String("account", accs[0].Address.Hex()),
		zap.String("chainId", chainID.String()),
	).Info("Wallet: connected")

	event.EmitEvent(event.SessionChangedEvent, s.Current())

	return nil
}

// Disconnect clears the session account and stops the watchers. Calling it
// again is a no-op.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.account = common.Address{}
	s.hasAccount = false
	s.chainID = nil
	alreadyStopped := s.stopped
	s.stopped = true
	s.mu.Unlock()

	if alreadyStopped {
		return
	}
	close(s.stop)

	event.EmitEvent(event.SessionChangedEvent, s.Current())
}

func (s *Session) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Account: s.account, HasAccount: s.hasAccount}
	if s.chainID != nil {
		snap.ChainId = s.chainID.String()
	}

	return snap
}

func (s *Session) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.account, s.hasAccount
}

// TransactOpts binds the session account and chain id to a transaction
// signer. Fails with ErrNotConnected before Connect.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.RLock()
	account, ok := s.account, s.hasAccount
	chainID := s.chainID
	s.mu.RUnlock()

	if !ok || chainID == nil {
		return nil, ErrNotConnected
	}

	opts, err := bind.NewKeyStoreTransactorWithChainID(s.ks, accounts.Account{Address: account}, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx

	return opts, nil
}

// watchAccounts mirrors the provider's accountsChanged: whenever the
// keystore's wallet set changes, the first account is re-derived and a
// session change is published.
func (s *Session) watchAccounts() {
	sink := make(chan accounts.WalletEvent, 16)
	sub := s.ks.Subscribe(sink)
	defer sub.Unsubscribe()

	for {
		select {
		case <-sink:
			s.refreshAccount()
		case err := <-sub.Err():
			if err != nil {
				zap.L().With(zap.Error(err)).Warn("Wallet: account subscription closed")
			}
			return
		case <-s.stop:
			return
		}
	}
}

func (s *Session) refreshAccount() {
	accs := s.ks.Accounts()

	s.mu.Lock()
	prev := s.account
	if len(accs) == 0 {
		s.account = common.Address{}
		s.hasAccount = false
	} else {
		s.account = accs[0].Address
		s.hasAccount = true
	}
	changed := prev != s.account
	s.mu.Unlock()

	if !changed {
		return
	}

	zap.L().With(zap.String("account", s.account.Hex())).Info("Wallet: account changed")

	snap := s.Current()
	snap.AccountChanged = true
	event.EmitEvent(event.SessionChangedEvent, snap)
}

// watchChain polls the chain id. A change only refreshes the stored id; the
// contract addresses are not re-validated against the new chain.
func (s *Session) watchChain(pollSeconds int) {
	ticker := time.NewTicker(time.Duration(pollSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			chainID, err := s.client.ChainID(context.Background())
			if err != nil {
				zap.L().With(zap.Error(err)).Debug("Wallet: chain id poll failed")
				continue
			}

			s.mu.Lock()
			changed := s.chainID == nil || s.chainID.Cmp(chainID) != 0
			s.chainID = chainID
			s.mu.Unlock()

			if changed {
				zap.L().With(zap.String("chainId", chainID.String())).Info("Wallet: chain changed")
				event.EmitEvent(event.SessionChangedEvent, s.Current())
			}
		case <-s.stop:
			return
		}
	}
}
