// Package session owns the wallet connection state and turns provider events into
// connect and disconnect transitions.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Listener is called after every session change, in registration order.
type Listener func(change entity.SessionChange, s entity.Session)

// NetworkLookup resolves chain metadata for the native balance.
type NetworkLookup interface {
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// Options are the dependencies of a Session.
type Options struct {
	Wallet       port.WalletProvider
	Preferences  port.Preferences
	Balances     port.BalanceReader
	Networks     NetworkLookup
	Notifier     port.Notifier
	Retry        apperr.RetryConfig
	EventTimeout time.Duration
}

// Session implements port.SessionView.
type Session struct {
	opts   Options
	logger *zap.Logger

	// connectMu serialises connect and disconnect transitions.
	connectMu sync.Mutex

	mu        sync.RWMutex
	state     entity.Session
	sub       event.Subscription
	listeners []Listener
}

// New creates a disconnected session.
func New(opts Options, logger *zap.Logger) *Session {
	if opts.EventTimeout <= 0 {
		opts.EventTimeout = 30 * time.Second
	}
	return &Session{opts: opts, logger: logger.Named("Session")}
}

// OnChange registers fn for every later change.
func (s *Session) OnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Connect asks the wallet for accounts and connects to the first one.
func (s *Session) Connect(ctx context.Context) error {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()
	return s.connect(ctx, false)
}

// InitializeConnection reconnects silently when the last session ended connected and
// the wallet still exposes an account. It never prompts.
func (s *Session) InitializeConnection(ctx context.Context) error {
	if s.opts.Wallet == nil || s.opts.Preferences == nil {
		return nil
	}
	prefs, err := s.opts.Preferences.Load()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if !prefs.WasConnected {
		return nil
	}
	accounts, err := s.opts.Wallet.Accounts(ctx)
	if err != nil || len(accounts) == 0 {
		s.logger.Info("Skipping silent reconnect, wallet exposes no accounts")
		return nil
	}

	s.connectMu.Lock()
	defer s.connectMu.Unlock()
	return s.connect(ctx, true)
}

func (s *Session) connect(ctx context.Context, silent bool) error {
	w := s.opts.Wallet
	if w == nil {
		err := apperr.New(apperr.KindWalletConnectionFailed, "No wallet provider available")
		s.notify(err)
		return err
	}

	var accounts []common.Address
	var err error
	if silent {
		accounts, err = w.Accounts(ctx)
	} else {
		accounts, err = w.RequestAccounts(ctx)
	}
	if err == nil && len(accounts) == 0 {
		err = apperr.New(apperr.KindWalletConnectionFailed, "No accounts found")
	}
	if err != nil {
		classified := apperr.Classify(err)
		if classified.Kind == apperr.KindUnknown {
			classified = apperr.Wrap(apperr.KindWalletConnectionFailed, "Failed to connect wallet", err)
		}
		s.notify(classified)
		return classified
	}

	var chainID uint64
	var address common.Address
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := w.ChainID(gctx)
		chainID = id
		return err
	})
	g.Go(func() error {
		current, err := w.Accounts(gctx)
		if err != nil {
			return err
		}
		address = accounts[0]
		if len(current) > 0 {
			address = current[0]
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		classified := apperr.Wrap(apperr.KindWalletConnectionFailed, "Failed to read wallet network", err)
		s.notify(classified)
		return classified
	}

	s.mu.Lock()
	s.state = entity.Session{
		Connected: true,
		Address:   address,
		ChainID:   chainID,
		HasSigner: w.HasSigner(),
		Epoch:     s.state.Epoch + 1,
	}
	snap := s.state
	if s.sub == nil {
		events := make(chan entity.ProviderEvent, 8)
		s.sub = w.SubscribeEvents(events)
		go s.watch(s.sub, events)
	}
	s.mu.Unlock()

	if s.opts.Preferences != nil {
		if err := s.opts.Preferences.SetWasConnected(true); err != nil {
			s.logger.Warn("Failed to persist connection flag", zap.Error(err))
		}
	}
	s.logger.Info("Wallet connected", zap.String("address", address.Hex()), zap.Uint64("chainId", chainID))
	s.emit(entity.SessionConnected, snap)

	go s.loadNativeBalance(snap)
	return nil
}

// Disconnect resets the session and stops listening to the provider.
func (s *Session) Disconnect() {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()
	s.disconnect(true)
}

func (s *Session) disconnect(unsubscribe bool) {
	s.mu.Lock()
	was := s.state.Connected
	s.state = entity.Session{Epoch: s.state.Epoch + 1}
	snap := s.state
	var sub event.Subscription
	if unsubscribe {
		sub, s.sub = s.sub, nil
	}
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if unsubscribe && s.opts.Preferences != nil {
		if err := s.opts.Preferences.SetWasConnected(false); err != nil {
			s.logger.Warn("Failed to clear connection flag", zap.Error(err))
		}
	}
	if was {
		s.logger.Info("Wallet disconnected")
	}
	s.emit(entity.SessionDisconnected, snap)
}

// SwitchNetwork asks the wallet to change chain. The resulting chainChanged event
// reconnects the session.
func (s *Session) SwitchNetwork(ctx context.Context, chainID uint64) error {
	if s.opts.Wallet == nil {
		err := apperr.New(apperr.KindWalletConnectionFailed, "No wallet provider available")
		s.notify(err)
		return err
	}
	if err := s.opts.Wallet.SwitchChain(ctx, chainID); err != nil {
		classified := apperr.Classify(err)
		s.notify(classified)
		return classified
	}
	return nil
}

// RefreshBalance reloads the native balance of the current session.
func (s *Session) RefreshBalance() {
	snap := s.Snapshot()
	if snap.Connected {
		go s.loadNativeBalance(snap)
	}
}

func (s *Session) watch(sub event.Subscription, events <-chan entity.ProviderEvent) {
	for {
		select {
		case ev := <-events:
			s.handleEvent(ev)
		case <-sub.Err():
			return
		}
	}
}

func (s *Session) handleEvent(ev entity.ProviderEvent) {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	current := s.Snapshot()
	switch ev.Kind {
	case entity.ProviderDisconnect:
		s.logger.Info("Provider disconnected")
		s.disconnect(true)
	case entity.AccountsChanged:
		if len(ev.Accounts) == 0 {
			s.logger.Info("Wallet locked or accounts removed")
			s.disconnect(true)
			return
		}
		if current.Connected && ev.Accounts[0] != current.Address {
			s.logger.Info("Account changed", zap.String("address", ev.Accounts[0].Hex()))
			s.reconnect()
		}
	case entity.ChainChanged:
		if current.Connected && ev.ChainID != current.ChainID {
			s.logger.Info("Chain changed", zap.Uint64("chainId", ev.ChainID))
			s.reconnect()
		}
	}
}

// reconnect runs the same path as an explicit disconnect followed by a silent connect.
func (s *Session) reconnect() {
	s.disconnect(false)
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.EventTimeout)
	defer cancel()
	if err := s.connect(ctx, true); err != nil {
		s.logger.Warn("Reconnect after provider event failed", zap.Error(err))
	}
}

func (s *Session) loadNativeBalance(snap entity.Session) {
	if s.opts.Balances == nil {
		return
	}
	decimals := int32(18)
	if s.opts.Networks != nil {
		if def, ok := s.opts.Networks.GetNetworkDefinitionByChainID(snap.ChainID); ok && def.NativeCurrency.Decimals > 0 {
			decimals = def.NativeCurrency.Decimals
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.EventTimeout)
	defer cancel()

	query := []entity.BalanceQuery{{Key: "native", Owner: snap.Address, Decimals: decimals}}
	results, err := apperr.Retry(ctx, s.opts.Retry, func(ctx context.Context) ([]entity.Balance, error) {
		res, err := s.opts.Balances.GetBalances(ctx, snap.ChainID, query)
		if err != nil {
			return nil, apperr.Classify(err)
		}
		if len(res) == 1 && res[0].Err != nil {
			return nil, apperr.Classify(res[0].Err)
		}
		return res, nil
	})
	if err != nil || len(results) != 1 {
		s.logger.Warn("Failed to load native balance", zap.String("address", snap.Address.Hex()), zap.Error(err))
		return
	}

	s.mu.Lock()
	if s.state.Epoch != snap.Epoch {
		s.mu.Unlock()
		return
	}
	s.state.NativeBalance = results[0].Formatted
	updated := s.state
	s.mu.Unlock()
	s.emit(entity.SessionBalanceUpdated, updated)
}

func (s *Session) emit(change entity.SessionChange, snap entity.Session) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(change, snap)
	}
}

func (s *Session) notify(err error) {
	if s.opts.Notifier != nil {
		s.opts.Notifier.Notify(err)
	}
}
