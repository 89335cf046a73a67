// Package wallet provides the process-side wallet: a set of local keys (or watch-only
// addresses) exposed through the same request/switch/event surface as a browser provider.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	networkdefinition "wrmb_dapp/internal/infrastructure/network/definition"
	"wrmb_dapp/internal/infrastructure/walletloader"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"
)

// BackendSource dials chain backends; client.Provider satisfies it.
type BackendSource interface {
	Backend(chainID uint64) (port.ChainBackend, error)
}

// KeystoreProvider implements port.WalletProvider over locally held keys.
type KeystoreProvider struct {
	backends BackendSource
	logger   *zap.Logger

	mu       sync.Mutex
	keys     map[common.Address]*ecdsa.PrivateKey
	accounts []common.Address
	exposed  bool
	chainID  uint64
	closed   bool

	feed event.Feed
}

// NewKeystoreProvider builds a provider for the given accounts. The first account is the
// selected one. With no keys the provider is watch-only.
func NewKeystoreProvider(accounts walletloader.Accounts, chainID uint64, backends BackendSource, logger *zap.Logger) *KeystoreProvider {
	p := &KeystoreProvider{
		backends: backends,
		logger:   logger.Named("KeystoreProvider"),
		keys:     make(map[common.Address]*ecdsa.PrivateKey, len(accounts.Keys)),
		accounts: accounts.Addresses(),
		chainID:  chainID,
	}
	for _, k := range accounts.Keys {
		p.keys[crypto.PubkeyToAddress(k.PublicKey)] = k
	}
	return p
}

func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, &apperr.Error{Kind: apperr.KindWalletConnectionFailed, Message: "Wallet provider is disconnected", Code: apperr.CodeDisconnected}
	}
	if len(p.accounts) == 0 {
		return nil, apperr.New(apperr.KindWalletConnectionFailed, "No accounts found")
	}
	p.exposed = true
	return append([]common.Address(nil), p.accounts...), nil
}

func (p *KeystoreProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exposed || p.closed {
		return nil, nil
	}
	return append([]common.Address(nil), p.accounts...), nil
}

func (p *KeystoreProvider) ChainID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, nil
}

// SwitchChain selects chainID. Chains outside the supported set fail with code 4902.
func (p *KeystoreProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !networkdefinition.IsSupported(chainID) {
		return &apperr.Error{
			Kind:    apperr.KindInvalidInput,
			Message: fmt.Sprintf("Unrecognized chain ID %d", chainID),
			Code:    apperr.CodeUnrecognizedChain,
		}
	}
	p.mu.Lock()
	changed := p.chainID != chainID
	p.chainID = chainID
	p.mu.Unlock()

	if changed {
		p.logger.Info("Chain switched", zap.Uint64("chainId", chainID))
		p.feed.Send(entity.ProviderEvent{Kind: entity.ChainChanged, ChainID: chainID})
	}
	return nil
}

func (p *KeystoreProvider) Backend(chainID uint64) (port.ChainBackend, error) {
	if p.backends == nil {
		return nil, fmt.Errorf("no chain backend configured")
	}
	return p.backends.Backend(chainID)
}

func (p *KeystoreProvider) HasSigner() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys) > 0
}

// Transactor returns signing options for account on the current chain.
func (p *KeystoreProvider) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	p.mu.Lock()
	key, ok := p.keys[account]
	chainID := p.chainID
	p.mu.Unlock()
	if !ok {
		return nil, apperr.New(apperr.KindWalletNotConnected, "No signer for account "+account.Hex())
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (p *KeystoreProvider) SubscribeEvents(ch chan<- entity.ProviderEvent) event.Subscription {
	return p.feed.Subscribe(ch)
}

// SelectAccount makes addr the current account and emits accountsChanged.
func (p *KeystoreProvider) SelectAccount(addr common.Address) error {
	p.mu.Lock()
	idx := -1
	for i, a := range p.accounts {
		if a == addr {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return fmt.Errorf("account %s is not managed by this wallet", addr.Hex())
	}
	p.accounts[0], p.accounts[idx] = p.accounts[idx], p.accounts[0]
	accounts := append([]common.Address(nil), p.accounts...)
	exposed := p.exposed
	p.mu.Unlock()

	if exposed && idx != 0 {
		p.feed.Send(entity.ProviderEvent{Kind: entity.AccountsChanged, Accounts: accounts})
	}
	return nil
}

// Lock hides the accounts until the next RequestAccounts and emits accountsChanged([]).
func (p *KeystoreProvider) Lock() {
	p.mu.Lock()
	was := p.exposed
	p.exposed = false
	p.mu.Unlock()
	if was {
		p.feed.Send(entity.ProviderEvent{Kind: entity.AccountsChanged})
	}
}

// Close emits disconnect. Later requests fail.
func (p *KeystoreProvider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.exposed = false
	p.mu.Unlock()
	p.feed.Send(entity.ProviderEvent{Kind: entity.ProviderDisconnect})
}
