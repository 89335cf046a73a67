package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when a contract binding cannot be produced.
// It is always wrapped with the reason.
var ErrUnavailable = errors.New("contract unavailable")

// Binding is a contract bound to an address, chain and optional signer.
// Account is the signing account and stays zero for read-only bindings.
type Binding struct {
	Name    entity.ContractName
	Address common.Address
	ChainID uint64
	Signer  bool
	Account common.Address

	abi        *abi.ABI
	contract   *bind.BoundContract
	backend    port.ChainBackend
	transactor func(ctx context.Context) (*bind.TransactOpts, error)
}

// Call invokes a constant method and returns its unpacked outputs.
func (b *Binding) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", b.Name, method, err)
	}
	return out, nil
}

// Transact signs and sends a state-changing call.
func (b *Binding) Transact(ctx context.Context, method string, args ...interface{}) (*types.Transaction, error) {
	if !b.Signer || b.transactor == nil {
		return nil, fmt.Errorf("%w: %s bound without signer", ErrUnavailable, b.Name)
	}
	opts, err := b.transactor(ctx)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	tx, err := b.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", b.Name, method, err)
	}
	return tx, nil
}

// Logs returns every log of event emitted by the contract since fromBlock.
func (b *Binding) Logs(ctx context.Context, event string, fromBlock uint64) ([]types.Log, error) {
	ev, ok := b.abi.Events[event]
	if !ok {
		return nil, fmt.Errorf("%s has no event %s", b.Name, event)
	}
	return b.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{b.Address},
		Topics:    [][]common.Hash{{ev.ID}},
	})
}

// UnpackLog decodes a log of event into out.
func (b *Binding) UnpackLog(out interface{}, event string, log types.Log) error {
	return b.contract.UnpackLog(out, event, log)
}

// Registry builds contract bindings for the active session and caches them.
// The cache key is address, chain, signer account, ABI, the session epoch and
// the invalidation epoch, so a binding built from an older session snapshot is
// never served to a newer one.
type Registry struct {
	wallet  port.WalletProvider
	session port.SessionView
	book    *AddressBook
	cache   *gocache.Cache
	epoch   atomic.Uint64
	mu      sync.RWMutex
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRegistry creates a Registry. wallet may be nil, in which case every Get
// reports ErrUnavailable.
func NewRegistry(wallet port.WalletProvider, session port.SessionView, book *AddressBook, m *metrics.Metrics, logger *zap.Logger) *Registry {
	return &Registry{
		wallet:  wallet,
		session: session,
		book:    book,
		cache:   gocache.New(gocache.NoExpiration, 10*time.Minute),
		metrics: m,
		logger:  logger.Named("ContractRegistry"),
	}
}

// Get returns the binding for name on the active chain.
func (r *Registry) Get(name entity.ContractName, signer bool) (*Binding, error) {
	if r.wallet == nil {
		return nil, fmt.Errorf("%w: no wallet provider", ErrUnavailable)
	}
	sess := r.session.Snapshot()
	if !sess.Connected {
		return nil, fmt.Errorf("%w: wallet not connected", ErrUnavailable)
	}
	if signer && !r.wallet.HasSigner() {
		return nil, fmt.Errorf("%w: %s needs a signer but the wallet is watch-only", ErrUnavailable, name)
	}
	addr, ok := r.book.Address(name, sess.ChainID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not deployed on chain %d", ErrUnavailable, name, sess.ChainID)
	}
	kind, ok := ABIFor(name)
	if !ok {
		return nil, fmt.Errorf("%w: no ABI for %s", ErrUnavailable, name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	key := bindingKey(addr, sess, signer, kind, r.epoch.Load())
	if cached, found := r.cache.Get(key); found {
		return cached.(*Binding), nil
	}

	b, err := r.build(name, kind, addr, sess, signer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := r.cache.Add(key, b, gocache.NoExpiration); err != nil {
		// Lost the race to another caller; keep a single instance per key.
		if cached, found := r.cache.Get(key); found {
			return cached.(*Binding), nil
		}
	}
	return b, nil
}

func bindingKey(addr common.Address, sess entity.Session, signer bool, kind ABIKind, epoch uint64) string {
	account := "read"
	if signer {
		account = sess.Address.Hex()
	}
	return fmt.Sprintf("%s_%d_%s_%s_%d_%d", addr.Hex(), sess.ChainID, account, kind, sess.Epoch, epoch)
}

func (r *Registry) build(name entity.ContractName, kind ABIKind, addr common.Address, sess entity.Session, signer bool) (*Binding, error) {
	parsed, err := ParsedABI(kind)
	if err != nil {
		return nil, err
	}
	backend, err := r.wallet.Backend(sess.ChainID)
	if err != nil {
		return nil, fmt.Errorf("no backend for chain %d: %w", sess.ChainID, err)
	}
	b := &Binding{
		Name:     name,
		Address:  addr,
		ChainID:  sess.ChainID,
		Signer:   signer,
		abi:      parsed,
		contract: bind.NewBoundContract(addr, *parsed, backend, backend, backend),
		backend:  backend,
	}
	if signer {
		account := sess.Address
		b.Account = account
		b.transactor = func(ctx context.Context) (*bind.TransactOpts, error) {
			return r.wallet.Transactor(ctx, account)
		}
	}
	r.logger.Debug("Bound contract", zap.String("name", string(name)), zap.String("address", addr.Hex()),
		zap.Uint64("chainId", sess.ChainID), zap.Bool("signer", signer))
	return b, nil
}

// Backend returns the node backend of the active chain.
func (r *Registry) Backend() (port.ChainBackend, error) {
	if r.wallet == nil {
		return nil, fmt.Errorf("%w: no wallet provider", ErrUnavailable)
	}
	sess := r.session.Snapshot()
	if !sess.Connected {
		return nil, fmt.Errorf("%w: wallet not connected", ErrUnavailable)
	}
	return r.wallet.Backend(sess.ChainID)
}

// Address resolves name on the active chain.
func (r *Registry) Address(name entity.ContractName) (common.Address, bool) {
	sess := r.session.Snapshot()
	if !sess.Connected {
		return common.Address{}, false
	}
	return r.book.Address(name, sess.ChainID)
}

// CurrentAddresses returns the deployments of the active chain.
func (r *Registry) CurrentAddresses() map[entity.ContractName]common.Address {
	sess := r.session.Snapshot()
	if !sess.Connected {
		return map[entity.ContractName]common.Address{}
	}
	return r.book.ForChain(sess.ChainID)
}

// AddressesForChain returns the deployments of any chain.
func (r *Registry) AddressesForChain(chainID uint64) map[entity.ContractName]common.Address {
	return r.book.ForChain(chainID)
}

// Invalidate drops every cached binding at once.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.epoch.Add(1)
	r.cache.Flush()
	r.mu.Unlock()

	r.metrics.CacheCleared()
	r.logger.Debug("Contract cache cleared", zap.Uint64("epoch", r.epoch.Load()))
}

// HandleSessionChange invalidates on connect and disconnect.
func (r *Registry) HandleSessionChange(change entity.SessionChange, _ entity.Session) {
	if change == entity.SessionConnected || change == entity.SessionDisconnected {
		r.Invalidate()
	}
}

// Len reports the number of cached bindings.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
