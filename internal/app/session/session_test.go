package session

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

type fakeWallet struct {
	mu       sync.Mutex
	accounts []common.Address
	exposed  bool
	chainID  uint64
	reqErr   error
	feed     event.Feed
}

func (w *fakeWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reqErr != nil {
		return nil, w.reqErr
	}
	w.exposed = true
	return append([]common.Address(nil), w.accounts...), nil
}

func (w *fakeWallet) Accounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.exposed {
		return nil, nil
	}
	return append([]common.Address(nil), w.accounts...), nil
}

func (w *fakeWallet) ChainID(context.Context) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID, nil
}

func (w *fakeWallet) SwitchChain(_ context.Context, id uint64) error {
	if id == 999 {
		return &apperr.Error{Kind: apperr.KindInvalidInput, Message: "Unrecognized chain ID", Code: apperr.CodeUnrecognizedChain}
	}
	w.mu.Lock()
	w.chainID = id
	w.mu.Unlock()
	w.feed.Send(entity.ProviderEvent{Kind: entity.ChainChanged, ChainID: id})
	return nil
}

func (w *fakeWallet) Backend(uint64) (port.ChainBackend, error) { return nil, errors.New("no backend") }
func (w *fakeWallet) HasSigner() bool                            { return true }
func (w *fakeWallet) Transactor(context.Context, common.Address) (*bind.TransactOpts, error) {
	return nil, errors.New("no signer")
}
func (w *fakeWallet) SubscribeEvents(ch chan<- entity.ProviderEvent) event.Subscription {
	return w.feed.Subscribe(ch)
}

func (w *fakeWallet) selectAccount(a common.Address) {
	w.mu.Lock()
	w.accounts = []common.Address{a}
	w.mu.Unlock()
	w.feed.Send(entity.ProviderEvent{Kind: entity.AccountsChanged, Accounts: []common.Address{a}})
}

type memPrefs struct {
	mu    sync.Mutex
	prefs entity.Preferences
}

func (p *memPrefs) Load() (entity.Preferences, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs, nil
}
func (p *memPrefs) SetTheme(string) error  { return nil }
func (p *memPrefs) SetLocale(string) error { return nil }
func (p *memPrefs) SetWasConnected(v bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs.WasConnected = v
	return nil
}

type staticBalances struct{}

func (staticBalances) GetBalances(_ context.Context, _ uint64, queries []entity.BalanceQuery) ([]entity.Balance, error) {
	out := make([]entity.Balance, len(queries))
	for i, q := range queries {
		out[i] = entity.Balance{Key: q.Key, Raw: big.NewInt(1), Formatted: "1.5"}
	}
	return out, nil
}

type recorder struct {
	mu      sync.Mutex
	changes []entity.SessionChange
}

func (r *recorder) listen(c entity.SessionChange, _ entity.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) count(c entity.SessionChange) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.changes {
		if x == c {
			n++
		}
	}
	return n
}

func newSession(w *fakeWallet, prefs *memPrefs) (*Session, *recorder) {
	s := New(Options{Wallet: w, Preferences: prefs, Balances: staticBalances{}, EventTimeout: time.Second}, zap.NewNop())
	rec := &recorder{}
	s.OnChange(rec.listen)
	return s, rec
}

func TestConnectPopulatesSession(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 11155111}
	prefs := &memPrefs{}
	s, rec := newSession(w, prefs)

	require.NoError(t, s.Connect(context.Background()))
	snap := s.Snapshot()
	assert.True(t, snap.Connected)
	assert.Equal(t, alice, snap.Address)
	assert.Equal(t, uint64(11155111), snap.ChainID)
	assert.True(t, snap.HasSigner)
	assert.True(t, prefs.prefs.WasConnected)
	assert.Equal(t, 1, rec.count(entity.SessionConnected))

	assert.Eventually(t, func() bool { return s.Snapshot().NativeBalance == "1.5" }, time.Second, 5*time.Millisecond)
}

func TestRefreshBalanceReloads(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 1}
	s, rec := newSession(w, &memPrefs{})

	s.RefreshBalance()
	require.NoError(t, s.Connect(context.Background()))
	assert.Eventually(t, func() bool { return rec.count(entity.SessionBalanceUpdated) == 1 }, time.Second, 5*time.Millisecond)

	s.RefreshBalance()
	assert.Eventually(t, func() bool { return rec.count(entity.SessionBalanceUpdated) == 2 }, time.Second, 5*time.Millisecond)
}

func TestConnectFailureLeavesDisconnected(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, reqErr: errors.New("User rejected the request")}
	s, _ := newSession(w, &memPrefs{})
	err := s.Connect(context.Background())
	assert.Equal(t, apperr.KindUserRejected, apperr.KindOf(err))
	assert.False(t, s.Snapshot().Connected)

	w2 := &fakeWallet{}
	s2, _ := newSession(w2, &memPrefs{})
	err = s2.Connect(context.Background())
	assert.Equal(t, apperr.KindWalletConnectionFailed, apperr.KindOf(err))
}

func TestDisconnectResets(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 1}
	prefs := &memPrefs{}
	s, rec := newSession(w, prefs)
	require.NoError(t, s.Connect(context.Background()))
	epoch := s.Snapshot().Epoch

	s.Disconnect()
	snap := s.Snapshot()
	assert.False(t, snap.Connected)
	assert.Equal(t, common.Address{}, snap.Address)
	assert.Greater(t, snap.Epoch, epoch)
	assert.False(t, prefs.prefs.WasConnected)
	assert.Equal(t, 1, rec.count(entity.SessionDisconnected))
}

func TestSilentReconnectNeedsFlagAndAccounts(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 1}
	s, _ := newSession(w, &memPrefs{})
	require.NoError(t, s.InitializeConnection(context.Background()))
	assert.False(t, s.Snapshot().Connected, "flag not set")

	prefs := &memPrefs{prefs: entity.Preferences{WasConnected: true}}
	s, _ = newSession(w, prefs)
	require.NoError(t, s.InitializeConnection(context.Background()))
	assert.False(t, s.Snapshot().Connected, "wallet has not exposed accounts")

	w.exposed = true
	require.NoError(t, s.InitializeConnection(context.Background()))
	assert.True(t, s.Snapshot().Connected)
}

func TestAccountChangeReconnects(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 1}
	s, rec := newSession(w, &memPrefs{})
	require.NoError(t, s.Connect(context.Background()))

	w.selectAccount(bob)
	assert.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Connected && snap.Address == bob
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.count(entity.SessionDisconnected))
	assert.Equal(t, 2, rec.count(entity.SessionConnected))
}

func TestChainChangeMatchesExplicitSwitch(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 1}
	s, _ := newSession(w, &memPrefs{})
	require.NoError(t, s.Connect(context.Background()))

	require.NoError(t, s.SwitchNetwork(context.Background(), 11155111))
	assert.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Connected && snap.ChainID == 11155111
	}, time.Second, 5*time.Millisecond)

	err := s.SwitchNetwork(context.Background(), 999)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeUnrecognizedChain, appErr.Code)
}

func TestEmptyAccountsEventDisconnects(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}, chainID: 1}
	s, _ := newSession(w, &memPrefs{})
	require.NoError(t, s.Connect(context.Background()))

	w.feed.Send(entity.ProviderEvent{Kind: entity.AccountsChanged})
	assert.Eventually(t, func() bool { return !s.Snapshot().Connected }, time.Second, 5*time.Millisecond)
}
