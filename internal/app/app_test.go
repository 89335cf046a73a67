package app

import (
	"context"
	"crypto/ecdsa"
	"testing"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/configloader"
	networkdefinition "wrmb_dapp/internal/infrastructure/network/definition"
	"wrmb_dapp/internal/infrastructure/wallet"
	"wrmb_dapp/internal/infrastructure/walletloader"
	"wrmb_dapp/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, _ := newTestAppWithWallet(t)
	return a
}

func newTestAppWithWallet(t *testing.T) (*App, *wallet.KeystoreProvider) {
	t.Helper()
	cfg, err := configloader.Parse([]byte("dataSource:\n  default: simulated\n"))
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	provider := wallet.NewKeystoreProvider(walletloader.Accounts{Keys: []*ecdsa.PrivateKey{key}}, cfg.Wallet.InitialChainID, nil, zap.NewNop())

	a, err := New(Options{
		Config:   cfg,
		Wallet:   provider,
		Networks: networkdefinition.NewNetworkDefinitionProvider(logger.NewZapAdapter(zap.NewNop()), nil),
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, provider
}

func allReady(a *App) bool {
	for _, p := range a.Stores.All() {
		if p.Status() != entity.StatusReady {
			return false
		}
	}
	return true
}

func TestConnectLoadsStoresAndStartsRefresh(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.Session.Connect(context.Background()))
	require.Eventually(t, func() bool { return allReady(a) && a.AutoRefresh() }, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, "8.50", a.Stores.Savings.Snapshot().APY)
	assert.Equal(t, "12.50", a.Stores.Staking.Snapshot().APY)
	assert.Equal(t, "5.00", a.Stores.Bonds.Snapshot().APY)
}

func TestDisconnectResetsStores(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.Session.Connect(context.Background()))
	require.Eventually(t, func() bool { return allReady(a) && a.AutoRefresh() }, 3*time.Second, 10*time.Millisecond)

	a.Session.Disconnect()
	assert.False(t, a.AutoRefresh())
	for _, p := range a.Stores.All() {
		assert.Equal(t, entity.StatusIdle, p.Status(), p.Name())
	}
	assert.Empty(t, a.Stores.Farm.Snapshot().APY)
}

func TestLockedWalletStopsRefresh(t *testing.T) {
	a, provider := newTestAppWithWallet(t)

	require.NoError(t, a.Session.Connect(context.Background()))
	require.Eventually(t, func() bool { return allReady(a) && a.AutoRefresh() }, 3*time.Second, 10*time.Millisecond)

	provider.Lock()
	require.Eventually(t, func() bool {
		return !a.Session.Snapshot().Connected && !a.AutoRefresh() && a.Stores.Wrap.Status() == entity.StatusIdle
	}, time.Second, 10*time.Millisecond)
	for _, p := range a.Stores.All() {
		assert.Equal(t, entity.StatusIdle, p.Status(), p.Name())
	}
}

func TestFetchAllWhileDisconnectedIsNoop(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.FetchAll(context.Background()))
	for _, p := range a.Stores.All() {
		assert.Equal(t, entity.StatusIdle, p.Status(), p.Name())
	}
	assert.False(t, a.AutoRefresh())
}

func TestProductLookup(t *testing.T) {
	a := newTestApp(t)

	p, ok := a.Product("bonds")
	require.True(t, ok)
	assert.Equal(t, "bonds", p.Name())
	_, ok = a.Product("lending")
	assert.False(t, ok)
}
