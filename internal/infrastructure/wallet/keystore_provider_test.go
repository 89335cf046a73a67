package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"testing"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/walletloader"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var watchAddr = common.HexToAddress("0x00000000000000000000000000000000000000bb")

func newSigner(t *testing.T) (*KeystoreProvider, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	p := NewKeystoreProvider(walletloader.Accounts{Keys: []*ecdsa.PrivateKey{key}, Watch: []common.Address{watchAddr}}, 11155111, nil, zap.NewNop())
	return p, crypto.PubkeyToAddress(key.PublicKey)
}

func TestAccountsHiddenUntilRequested(t *testing.T) {
	p, signer := newSigner(t)
	ctx := context.Background()

	accs, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accs)

	accs, err = p.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{signer, watchAddr}, accs)

	accs, _ = p.Accounts(ctx)
	assert.Len(t, accs, 2)
	assert.True(t, p.HasSigner())
}

func TestWatchOnlyHasNoSigner(t *testing.T) {
	p := NewKeystoreProvider(walletloader.Accounts{Watch: []common.Address{watchAddr}}, 1, nil, zap.NewNop())
	assert.False(t, p.HasSigner())
	_, err := p.Transactor(context.Background(), watchAddr)
	assert.True(t, errors.Is(err, apperr.ErrWalletNotConnected))
}

func TestNoAccountsFailsConnection(t *testing.T) {
	p := NewKeystoreProvider(walletloader.Accounts{}, 1, nil, zap.NewNop())
	_, err := p.RequestAccounts(context.Background())
	assert.Equal(t, apperr.KindWalletConnectionFailed, apperr.KindOf(err))
}

func TestSwitchChainEmitsEvent(t *testing.T) {
	p, _ := newSigner(t)
	events := make(chan entity.ProviderEvent, 4)
	sub := p.SubscribeEvents(events)
	defer sub.Unsubscribe()

	require.NoError(t, p.SwitchChain(context.Background(), 1))
	ev := <-events
	assert.Equal(t, entity.ChainChanged, ev.Kind)
	assert.Equal(t, uint64(1), ev.ChainID)

	id, _ := p.ChainID(context.Background())
	assert.Equal(t, uint64(1), id)

	require.NoError(t, p.SwitchChain(context.Background(), 1))
	assert.Empty(t, events, "no event when the chain does not change")
}

func TestSwitchToUnknownChain(t *testing.T) {
	p, _ := newSigner(t)
	err := p.SwitchChain(context.Background(), 999)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeUnrecognizedChain, appErr.Code)
}

func TestTransactorSignsForChain(t *testing.T) {
	p, signer := newSigner(t)
	opts, err := p.Transactor(context.Background(), signer)
	require.NoError(t, err)
	assert.Equal(t, signer, opts.From)
	assert.NotNil(t, opts.Signer)
}

func TestAccountEvents(t *testing.T) {
	p, signer := newSigner(t)
	events := make(chan entity.ProviderEvent, 4)
	sub := p.SubscribeEvents(events)
	defer sub.Unsubscribe()
	_, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.SelectAccount(watchAddr))
	ev := <-events
	assert.Equal(t, entity.AccountsChanged, ev.Kind)
	assert.Equal(t, []common.Address{watchAddr, signer}, ev.Accounts)

	p.Lock()
	ev = <-events
	assert.Equal(t, entity.AccountsChanged, ev.Kind)
	assert.Empty(t, ev.Accounts)

	p.Close()
	ev = <-events
	assert.Equal(t, entity.ProviderDisconnect, ev.Kind)
	_, err = p.RequestAccounts(context.Background())
	assert.Error(t, err)
}
