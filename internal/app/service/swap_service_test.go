package service

import (
	"context"
	"testing"

	"wrmb_dapp/internal/app/notify"
	"wrmb_dapp/internal/app/txflow"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/contracts"
	"wrmb_dapp/internal/infrastructure/simulated"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sessionStub entity.Session

func (s sessionStub) Snapshot() entity.Session { return entity.Session(s) }

var (
	swapUser = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	hookAddr = common.HexToAddress("0x00000000000000000000000000000000000000b0")
)

func newSwapService(sess entity.Session, cfg SwapConfig) (*SwapService, *simulated.Source) {
	src := simulated.New(nil)
	exec := txflow.NewExecutor(notify.NewCenter(0, nil, zap.NewNop()), nil, zap.NewNop(), false)
	return NewSwapService(simulated.Quoter{}, src, src, sessionStub(sess), exec, cfg, zap.NewNop()), src
}

func TestSwapQuote(t *testing.T) {
	s, _ := newSwapService(entity.Session{}, SwapConfig{})
	ctx := context.Background()

	q, err := s.Quote(ctx, entity.TokenWRMB, entity.TokenUSDT, "1000", 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", q.AmountIn)
	assert.Equal(t, "139.93", q.AmountOut)
	assert.Equal(t, "120000", q.GasEstimate)
	assert.Equal(t, "0.05", q.PriceImpact)
	assert.Equal(t, uint32(500), q.Fee)

	q, err = s.Quote(ctx, entity.TokenUSDT, entity.TokenWRMB, "100", 3000)
	require.NoError(t, err)
	out := decimal.RequireFromString(q.AmountOut)
	assert.True(t, out.GreaterThan(decimal.NewFromInt(712)), q.AmountOut)
	assert.True(t, out.LessThan(decimal.NewFromInt(714)), q.AmountOut)
	assert.Equal(t, uint32(3000), q.Fee)
}

func TestSwapQuoteRejectsBadInput(t *testing.T) {
	s, _ := newSwapService(entity.Session{}, SwapConfig{})
	ctx := context.Background()

	_, err := s.Quote(ctx, entity.TokenWRMB, entity.TokenWRMB, "1", 0)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	_, err = s.Quote(ctx, entity.TokenWRMB, entity.TokenUSDT, "-3", 0)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestPriceImpactTiers(t *testing.T) {
	cases := map[string]string{
		"999.99":  "0.01",
		"1000":    "0.05",
		"9999":    "0.05",
		"50000":   "0.1",
		"100000":  "0.5",
		"2500000": "0.5",
	}
	for amount, want := range cases {
		assert.Equal(t, want, PriceImpact(decimal.RequireFromString(amount)), amount)
	}
}

func TestPoolKeyUsesDefaultsAndHooks(t *testing.T) {
	usdt := simulated.Addresses[entity.ContractUSDT]
	s, _ := newSwapService(entity.Session{}, SwapConfig{Hooks: map[common.Address]common.Address{usdt: hookAddr}})

	key, err := s.PoolKey(entity.TokenUSDT, entity.TokenWRMB, 0)
	require.NoError(t, err)
	assert.Equal(t, simulated.Addresses[entity.ContractWRMB], key.Currency0)
	assert.Equal(t, usdt, key.Currency1)
	assert.Equal(t, uint32(500), key.Fee)
	assert.Equal(t, int32(10), key.TickSpacing)
	assert.Equal(t, hookAddr, key.Hooks)

	plain, err := s.PoolKey(entity.TokenWRMB, entity.TokenCINA, 0)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, plain.Hooks)

	info, err := s.PoolInfo(context.Background(), entity.TokenUSDT, entity.TokenWRMB, 0)
	require.NoError(t, err)
	id, err := contracts.PoolID(key)
	require.NoError(t, err)
	assert.Equal(t, id, info.PoolID)
}

func TestSwapEnsureAllowance(t *testing.T) {
	ctx := context.Background()
	spender := common.HexToAddress("0x00000000000000000000000000000000000000c2")

	s, _ := newSwapService(entity.Session{}, SwapConfig{})
	err := s.EnsureAllowance(ctx, entity.TokenWRMB, spender, "10")
	assert.Equal(t, apperr.KindWalletNotConnected, apperr.KindOf(err))

	s, src := newSwapService(entity.Session{Connected: true, HasSigner: true, Address: swapUser, Epoch: 1}, SwapConfig{})
	require.NoError(t, s.EnsureAllowance(ctx, entity.TokenWRMB, spender, "10"))

	tok, err := src.Token(entity.ContractWRMB)
	require.NoError(t, err)
	allowance, err := tok.Allowance(ctx, swapUser, spender)
	require.NoError(t, err)
	assert.Equal(t, 0, allowance.Cmp(utils.MustParseUnits("10", 18)))
}
