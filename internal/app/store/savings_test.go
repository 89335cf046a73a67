package store

import (
	"context"
	"math/big"
	"testing"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSavingsFetch(t *testing.T) {
	f := newFixture(t)
	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())

	require.NoError(t, s.Fetch(context.Background()))
	snap := s.Snapshot()
	assert.Equal(t, entity.StatusReady, snap.Status)
	assert.Equal(t, "1000000", snap.TotalAssets)
	assert.Equal(t, "1.05", snap.NAV)
	assert.Equal(t, "1000", snap.ShareBalance)
	assert.Equal(t, "5000", snap.WRMBBalance)
	assert.Equal(t, "8.50", snap.APY)
	assert.Equal(t, APYSourceFallback, snap.APYSource)
	assert.Equal(t, "17.0000", snap.CurrentAPY)
	assert.Equal(t, "0.1050", snap.UserSharePercentage)
	assert.Len(t, snap.NAVHistory, 1)
	assert.Empty(t, snap.CurrentPrice)
}

func TestSavingsHistoryAPY(t *testing.T) {
	f := newFixture(t)
	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx))
	f.clock.advance(30 * time.Minute)
	require.NoError(t, s.Fetch(ctx))
	assert.Equal(t, APYSourceFallback, s.Snapshot().APYSource, "window shorter than an hour")

	f.clock.advance(10*24*time.Hour - 30*time.Minute)
	require.NoError(t, s.Fetch(ctx))
	snap := s.Snapshot()
	assert.Equal(t, APYSourceHistory, snap.APYSource)
	assert.Len(t, snap.NAVHistory, 3)
	apy := decimal.RequireFromString(snap.APY)
	assert.True(t, apy.GreaterThan(decimal.NewFromFloat(8.8)), snap.APY)
	assert.True(t, apy.LessThan(decimal.NewFromFloat(8.95)), snap.APY)
}

func TestSavingsHistoryPrunedAndReset(t *testing.T) {
	f := newFixture(t)
	cfg := DefaultSavingsConfig
	cfg.HistoryWindow = 2 * time.Hour
	s := NewSavingsStore(f.deps, cfg, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Fetch(ctx))
		f.clock.advance(time.Hour)
	}
	assert.Len(t, s.Snapshot().NAVHistory, 2)

	s.Reset()
	assert.Empty(t, s.Snapshot().NAVHistory)
	require.NoError(t, s.Fetch(ctx))
	assert.Len(t, s.Snapshot().NAVHistory, 1)
}

func TestSavingsAPYSources(t *testing.T) {
	fallback := decimal.RequireFromString("8.50")
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []entity.NAVIncrease{
		{BlockNumber: 1_000 + 72_000, OldNAV: utils.MustParseUnits("1.005", 18), NewNAV: utils.MustParseUnits("1.01", 18)},
		{BlockNumber: 1_000, OldNAV: utils.MustParseUnits("1", 18), NewNAV: utils.MustParseUnits("1.005", 18)},
	}
	apy, source := savingsAPY(events, 7200, nil, fallback)
	assert.Equal(t, APYSourceEvents, source)
	assert.Equal(t, "43.79", apy.StringFixed(2))

	history := []navPoint{
		{at: start, nav: decimal.RequireFromString("1.05")},
		{at: start.Add(24 * time.Hour), nav: decimal.RequireFromString("1.04")},
	}
	apy, source = savingsAPY(nil, 7200, history, fallback)
	assert.Equal(t, APYSourceHistory, source)
	assert.True(t, apy.IsZero(), "negative growth clamps to zero")

	apy, source = savingsAPY(nil, 7200, history[:1], fallback)
	assert.Equal(t, APYSourceFallback, source)
	assert.True(t, apy.Equal(fallback))
}

func TestCurrentAPYAndShare(t *testing.T) {
	apy := decimal.RequireFromString("8.5")
	supply := utils.MustParseUnits("300", 18)

	assert.Equal(t, "25.5000", CurrentAPY(apy, supply, utils.MustParseUnits("100", 18)).StringFixed(4))
	assert.True(t, CurrentAPY(apy, supply, new(big.Int)).Equal(apy))
	assert.Equal(t, "25.0000", SharePercentage(utils.MustParseUnits("75", 18), supply).StringFixed(4))
	assert.True(t, SharePercentage(big.NewInt(1), new(big.Int)).IsZero())
}

func TestSavingsPreviews(t *testing.T) {
	f := newFixture(t)
	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	ctx := context.Background()

	p, err := s.PreviewDeposit(ctx, "105")
	require.NoError(t, err)
	assert.Equal(t, "100", p.Output)

	p, err = s.PreviewRedeem(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "105", p.Output)

	p, err = s.PreviewDeposit(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "0", p.Output)

	_, err = s.PreviewWithdraw(ctx, "abc")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestSavingsDepositApprovesWhenShort(t *testing.T) {
	f := newFixture(t)
	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	ctx := context.Background()

	receipt, err := s.Deposit(ctx, "105")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, 1, f.count("Approve Confirmed"))
	assert.Equal(t, 1, f.count("Deposit Confirmed"))

	snap := s.Snapshot()
	assert.Equal(t, entity.StatusReady, snap.Status)
	assert.Equal(t, "4895", snap.WRMBBalance)
	assert.Equal(t, "1100", snap.ShareBalance)
	assert.False(t, s.InFlight()[ActionDeposit])
}

func TestSavingsDepositSkipsApprovalWhenAllowed(t *testing.T) {
	f := newFixture(t)
	wrmb, err := f.src.Token(entity.ContractWRMB)
	require.NoError(t, err)
	vault, err := f.src.Savings()
	require.NoError(t, err)
	_, err = wrmb.Approve(context.Background(), vault.Address(), utils.MustParseUnits("1000", 18))
	require.NoError(t, err)

	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	_, err = s.Deposit(context.Background(), "10.5")
	require.NoError(t, err)
	assert.Zero(t, f.count("Approve Submitted"))
	assert.Equal(t, 1, f.count("Deposit Confirmed"))
}

func TestSavingsDepositValidation(t *testing.T) {
	f := newFixture(t)
	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	ctx := context.Background()

	_, err := s.Deposit(ctx, "abc")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	_, err = s.Deposit(ctx, "2000000")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	_, err = s.Deposit(ctx, "6000")
	assert.Equal(t, apperr.KindInsufficientBalance, apperr.KindOf(err))

	assert.Len(t, f.notes.List(), 3)
	assert.Zero(t, f.count("Approve Submitted"))
}

func TestSavingsRedeem(t *testing.T) {
	f := newFixture(t)
	s := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	ctx := context.Background()

	_, err := s.Redeem(ctx, "100")
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, "900", snap.ShareBalance)
	assert.Equal(t, "5105", snap.WRMBBalance)
	assert.Equal(t, 1, f.count("Redeem Confirmed"))
}
