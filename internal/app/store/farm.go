package store

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"
	"wrmb_dapp/internal/pkg/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const secondsPerYear = 31_536_000

// FarmTerms are the display terms of the farm that the vault does not expose.
type FarmTerms struct {
	ExchangeRate     decimal.Decimal // CINA per USDT
	MinDepositAmount decimal.Decimal
	DepositFee       decimal.Decimal // fraction, 0.001 = 0.1%
	WithdrawalFee    decimal.Decimal
}

// DefaultFarmTerms are the published farm terms.
var DefaultFarmTerms = FarmTerms{
	ExchangeRate:     decimal.NewFromInt(1),
	MinDepositAmount: decimal.NewFromInt(10),
	DepositFee:       decimal.RequireFromString("0.001"),
	WithdrawalFee:    decimal.RequireFromString("0.002"),
}

// FarmStore aggregates the USDT farm that mines CINA.
type FarmStore struct {
	*core[entity.FarmSnapshot]
	terms FarmTerms
}

// NewFarmStore creates an idle farm store.
func NewFarmStore(deps Deps, terms FarmTerms, logger *zap.Logger) *FarmStore {
	return &FarmStore{core: newCore[entity.FarmSnapshot]("farm", deps, logger), terms: terms}
}

// Snapshot returns the last completed snapshot.
func (s *FarmStore) Snapshot() entity.FarmSnapshot {
	snap, meta := s.load()
	snap.StoreMeta = meta
	return snap
}

// Reset clears the snapshot.
func (s *FarmStore) Reset() { s.reset() }

// Fetch refreshes the snapshot.
func (s *FarmStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.read)
}

func (s *FarmStore) read(ctx context.Context, sess entity.Session) (entity.FarmSnapshot, error) {
	vault, err := s.deps.Source.Farm()
	if err != nil {
		return entity.FarmSnapshot{}, fmt.Errorf("farm vault: %w", err)
	}
	usdt, err := s.deps.Source.Token(entity.ContractUSDT)
	if err != nil {
		return entity.FarmSnapshot{}, fmt.Errorf("usdt token: %w", err)
	}

	var totalSupply, rate, forDuration, remaining, earned, deposited, usdtBalance *big.Int
	b := s.newBatch(ctx)
	readInt(b, "totalSupply", &totalSupply, vault.TotalSupply)
	readInt(b, "rewardRate", &rate, vault.RewardRate)
	readInt(b, "rewardForDuration", &forDuration, vault.RewardForDuration)
	readInt(b, "remainingTime", &remaining, vault.RemainingTime)
	readInt(b, "earned", &earned, func(ctx context.Context) (*big.Int, error) {
		return vault.Earned(ctx, sess.Address)
	})
	readInt(b, "deposited", &deposited, func(ctx context.Context) (*big.Int, error) {
		return vault.BalanceOf(ctx, sess.Address)
	})
	readInt(b, "usdtBalance", &usdtBalance, func(ctx context.Context) (*big.Int, error) {
		return usdt.BalanceOf(ctx, sess.Address)
	})
	if err := b.wait(); err != nil {
		return entity.FarmSnapshot{}, err
	}

	return entity.FarmSnapshot{
		LiquidityAmount:   utils.FormatBigInt(totalSupply, 6),
		FarmRate:          utils.FormatBigInt(rate, 18),
		RewardForDuration: utils.FormatBigInt(forDuration, 18),
		RemainingTime:     RemainingSeconds(remaining),
		APY:               FarmAPY(rate, totalSupply).StringFixed(2),
		PendingCINA:       utils.FormatBigInt(earned, 18),
		DepositedAmount:   utils.FormatBigInt(deposited, 6),
		IncrementAmount:   FarmIncrement(rate, deposited, totalSupply).StringFixed(18),
		USDTBalance:       utils.FormatBigInt(usdtBalance, 6),
		ExchangeRate:      s.terms.ExchangeRate.String(),
		MinDepositAmount:  s.terms.MinDepositAmount.String(),
		DepositFee:        s.terms.DepositFee.String(),
		WithdrawalFee:     s.terms.WithdrawalFee.String(),
	}, nil
}

// RemainingSeconds converts the on-chain remaining time. Values that do not fit a
// uint64 are reported as 0.
func RemainingSeconds(remaining *big.Int) uint64 {
	if remaining == nil || remaining.Sign() < 0 || !remaining.IsUint64() {
		return 0
	}
	return remaining.Uint64()
}

// FarmAPY is rewardRate * seconds per year / totalSupply * 100, with the rate in
// 18-decimal CINA per second and the supply in 6-decimal USDT.
func FarmAPY(rewardRate, totalSupply *big.Int) decimal.Decimal {
	if rewardRate == nil || totalSupply == nil || totalSupply.Sign() <= 0 {
		return decimal.Zero
	}
	annual := utils.ToDecimal(rewardRate, 18).Mul(decimal.NewFromInt(secondsPerYear))
	return annual.Div(utils.ToDecimal(totalSupply, 6)).Mul(hundred)
}

// FarmIncrement is the user's share of the reward rate: rate * deposited / totalSupply.
func FarmIncrement(rewardRate, deposited, totalSupply *big.Int) decimal.Decimal {
	if rewardRate == nil || deposited == nil || totalSupply == nil || totalSupply.Sign() <= 0 {
		return decimal.Zero
	}
	return utils.ToDecimal(rewardRate, 18).
		Mul(decimal.NewFromBigInt(deposited, 0)).
		Div(decimal.NewFromBigInt(totalSupply, 0)).
		Truncate(18)
}

// PreviewDeposit quotes the fee, the net deposit and the CINA expected for amount USDT.
func (s *FarmStore) PreviewDeposit(value string) (entity.Preview, error) {
	p := entity.Preview{Kind: "deposit", Input: "0", Output: "0", Fee: "0", Net: "0"}
	if value == "" || value == "0" {
		return p, nil
	}
	d, err := validation.ValidateAmount(value, decimal.Zero, decimal.Zero, 6)
	if err != nil {
		return p, err
	}
	fee := d.Mul(s.terms.DepositFee).Truncate(4)
	net := d.Sub(fee).Truncate(2)
	p.Input = d.String()
	p.Fee = fee.StringFixed(4)
	p.Net = net.StringFixed(2)
	p.Output = net.Mul(s.terms.ExchangeRate).Truncate(6).StringFixed(6)
	return p, nil
}

// Deposit approves USDT when needed and stakes amount in the farm.
func (s *FarmStore) Deposit(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	x, err := amount(value, s.terms.MinDepositAmount, decimal.Zero, 6)
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Farm()
	if err != nil {
		return nil, s.reject(err)
	}
	usdt, err := s.deps.Source.Token(entity.ContractUSDT)
	if err != nil {
		return nil, s.reject(err)
	}
	if err := ensureBalance(ctx, usdt, sess.Address, x, 6); err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Gated(ctx, ActionDeposit, usdt, s.deps.Source.Waiter(), sess.Address, vault.Address(), x,
		func(ctx context.Context) (common.Hash, error) {
			return vault.Stake(ctx, x)
		})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// Withdraw takes amount USDT out of the farm.
func (s *FarmStore) Withdraw(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	x, err := amount(value, decimal.Zero, decimal.Zero, 6)
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Farm()
	if err != nil {
		return nil, s.reject(err)
	}
	deposited, err := vault.BalanceOf(ctx, sess.Address)
	if err != nil {
		return nil, s.reject(err)
	}
	if x.Cmp(deposited) > 0 {
		return nil, s.reject(apperr.New(apperr.KindInsufficientBalance, "Insufficient deposited amount"))
	}

	receipt, err := s.exec.Execute(ctx, ActionWithdraw, s.deps.Source.Waiter(), func(ctx context.Context) (common.Hash, error) {
		return vault.Withdraw(ctx, x)
	})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// Claim collects the mined CINA.
func (s *FarmStore) Claim(ctx context.Context) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Farm()
	if err != nil {
		return nil, s.reject(err)
	}
	earned, err := vault.Earned(ctx, sess.Address)
	if err != nil {
		return nil, s.reject(err)
	}
	if earned.Sign() == 0 {
		return nil, s.reject(apperr.InvalidInput("No rewards to claim"))
	}

	receipt, err := s.exec.Execute(ctx, ActionClaim, s.deps.Source.Waiter(), vault.GetReward)
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}
