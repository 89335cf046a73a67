package store

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Staking actions.
const (
	ActionStake   = "stake"
	ActionUnstake = "unstake"
	ActionClaim   = "claim"
)

var daysPerYear = decimal.NewFromInt(365)

// StakingStore aggregates the CINA staking vault.
type StakingStore struct {
	*core[entity.StakingSnapshot]
}

// NewStakingStore creates an idle staking store.
func NewStakingStore(deps Deps, logger *zap.Logger) *StakingStore {
	return &StakingStore{core: newCore[entity.StakingSnapshot]("staking", deps, logger)}
}

// Snapshot returns the last completed snapshot.
func (s *StakingStore) Snapshot() entity.StakingSnapshot {
	snap, meta := s.load()
	snap.StoreMeta = meta
	return snap
}

// Reset clears the snapshot.
func (s *StakingStore) Reset() { s.reset() }

// Fetch refreshes the snapshot.
func (s *StakingStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.read)
}

func (s *StakingStore) read(ctx context.Context, sess entity.Session) (entity.StakingSnapshot, error) {
	vault, err := s.deps.Source.Staking()
	if err != nil {
		return entity.StakingSnapshot{}, fmt.Errorf("staking vault: %w", err)
	}
	cina, err := s.deps.Source.Token(entity.ContractCINA)
	if err != nil {
		return entity.StakingSnapshot{}, fmt.Errorf("cina token: %w", err)
	}

	var (
		totalSupply, nav, minStake, increment *big.Int
		yourStaked, lastDayReward             *big.Int
		cinaBalance, stakedShares             *big.Int
		info                                  entity.StakingInfo
	)
	b := s.newBatch(ctx)
	readInt(b, "totalSupply", &totalSupply, vault.TotalSupply)
	read(b, "nav", &nav, utils.MustParseUnits("1", 18), vault.NAV)
	read(b, "minStakeAmount", &minStake, utils.MustParseUnits("1", 18), vault.MinStakeAmount)
	readInt(b, "incrementAmount", &increment, vault.IncrementAmount)
	readInt(b, "maxWithdraw", &yourStaked, func(ctx context.Context) (*big.Int, error) {
		return vault.MaxWithdraw(ctx, sess.Address)
	})
	readInt(b, "lastDayReward", &lastDayReward, vault.LastDayReward)
	readInt(b, "cinaBalance", &cinaBalance, func(ctx context.Context) (*big.Int, error) {
		return cina.BalanceOf(ctx, sess.Address)
	})
	readInt(b, "shareBalance", &stakedShares, func(ctx context.Context) (*big.Int, error) {
		return vault.BalanceOf(ctx, sess.Address)
	})
	read(b, "stakingInfo", &info, entity.StakingInfo{}, func(ctx context.Context) (entity.StakingInfo, error) {
		return vault.StakingInfo(ctx, sess.Address)
	})
	if err := b.wait(); err != nil {
		return entity.StakingSnapshot{}, err
	}

	return entity.StakingSnapshot{
		TotalSupply:     utils.FormatBigInt(totalSupply, 18),
		NAV:             utils.FormatBigInt(nav, 18),
		APY:             StakingAPY(lastDayReward, totalSupply).StringFixed(2),
		MinStakeAmount:  utils.FormatBigInt(minStake, 18),
		IncrementAmount: utils.FormatBigInt(increment, 18),
		LastDayReward:   utils.FormatBigInt(lastDayReward, 18),
		YourStaked:      utils.FormatBigInt(yourStaked, 18),
		StakedShares:    utils.FormatBigInt(stakedShares, 18),
		CINABalance:     utils.FormatBigInt(cinaBalance, 18),
		PendingReward:   utils.FormatBigInt(info.PendingReward, 18),
		ClaimedRewards:  utils.FormatBigInt(info.AccumulatedRewards, 18),
		LastClaimTime:   info.LastClaimTime,
	}, nil
}

// StakingAPY annualizes the last day's reward: reward / totalSupply * 365 * 100.
func StakingAPY(lastDayReward, totalSupply *big.Int) decimal.Decimal {
	if lastDayReward == nil || totalSupply == nil || lastDayReward.Sign() <= 0 || totalSupply.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(lastDayReward, 0).
		Div(decimal.NewFromBigInt(totalSupply, 0)).
		Mul(daysPerYear).
		Mul(hundred)
}

// Stake approves CINA when needed and stakes amount.
func (s *StakingStore) Stake(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Staking()
	if err != nil {
		return nil, s.reject(err)
	}
	minStake, err := vault.MinStakeAmount(ctx)
	if err != nil {
		return nil, s.reject(err)
	}
	assets, err := amount(value, utils.ToDecimal(minStake, 18), decimal.Zero, 18)
	if err != nil {
		return nil, s.reject(err)
	}
	cina, err := s.deps.Source.Token(entity.ContractCINA)
	if err != nil {
		return nil, s.reject(err)
	}
	if err := ensureBalance(ctx, cina, sess.Address, assets, 18); err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Gated(ctx, ActionStake, cina, s.deps.Source.Waiter(), sess.Address, vault.Address(), assets,
		func(ctx context.Context) (common.Hash, error) {
			return vault.Stake(ctx, assets, sess.Address)
		})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// Unstake withdraws amount CINA from the vault.
func (s *StakingStore) Unstake(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	assets, err := amount(value, decimal.Zero, decimal.Zero, 18)
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Staking()
	if err != nil {
		return nil, s.reject(err)
	}
	staked, err := vault.MaxWithdraw(ctx, sess.Address)
	if err != nil {
		return nil, s.reject(err)
	}
	if assets.Cmp(staked) > 0 {
		return nil, s.reject(apperr.New(apperr.KindInsufficientBalance, "Amount exceeds staked balance"))
	}

	receipt, err := s.exec.Execute(ctx, ActionUnstake, s.deps.Source.Waiter(), func(ctx context.Context) (common.Hash, error) {
		return vault.Unstake(ctx, assets, sess.Address, sess.Address)
	})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// ClaimRewards claims the pending CINA rewards.
func (s *StakingStore) ClaimRewards(ctx context.Context) (*types.Receipt, error) {
	if _, err := s.signer(); err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Staking()
	if err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Execute(ctx, ActionClaim, s.deps.Source.Waiter(), vault.ClaimRewards)
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}
