package contracts

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

const navIncreaseEvent = "WRMBMintedOnIncrease"

// SavingsVault binds the sWRMB vault.
type SavingsVault struct{ contractRef }

func (v *SavingsVault) TotalAssets(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "totalAssets")
}

func (v *SavingsVault) TotalSupply(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "totalSupply")
}

func (v *SavingsVault) NAV(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "getNAV_sWRMB")
}

func (v *SavingsVault) ExternalShares(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "totalMMFSupply")
}

func (v *SavingsVault) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.callBig(ctx, "balanceOf", owner)
}

func (v *SavingsVault) MaxWithdraw(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.callBig(ctx, "maxWithdraw", owner)
}

func (v *SavingsVault) PreviewDeposit(ctx context.Context, assets *big.Int) (*big.Int, error) {
	return v.callBig(ctx, "previewDeposit", assets)
}

func (v *SavingsVault) PreviewWithdraw(ctx context.Context, assets *big.Int) (*big.Int, error) {
	return v.callBig(ctx, "previewWithdraw", assets)
}

func (v *SavingsVault) PreviewRedeem(ctx context.Context, shares *big.Int) (*big.Int, error) {
	return v.callBig(ctx, "previewRedeem", shares)
}

func (v *SavingsVault) LatestBlock(ctx context.Context) (uint64, error) {
	backend, err := v.reg.Backend()
	if err != nil {
		return 0, err
	}
	return backend.BlockNumber(ctx)
}

// NAVIncreases returns the WRMBMintedOnIncrease events since fromBlock.
func (v *SavingsVault) NAVIncreases(ctx context.Context, fromBlock uint64) ([]entity.NAVIncrease, error) {
	b, err := v.reg.Get(v.name, false)
	if err != nil {
		return nil, err
	}
	logs, err := b.Logs(ctx, navIncreaseEvent, fromBlock)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", navIncreaseEvent, err)
	}
	events := make([]entity.NAVIncrease, 0, len(logs))
	for _, l := range logs {
		var ev struct {
			Amount *big.Int
			OldNAV *big.Int
			NewNAV *big.Int
		}
		if err := b.UnpackLog(&ev, navIncreaseEvent, l); err != nil {
			return nil, fmt.Errorf("decode %s in tx %s: %w", navIncreaseEvent, l.TxHash.Hex(), err)
		}
		events = append(events, entity.NAVIncrease{BlockNumber: l.BlockNumber, Amount: ev.Amount, OldNAV: ev.OldNAV, NewNAV: ev.NewNAV})
	}
	return events, nil
}

func (v *SavingsVault) Deposit(ctx context.Context, assets *big.Int, receiver common.Address) (common.Hash, error) {
	return v.transact(ctx, "deposit", assets, receiver)
}

func (v *SavingsVault) Withdraw(ctx context.Context, assets *big.Int, receiver, owner common.Address) (common.Hash, error) {
	return v.transact(ctx, "withdraw", assets, receiver, owner)
}

func (v *SavingsVault) Redeem(ctx context.Context, shares *big.Int, receiver, owner common.Address) (common.Hash, error) {
	return v.transact(ctx, "redeem", shares, receiver, owner)
}

// StakingVault binds the CINA staking vault.
type StakingVault struct{ contractRef }

func (v *StakingVault) TotalSupply(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "totalSupply")
}

func (v *StakingVault) NAV(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "getNAV_CINA")
}

func (v *StakingVault) MinStakeAmount(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "minStakeAmount")
}

func (v *StakingVault) IncrementAmount(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "getIncrementAmount")
}

func (v *StakingVault) LastDayReward(ctx context.Context) (*big.Int, error) {
	return v.callBig(ctx, "lastDayRewardAmount")
}

func (v *StakingVault) MaxWithdraw(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.callBig(ctx, "maxWithdraw", owner)
}

func (v *StakingVault) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return v.callBig(ctx, "balanceOf", owner)
}

func (v *StakingVault) StakingInfo(ctx context.Context, user common.Address) (entity.StakingInfo, error) {
	out, err := v.call(ctx, "getUserStakingInfo", user)
	if err != nil {
		return entity.StakingInfo{}, err
	}
	vals, err := bigsAt(out, 5)
	if err != nil {
		return entity.StakingInfo{}, fmt.Errorf("getUserStakingInfo: %w", err)
	}
	return entity.StakingInfo{
		StakedAmount:       vals[0],
		StakingTime:        vals[1].Uint64(),
		LastClaimTime:      vals[2].Uint64(),
		AccumulatedRewards: vals[3],
		PendingReward:      vals[4],
	}, nil
}

func (v *StakingVault) Stake(ctx context.Context, assets *big.Int, receiver common.Address) (common.Hash, error) {
	return v.transact(ctx, "deposit", assets, receiver)
}

func (v *StakingVault) Unstake(ctx context.Context, assets *big.Int, receiver, owner common.Address) (common.Hash, error) {
	return v.transact(ctx, "withdraw", assets, receiver, owner)
}

func (v *StakingVault) ClaimRewards(ctx context.Context) (common.Hash, error) {
	return v.transact(ctx, "claimRewards")
}

// FarmVault binds the USDT farm.
type FarmVault struct{ contractRef }

func (f *FarmVault) TotalSupply(ctx context.Context) (*big.Int, error) {
	return f.callBig(ctx, "totalSupply")
}

func (f *FarmVault) RewardRate(ctx context.Context) (*big.Int, error) {
	return f.callBig(ctx, "rewardRate")
}

func (f *FarmVault) RewardForDuration(ctx context.Context) (*big.Int, error) {
	return f.callBig(ctx, "getRewardForDuration")
}

func (f *FarmVault) RemainingTime(ctx context.Context) (*big.Int, error) {
	return f.callBig(ctx, "getRemainingTime")
}

func (f *FarmVault) Earned(ctx context.Context, user common.Address) (*big.Int, error) {
	return f.callBig(ctx, "earned", user)
}

func (f *FarmVault) BalanceOf(ctx context.Context, user common.Address) (*big.Int, error) {
	return f.callBig(ctx, "balanceOf", user)
}

func (f *FarmVault) Stake(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.transact(ctx, "stake", amount)
}

func (f *FarmVault) Withdraw(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.transact(ctx, "withdraw", amount)
}

func (f *FarmVault) GetReward(ctx context.Context) (common.Hash, error) {
	return f.transact(ctx, "getReward")
}
