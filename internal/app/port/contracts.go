package port

import (
	"context"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Token is an ERC-20 token.
type Token interface {
	Address() common.Address
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error)
}

// SavingsVault is the ERC-4626 savings vault issuing sWRMB for WRMB.
type SavingsVault interface {
	Address() common.Address
	TotalAssets(ctx context.Context) (*big.Int, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	NAV(ctx context.Context) (*big.Int, error)
	ExternalShares(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	MaxWithdraw(ctx context.Context, owner common.Address) (*big.Int, error)
	PreviewDeposit(ctx context.Context, assets *big.Int) (*big.Int, error)
	PreviewWithdraw(ctx context.Context, assets *big.Int) (*big.Int, error)
	PreviewRedeem(ctx context.Context, shares *big.Int) (*big.Int, error)
	LatestBlock(ctx context.Context) (uint64, error)
	NAVIncreases(ctx context.Context, fromBlock uint64) ([]entity.NAVIncrease, error)
	Deposit(ctx context.Context, assets *big.Int, receiver common.Address) (common.Hash, error)
	Withdraw(ctx context.Context, assets *big.Int, receiver, owner common.Address) (common.Hash, error)
	Redeem(ctx context.Context, shares *big.Int, receiver, owner common.Address) (common.Hash, error)
}

// StakingVault is the CINA staking vault.
type StakingVault interface {
	Address() common.Address
	TotalSupply(ctx context.Context) (*big.Int, error)
	NAV(ctx context.Context) (*big.Int, error)
	MinStakeAmount(ctx context.Context) (*big.Int, error)
	IncrementAmount(ctx context.Context) (*big.Int, error)
	LastDayReward(ctx context.Context) (*big.Int, error)
	MaxWithdraw(ctx context.Context, owner common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	StakingInfo(ctx context.Context, user common.Address) (entity.StakingInfo, error)
	Stake(ctx context.Context, assets *big.Int, receiver common.Address) (common.Hash, error)
	Unstake(ctx context.Context, assets *big.Int, receiver, owner common.Address) (common.Hash, error)
	ClaimRewards(ctx context.Context) (common.Hash, error)
}

// FarmVault is the USDT farm paying CINA rewards.
type FarmVault interface {
	Address() common.Address
	TotalSupply(ctx context.Context) (*big.Int, error)
	RewardRate(ctx context.Context) (*big.Int, error)
	RewardForDuration(ctx context.Context) (*big.Int, error)
	RemainingTime(ctx context.Context) (*big.Int, error)
	Earned(ctx context.Context, user common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, user common.Address) (*big.Int, error)
	Stake(ctx context.Context, amount *big.Int) (common.Hash, error)
	Withdraw(ctx context.Context, amount *big.Int) (common.Hash, error)
	GetReward(ctx context.Context) (common.Hash, error)
}

// BondPool sells fixed-term bonds for USDT.
type BondPool interface {
	Address() common.Address
	PoolConfig(ctx context.Context) (entity.BondPoolConfig, error)
	PoolStats(ctx context.Context) (entity.BondPoolStats, error)
	UserBonds(ctx context.Context, user common.Address) ([]entity.BondInfo, error)
	UserTotalPrincipal(ctx context.Context, user common.Address) (*big.Int, error)
	PreviewSubscription(ctx context.Context, amount *big.Int) (entity.SubscriptionPreview, error)
	Subscribe(ctx context.Context, amount *big.Int) (common.Hash, error)
	Mature(ctx context.Context, bondID *big.Int) (common.Hash, error)
}

// WrapManager converts sRMB to WRMB and back.
type WrapManager interface {
	Address() common.Address
	Configuration(ctx context.Context) (entity.WrapConfig, error)
	SRMBLiquidity(ctx context.Context) (*big.Int, error)
	UserWrapStats(ctx context.Context, user common.Address) (entity.UserWrapStats, error)
	UserUnwrappable(ctx context.Context, user common.Address) (*big.Int, error)
	PreviewWrap(ctx context.Context, user common.Address, amount *big.Int) (entity.WrapPreview, error)
	PreviewUnwrap(ctx context.Context, user common.Address, amount *big.Int) (entity.WrapPreview, error)
	Wrap(ctx context.Context, amount *big.Int) (common.Hash, error)
	Unwrap(ctx context.Context, amount *big.Int) (common.Hash, error)
}

// TxWaiter blocks until a submitted transaction is mined.
type TxWaiter interface {
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// DataSource hands out product contracts. Live and simulated variants exist and
// the choice is made by configuration.
type DataSource interface {
	Savings() (SavingsVault, error)
	Staking() (StakingVault, error)
	Farm() (FarmVault, error)
	Bonds() (BondPool, error)
	Wrap() (WrapManager, error)
	Token(name entity.ContractName) (Token, error)
	Waiter() TxWaiter
	// Balances reads token balances of owner in one round trip where possible.
	Balances(ctx context.Context, owner common.Address, tokens []entity.TokenInfo) (map[entity.ContractName]*big.Int, error)
}

// BalanceReader batches native and token balance reads on one chain.
type BalanceReader interface {
	GetBalances(ctx context.Context, chainID uint64, queries []entity.BalanceQuery) ([]entity.Balance, error)
}

// SwapQuoter reads Uniswap v4 pool state and quotes exact-input swaps.
type SwapQuoter interface {
	PoolInfo(ctx context.Context, key entity.PoolKey) (entity.PoolInfo, error)
	QuoteExactInputSingle(ctx context.Context, key entity.PoolKey, zeroForOne bool, amountIn *big.Int) (amountOut, gasEstimate *big.Int, err error)
}
