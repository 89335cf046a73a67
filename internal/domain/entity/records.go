package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BondInfo is one bond position as returned by getUserBonds/bonds.
type BondInfo struct {
	ID            *big.Int
	Principal     *big.Int
	WRMBAmount    *big.Int
	SubscribeTime uint64
	MaturityTime  uint64
	InterestRate  *big.Int // basis points
	Active        bool
	Matured       bool
}

// BondPoolConfig mirrors the bond pool's poolConfig tuple.
type BondPoolConfig struct {
	MinSubscription  *big.Int
	MaxSubscription  *big.Int
	BondDuration     uint64 // seconds
	InterestRate     *big.Int
	MaxPoolSize      *big.Int
	SubscriptionOpen bool
}

// BondPoolStats mirrors getPoolStats.
type BondPoolStats struct {
	TotalPrincipal *big.Int
	TotalWRMB      *big.Int
	ActiveBonds    *big.Int
}

// SubscriptionPreview mirrors previewSubscription.
type SubscriptionPreview struct {
	WRMBAmount     *big.Int
	InterestAmount *big.Int
	MaturityTime   uint64
}

// WrapPreview mirrors previewWrap/previewUnwrap.
type WrapPreview struct {
	InputAmount  *big.Int
	FeeAmount    *big.Int
	NetAmount    *big.Int
	OutputAmount *big.Int
	WRMBAmount   *big.Int
}

// WrapConfig mirrors getConfiguration on the wrap manager.
type WrapConfig struct {
	SRMB            common.Address
	SWRMB           common.Address
	WRMB            common.Address
	WrapFee         *big.Int // basis points
	UnwrapFee       *big.Int
	MinWrapAmount   *big.Int
	MaxWrapAmount   *big.Int
	MinUnwrapAmount *big.Int
	MaxUnwrapAmount *big.Int
}

// UserWrapStats mirrors getUserWrapStats.
type UserWrapStats struct {
	Wrapped    *big.Int
	Unwrapped  *big.Int
	Unwrapable *big.Int
}

// StakingInfo mirrors getUserStakingInfo.
type StakingInfo struct {
	StakedAmount       *big.Int
	StakingTime        uint64
	LastClaimTime      uint64
	AccumulatedRewards *big.Int
	PendingReward      *big.Int
}

// NAVIncrease is one WRMBMintedOnIncrease event.
type NAVIncrease struct {
	BlockNumber uint64
	Amount      *big.Int
	OldNAV      *big.Int
	NewNAV      *big.Int
}
