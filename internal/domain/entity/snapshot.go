package entity

import "time"

// StoreStatus is the fetch state of an aggregation store.
type StoreStatus string

const (
	StatusIdle        StoreStatus = "idle"
	StatusFetching    StoreStatus = "fetching"
	StatusReady       StoreStatus = "ready"
	StatusFetchFailed StoreStatus = "fetch_failed"
)

// StoreMeta is shared by every product snapshot.
type StoreMeta struct {
	Status         StoreStatus `json:"status"`
	LastUpdateTime time.Time   `json:"lastUpdateTime"`
	LastError      string      `json:"lastError,omitempty"`
}

// NAVSample is one historical NAV observation.
type NAVSample struct {
	Timestamp time.Time `json:"timestamp"`
	NAV       string    `json:"nav"`
}

// SavingsSnapshot is the savings vault view. All amounts are human decimal strings.
type SavingsSnapshot struct {
	StoreMeta
	TotalAssets         string      `json:"totalAssets"`
	TotalSupply         string      `json:"totalSupply"`
	ExternalShares      string      `json:"externalShares"`
	NAV                 string      `json:"nav"`
	APY                 string      `json:"apy"`
	CurrentAPY          string      `json:"currentApy"`
	CurrentPrice        string      `json:"currentPrice"`
	ShareBalance        string      `json:"shareBalance"`
	MaxWithdraw         string      `json:"maxWithdraw"`
	WRMBBalance         string      `json:"wrmbBalance"`
	UserSharePercentage string      `json:"userSharePercentage"`
	APYSource           string      `json:"apySource"`
	NAVHistory          []NAVSample `json:"navHistory,omitempty"`
}

// StakingSnapshot is the staking vault view.
type StakingSnapshot struct {
	StoreMeta
	TotalSupply     string `json:"totalSupply"`
	NAV             string `json:"nav"`
	APY             string `json:"apy"`
	MinStakeAmount  string `json:"minStakeAmount"`
	IncrementAmount string `json:"incrementAmount"`
	LastDayReward   string `json:"lastDayReward"`
	YourStaked      string `json:"yourStaked"`
	StakedShares    string `json:"stakedShares"`
	CINABalance     string `json:"cinaBalance"`
	PendingReward   string `json:"pendingReward"`
	ClaimedRewards  string `json:"claimedRewards"`
	LastClaimTime   uint64 `json:"lastClaimTime"`
}

// FarmSnapshot is the farm (mining) view.
type FarmSnapshot struct {
	StoreMeta
	LiquidityAmount   string `json:"liquidityAmount"`
	FarmRate          string `json:"farmRate"`
	RewardForDuration string `json:"rewardForDuration"`
	RemainingTime     uint64 `json:"remainingTime"`
	APY               string `json:"apy"`
	PendingCINA       string `json:"pendingCina"`
	DepositedAmount   string `json:"depositedAmount"`
	IncrementAmount   string `json:"incrementAmount"`
	USDTBalance       string `json:"usdtBalance"`
	ExchangeRate      string `json:"exchangeRate"`
	MinDepositAmount  string `json:"minDepositAmount"`
	DepositFee        string `json:"depositFee"`
	WithdrawalFee     string `json:"withdrawalFee"`
}

// BondView is a formatted bond position.
type BondView struct {
	ID            string    `json:"id"`
	Principal     string    `json:"principal"`
	WRMBAmount    string    `json:"wrmbAmount"`
	SubscribeTime time.Time `json:"subscribeTime"`
	MaturityTime  time.Time `json:"maturityTime"`
	InterestRate  string    `json:"interestRate"`
	Active        bool      `json:"active"`
	Matured       bool      `json:"matured"`
	Maturable     bool      `json:"maturable"`
}

// BondsSnapshot is the bond pool view.
type BondsSnapshot struct {
	StoreMeta
	MinSubscription  string     `json:"minSubscription"`
	MaxSubscription  string     `json:"maxSubscription"`
	BondDuration     uint64     `json:"bondDuration"`
	APY              string     `json:"apy"`
	MaxPoolSize      string     `json:"maxPoolSize"`
	SubscriptionOpen bool       `json:"subscriptionOpen"`
	TotalPrincipal   string     `json:"totalPrincipal"`
	TotalWRMB        string     `json:"totalWrmb"`
	ActiveBonds      string     `json:"activeBonds"`
	UserPrincipal    string     `json:"userPrincipal"`
	USDTBalance      string     `json:"usdtBalance"`
	Bonds            []BondView `json:"bonds"`
}

// WrapSnapshot is the wrap manager view.
type WrapSnapshot struct {
	StoreMeta
	WrapFee           string `json:"wrapFee"`
	UnwrapFee         string `json:"unwrapFee"`
	MinWrapAmount     string `json:"minWrapAmount"`
	MaxWrapAmount     string `json:"maxWrapAmount"`
	MinUnwrapAmount   string `json:"minUnwrapAmount"`
	MaxUnwrapAmount   string `json:"maxUnwrapAmount"`
	SRMBLiquidity     string `json:"srmbLiquidity"`
	UserWrapped       string `json:"userWrapped"`
	UserUnwrapped     string `json:"userUnwrapped"`
	UnwrappableAmount string `json:"unwrappableAmount"`
	SRMBBalance       string `json:"srmbBalance"`
	SWRMBBalance      string `json:"swrmbBalance"`
	WRMBBalance       string `json:"wrmbBalance"`
}
