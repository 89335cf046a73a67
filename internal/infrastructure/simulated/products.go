package simulated

import (
	"context"
	"math/big"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
)

type savingsState struct {
	baseNAV        *big.Int
	navRateBps     int64
	start          time.Time
	totalAssets    *big.Int
	totalSupply    *big.Int
	externalShares *big.Int
}

// nav grows linearly from baseNAV at navRateBps per year.
func (st *savingsState) nav(now time.Time) *big.Int {
	elapsed := int64(now.Sub(st.start) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	growth := mulDiv(st.baseNAV, big.NewInt(st.navRateBps*elapsed), big.NewInt(10_000*secondsPerYear))
	return growth.Add(growth, st.baseNAV)
}

type savingsVault struct{ s *Source }

func (v *savingsVault) Address() common.Address { return Addresses[entity.ContractSavingsVault] }

func (v *savingsVault) locked(fn func(st *savingsState, nav *big.Int) *big.Int) *big.Int {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(&v.s.savings, v.s.savings.nav(v.s.now()))
}

func (v *savingsVault) TotalAssets(context.Context) (*big.Int, error) {
	return v.locked(func(st *savingsState, _ *big.Int) *big.Int { return new(big.Int).Set(st.totalAssets) }), nil
}

func (v *savingsVault) TotalSupply(context.Context) (*big.Int, error) {
	return v.locked(func(st *savingsState, _ *big.Int) *big.Int { return new(big.Int).Set(st.totalSupply) }), nil
}

func (v *savingsVault) NAV(context.Context) (*big.Int, error) {
	return v.locked(func(_ *savingsState, nav *big.Int) *big.Int { return nav }), nil
}

func (v *savingsVault) ExternalShares(context.Context) (*big.Int, error) {
	return v.locked(func(st *savingsState, _ *big.Int) *big.Int { return new(big.Int).Set(st.externalShares) }), nil
}

func (v *savingsVault) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	return v.locked(func(*savingsState, *big.Int) *big.Int {
		return new(big.Int).Set(v.s.balance(entity.ContractSavingsVault))
	}), nil
}

func (v *savingsVault) MaxWithdraw(context.Context, common.Address) (*big.Int, error) {
	return v.locked(func(_ *savingsState, nav *big.Int) *big.Int {
		return mulDiv(v.s.balance(entity.ContractSavingsVault), nav, wad)
	}), nil
}

func (v *savingsVault) PreviewDeposit(_ context.Context, assets *big.Int) (*big.Int, error) {
	return v.locked(func(_ *savingsState, nav *big.Int) *big.Int { return mulDiv(assets, wad, nav) }), nil
}

func (v *savingsVault) PreviewWithdraw(_ context.Context, assets *big.Int) (*big.Int, error) {
	return v.locked(func(_ *savingsState, nav *big.Int) *big.Int { return mulDivUp(assets, wad, nav) }), nil
}

func (v *savingsVault) PreviewRedeem(_ context.Context, shares *big.Int) (*big.Int, error) {
	return v.locked(func(_ *savingsState, nav *big.Int) *big.Int { return mulDiv(shares, nav, wad) }), nil
}

func (v *savingsVault) LatestBlock(context.Context) (uint64, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.block, nil
}

// NAVIncreases reports no events; the simulation accrues NAV continuously.
func (v *savingsVault) NAVIncreases(context.Context, uint64) ([]entity.NAVIncrease, error) {
	return nil, nil
}

func (v *savingsVault) Deposit(_ context.Context, assets *big.Int, _ common.Address) (common.Hash, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	st := &v.s.savings
	if err := v.s.pull(entity.ContractWRMB, entity.ContractSavingsVault, assets); err != nil {
		return common.Hash{}, err
	}
	shares := mulDiv(assets, wad, st.nav(v.s.now()))
	v.s.credit(entity.ContractSavingsVault, shares)
	st.totalAssets.Add(st.totalAssets, assets)
	st.totalSupply.Add(st.totalSupply, shares)
	return v.s.nextTx(), nil
}

func (v *savingsVault) Withdraw(_ context.Context, assets *big.Int, _, _ common.Address) (common.Hash, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	shares := mulDivUp(assets, wad, v.s.savings.nav(v.s.now()))
	return v.burnShares(shares, assets)
}

func (v *savingsVault) Redeem(_ context.Context, shares *big.Int, _, _ common.Address) (common.Hash, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	assets := mulDiv(shares, v.s.savings.nav(v.s.now()), wad)
	return v.burnShares(shares, assets)
}

func (v *savingsVault) burnShares(shares, assets *big.Int) (common.Hash, error) {
	st := &v.s.savings
	if err := v.s.debit(entity.ContractSavingsVault, shares); err != nil {
		return common.Hash{}, apperr.New(apperr.KindInsufficientBalance, "ERC4626: withdraw more than max")
	}
	v.s.credit(entity.ContractWRMB, assets)
	st.totalAssets.Sub(st.totalAssets, assets)
	st.totalSupply.Sub(st.totalSupply, shares)
	return v.s.nextTx(), nil
}

type stakingState struct {
	totalSupply     *big.Int
	nav             *big.Int
	minStake        *big.Int
	increment       *big.Int
	lastDayReward   *big.Int
	stakingTime     uint64
	lastClaimTime   uint64
	pendingReward   *big.Int
	accumulatedRews *big.Int
}

type stakingVault struct{ s *Source }

func (v *stakingVault) Address() common.Address { return Addresses[entity.ContractStakingVault] }

func (v *stakingVault) read(fn func(st *stakingState) *big.Int) (*big.Int, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return new(big.Int).Set(fn(&v.s.staking)), nil
}

func (v *stakingVault) TotalSupply(context.Context) (*big.Int, error) {
	return v.read(func(st *stakingState) *big.Int { return st.totalSupply })
}

func (v *stakingVault) NAV(context.Context) (*big.Int, error) {
	return v.read(func(st *stakingState) *big.Int { return st.nav })
}

func (v *stakingVault) MinStakeAmount(context.Context) (*big.Int, error) {
	return v.read(func(st *stakingState) *big.Int { return st.minStake })
}

func (v *stakingVault) IncrementAmount(context.Context) (*big.Int, error) {
	return v.read(func(st *stakingState) *big.Int { return st.increment })
}

func (v *stakingVault) LastDayReward(context.Context) (*big.Int, error) {
	return v.read(func(st *stakingState) *big.Int { return st.lastDayReward })
}

func (v *stakingVault) MaxWithdraw(context.Context, common.Address) (*big.Int, error) {
	return v.read(func(st *stakingState) *big.Int {
		return mulDiv(v.s.balance(entity.ContractStakingVault), st.nav, wad)
	})
}

func (v *stakingVault) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	return v.read(func(*stakingState) *big.Int { return v.s.balance(entity.ContractStakingVault) })
}

func (v *stakingVault) StakingInfo(context.Context, common.Address) (entity.StakingInfo, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	st := &v.s.staking
	return entity.StakingInfo{
		StakedAmount:       mulDiv(v.s.balance(entity.ContractStakingVault), st.nav, wad),
		StakingTime:        st.stakingTime,
		LastClaimTime:      st.lastClaimTime,
		AccumulatedRewards: new(big.Int).Set(st.accumulatedRews),
		PendingReward:      new(big.Int).Set(st.pendingReward),
	}, nil
}

func (v *stakingVault) Stake(_ context.Context, assets *big.Int, _ common.Address) (common.Hash, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	st := &v.s.staking
	if assets.Cmp(st.minStake) < 0 {
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Amount below minimum stake")
	}
	if err := v.s.pull(entity.ContractCINA, entity.ContractStakingVault, assets); err != nil {
		return common.Hash{}, err
	}
	shares := mulDiv(assets, wad, st.nav)
	v.s.credit(entity.ContractStakingVault, shares)
	st.totalSupply.Add(st.totalSupply, shares)
	if st.stakingTime == 0 {
		st.stakingTime = uint64(v.s.now().Unix())
	}
	return v.s.nextTx(), nil
}

func (v *stakingVault) Unstake(_ context.Context, assets *big.Int, _, _ common.Address) (common.Hash, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	st := &v.s.staking
	shares := mulDivUp(assets, wad, st.nav)
	if err := v.s.debit(entity.ContractStakingVault, shares); err != nil {
		return common.Hash{}, apperr.New(apperr.KindInsufficientBalance, "ERC4626: withdraw more than max")
	}
	v.s.credit(entity.ContractCINA, assets)
	st.totalSupply.Sub(st.totalSupply, shares)
	return v.s.nextTx(), nil
}

func (v *stakingVault) ClaimRewards(context.Context) (common.Hash, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	st := &v.s.staking
	if st.pendingReward.Sign() == 0 {
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "No rewards to claim")
	}
	v.s.credit(entity.ContractCINA, st.pendingReward)
	st.accumulatedRews = new(big.Int).Add(st.accumulatedRews, st.pendingReward)
	st.pendingReward = new(big.Int)
	st.lastClaimTime = uint64(v.s.now().Unix())
	return v.s.nextTx(), nil
}

type farmState struct {
	totalSupply *big.Int
	rewardRate  *big.Int
	periodEnd   time.Time
	deposited   *big.Int
	earned      *big.Int
}

type farmVault struct{ s *Source }

func (f *farmVault) Address() common.Address { return Addresses[entity.ContractFarmVault] }

func (f *farmVault) read(fn func(st *farmState) *big.Int) (*big.Int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return new(big.Int).Set(fn(&f.s.farm)), nil
}

func (f *farmVault) TotalSupply(context.Context) (*big.Int, error) {
	return f.read(func(st *farmState) *big.Int { return st.totalSupply })
}

func (f *farmVault) RewardRate(context.Context) (*big.Int, error) {
	return f.read(func(st *farmState) *big.Int { return st.rewardRate })
}

func (f *farmVault) RewardForDuration(context.Context) (*big.Int, error) {
	return f.read(func(st *farmState) *big.Int {
		return new(big.Int).Mul(st.rewardRate, big.NewInt(7*24*60*60))
	})
}

func (f *farmVault) RemainingTime(context.Context) (*big.Int, error) {
	return f.read(func(st *farmState) *big.Int {
		left := int64(st.periodEnd.Sub(f.s.now()) / time.Second)
		if left < 0 {
			left = 0
		}
		return big.NewInt(left)
	})
}

func (f *farmVault) Earned(context.Context, common.Address) (*big.Int, error) {
	return f.read(func(st *farmState) *big.Int { return st.earned })
}

func (f *farmVault) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	return f.read(func(st *farmState) *big.Int { return st.deposited })
}

func (f *farmVault) Stake(_ context.Context, amount *big.Int) (common.Hash, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	st := &f.s.farm
	if err := f.s.pull(entity.ContractUSDT, entity.ContractFarmVault, amount); err != nil {
		return common.Hash{}, err
	}
	st.deposited = new(big.Int).Add(st.deposited, amount)
	st.totalSupply = new(big.Int).Add(st.totalSupply, amount)
	return f.s.nextTx(), nil
}

func (f *farmVault) Withdraw(_ context.Context, amount *big.Int) (common.Hash, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	st := &f.s.farm
	if st.deposited.Cmp(amount) < 0 {
		return common.Hash{}, apperr.New(apperr.KindInsufficientBalance, "Insufficient deposited amount")
	}
	st.deposited = new(big.Int).Sub(st.deposited, amount)
	st.totalSupply = new(big.Int).Sub(st.totalSupply, amount)
	f.s.credit(entity.ContractUSDT, amount)
	return f.s.nextTx(), nil
}

func (f *farmVault) GetReward(context.Context) (common.Hash, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	st := &f.s.farm
	f.s.credit(entity.ContractCINA, st.earned)
	st.earned = new(big.Int)
	return f.s.nextTx(), nil
}

// usdtToWRMB scales a 6-decimal USDT amount to 18-decimal WRMB.
var usdtToWRMB = big.NewInt(1_000_000_000_000)

type bondState struct {
	config         entity.BondPoolConfig
	totalPrincipal *big.Int
	totalWRMB      *big.Int
	activeBonds    *big.Int
	bonds          []entity.BondInfo
	nextID         int64
}

// seed opens one bond that has already matured and one that is still running.
func (st *bondState) seed(start time.Time) {
	st.nextID = 1
	st.open(units("1000", 6), start.Add(-100*24*time.Hour))
	st.open(units("500", 6), start.Add(-10*24*time.Hour))
}

func (st *bondState) preview(amount *big.Int, at time.Time) entity.SubscriptionPreview {
	wrmb := new(big.Int).Mul(amount, usdtToWRMB)
	interest := mulDiv(wrmb, new(big.Int).Mul(st.config.InterestRate, new(big.Int).SetUint64(st.config.BondDuration)),
		big.NewInt(10_000*secondsPerYear))
	return entity.SubscriptionPreview{
		WRMBAmount:     wrmb,
		InterestAmount: interest,
		MaturityTime:   uint64(at.Unix()) + st.config.BondDuration,
	}
}

func (st *bondState) open(amount *big.Int, at time.Time) entity.BondInfo {
	p := st.preview(amount, at)
	bond := entity.BondInfo{
		ID:            big.NewInt(st.nextID),
		Principal:     new(big.Int).Set(amount),
		WRMBAmount:    p.WRMBAmount,
		SubscribeTime: uint64(at.Unix()),
		MaturityTime:  p.MaturityTime,
		InterestRate:  new(big.Int).Set(st.config.InterestRate),
		Active:        true,
	}
	st.nextID++
	st.bonds = append(st.bonds, bond)
	return bond
}

type bondPool struct{ s *Source }

func (p *bondPool) Address() common.Address { return Addresses[entity.ContractBondPool] }

func (p *bondPool) PoolConfig(context.Context) (entity.BondPoolConfig, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	c := p.s.bonds.config
	return entity.BondPoolConfig{
		MinSubscription:  new(big.Int).Set(c.MinSubscription),
		MaxSubscription:  new(big.Int).Set(c.MaxSubscription),
		BondDuration:     c.BondDuration,
		InterestRate:     new(big.Int).Set(c.InterestRate),
		MaxPoolSize:      new(big.Int).Set(c.MaxPoolSize),
		SubscriptionOpen: c.SubscriptionOpen,
	}, nil
}

func (p *bondPool) PoolStats(context.Context) (entity.BondPoolStats, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	st := &p.s.bonds
	return entity.BondPoolStats{
		TotalPrincipal: new(big.Int).Set(st.totalPrincipal),
		TotalWRMB:      new(big.Int).Set(st.totalWRMB),
		ActiveBonds:    new(big.Int).Set(st.activeBonds),
	}, nil
}

func (p *bondPool) UserBonds(context.Context, common.Address) ([]entity.BondInfo, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]entity.BondInfo, len(p.s.bonds.bonds))
	copy(out, p.s.bonds.bonds)
	return out, nil
}

func (p *bondPool) UserTotalPrincipal(context.Context, common.Address) (*big.Int, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	total := new(big.Int)
	for _, b := range p.s.bonds.bonds {
		if b.Active {
			total.Add(total, b.Principal)
		}
	}
	return total, nil
}

func (p *bondPool) PreviewSubscription(_ context.Context, amount *big.Int) (entity.SubscriptionPreview, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.bonds.preview(amount, p.s.now()), nil
}

func (p *bondPool) Subscribe(_ context.Context, amount *big.Int) (common.Hash, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	st := &p.s.bonds
	switch {
	case !st.config.SubscriptionOpen:
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Subscription closed")
	case amount.Cmp(st.config.MinSubscription) < 0:
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Below minimum subscription")
	case amount.Cmp(st.config.MaxSubscription) > 0:
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Exceeds maximum subscription")
	case new(big.Int).Add(st.totalPrincipal, amount).Cmp(st.config.MaxPoolSize) > 0:
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Pool size exceeded")
	}
	if err := p.s.pull(entity.ContractUSDT, entity.ContractBondPool, amount); err != nil {
		return common.Hash{}, err
	}
	bond := st.open(amount, p.s.now())
	st.totalPrincipal = new(big.Int).Add(st.totalPrincipal, amount)
	st.totalWRMB = new(big.Int).Add(st.totalWRMB, bond.WRMBAmount)
	st.activeBonds = new(big.Int).Add(st.activeBonds, big.NewInt(1))
	return p.s.nextTx(), nil
}

func (p *bondPool) Mature(_ context.Context, bondID *big.Int) (common.Hash, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	st := &p.s.bonds
	for i := range st.bonds {
		b := &st.bonds[i]
		if b.ID.Cmp(bondID) != 0 {
			continue
		}
		if !b.Active || b.Matured {
			return common.Hash{}, apperr.New(apperr.KindContractRevert, "Bond not active")
		}
		if uint64(p.s.now().Unix()) < b.MaturityTime {
			return common.Hash{}, apperr.New(apperr.KindContractRevert, "Bond not matured")
		}
		interest := mulDiv(b.WRMBAmount, new(big.Int).Mul(b.InterestRate, new(big.Int).SetUint64(b.MaturityTime-b.SubscribeTime)),
			big.NewInt(10_000*secondsPerYear))
		p.s.credit(entity.ContractWRMB, new(big.Int).Add(b.WRMBAmount, interest))
		b.Active = false
		b.Matured = true
		st.totalPrincipal = new(big.Int).Sub(st.totalPrincipal, b.Principal)
		st.activeBonds = new(big.Int).Sub(st.activeBonds, big.NewInt(1))
		return p.s.nextTx(), nil
	}
	return common.Hash{}, apperr.New(apperr.KindContractRevert, "Bond does not exist")
}

type wrapState struct {
	config    entity.WrapConfig
	liquidity *big.Int
	wrapped   *big.Int
	unwrapped *big.Int
}

func (st *wrapState) unwrappable() *big.Int {
	left := new(big.Int).Sub(st.wrapped, st.unwrapped)
	if left.Sign() < 0 {
		return new(big.Int)
	}
	return left
}

type wrapManager struct{ s *Source }

func (w *wrapManager) Address() common.Address { return Addresses[entity.ContractWrapManager] }

func (w *wrapManager) Configuration(context.Context) (entity.WrapConfig, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	c := w.s.wrap.config
	return entity.WrapConfig{
		SRMB:            c.SRMB,
		SWRMB:           c.SWRMB,
		WRMB:            c.WRMB,
		WrapFee:         new(big.Int).Set(c.WrapFee),
		UnwrapFee:       new(big.Int).Set(c.UnwrapFee),
		MinWrapAmount:   new(big.Int).Set(c.MinWrapAmount),
		MaxWrapAmount:   new(big.Int).Set(c.MaxWrapAmount),
		MinUnwrapAmount: new(big.Int).Set(c.MinUnwrapAmount),
		MaxUnwrapAmount: new(big.Int).Set(c.MaxUnwrapAmount),
	}, nil
}

func (w *wrapManager) SRMBLiquidity(context.Context) (*big.Int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return new(big.Int).Set(w.s.wrap.liquidity), nil
}

func (w *wrapManager) UserWrapStats(context.Context, common.Address) (entity.UserWrapStats, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	st := &w.s.wrap
	return entity.UserWrapStats{
		Wrapped:    new(big.Int).Set(st.wrapped),
		Unwrapped:  new(big.Int).Set(st.unwrapped),
		Unwrapable: st.unwrappable(),
	}, nil
}

func (w *wrapManager) UserUnwrappable(context.Context, common.Address) (*big.Int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return w.s.wrap.unwrappable(), nil
}

func feeSplit(amount, feeBps *big.Int) (fee, net *big.Int) {
	fee = mulDiv(amount, feeBps, big.NewInt(10_000))
	return fee, new(big.Int).Sub(amount, fee)
}

func (w *wrapManager) PreviewWrap(_ context.Context, _ common.Address, amount *big.Int) (entity.WrapPreview, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	fee, net := feeSplit(amount, w.s.wrap.config.WrapFee)
	return entity.WrapPreview{
		InputAmount:  new(big.Int).Set(amount),
		FeeAmount:    fee,
		NetAmount:    net,
		OutputAmount: new(big.Int).Set(net),
		WRMBAmount:   new(big.Int).Set(net),
	}, nil
}

func (w *wrapManager) PreviewUnwrap(_ context.Context, _ common.Address, amount *big.Int) (entity.WrapPreview, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	fee, net := feeSplit(amount, w.s.wrap.config.UnwrapFee)
	return entity.WrapPreview{
		InputAmount:  new(big.Int).Set(amount),
		FeeAmount:    fee,
		NetAmount:    net,
		OutputAmount: new(big.Int).Set(net),
		WRMBAmount:   new(big.Int).Set(amount),
	}, nil
}

func (w *wrapManager) Wrap(_ context.Context, amount *big.Int) (common.Hash, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	st := &w.s.wrap
	if amount.Cmp(st.config.MinWrapAmount) < 0 || amount.Cmp(st.config.MaxWrapAmount) > 0 {
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Invalid wrap amount")
	}
	if err := w.s.pull(entity.ContractSRMB, entity.ContractWrapManager, amount); err != nil {
		return common.Hash{}, err
	}
	_, net := feeSplit(amount, st.config.WrapFee)
	w.s.credit(entity.ContractWRMB, net)
	st.liquidity = new(big.Int).Add(st.liquidity, amount)
	st.wrapped = new(big.Int).Add(st.wrapped, net)
	return w.s.nextTx(), nil
}

func (w *wrapManager) Unwrap(_ context.Context, amount *big.Int) (common.Hash, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	st := &w.s.wrap
	if amount.Cmp(st.config.MinUnwrapAmount) < 0 || amount.Cmp(st.config.MaxUnwrapAmount) > 0 {
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Invalid unwrap amount")
	}
	if amount.Cmp(st.unwrappable()) > 0 {
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Exceeds unwrappable amount")
	}
	_, net := feeSplit(amount, st.config.UnwrapFee)
	if st.liquidity.Cmp(net) < 0 {
		return common.Hash{}, apperr.New(apperr.KindContractRevert, "Insufficient sRMB liquidity")
	}
	if err := w.s.debit(entity.ContractWRMB, amount); err != nil {
		return common.Hash{}, err
	}
	w.s.credit(entity.ContractSRMB, net)
	st.liquidity = new(big.Int).Sub(st.liquidity, net)
	st.unwrapped = new(big.Int).Add(st.unwrapped, amount)
	return w.s.nextTx(), nil
}
