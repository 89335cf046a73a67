// Package simulated is an in-memory stand-in for the protocol contracts. It is
// selected per product by configuration and keeps the client usable without
// deployments.
package simulated

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const secondsPerYear = 365 * 24 * 60 * 60

var wad = big.NewInt(1_000_000_000_000_000_000)

// Fixed addresses of the simulated deployments.
var Addresses = map[entity.ContractName]common.Address{
	entity.ContractSavingsVault: common.HexToAddress("0x5a00000000000000000000000000000000000001"),
	entity.ContractStakingVault: common.HexToAddress("0x5a00000000000000000000000000000000000002"),
	entity.ContractFarmVault:    common.HexToAddress("0x5a00000000000000000000000000000000000003"),
	entity.ContractBondPool:     common.HexToAddress("0x5a00000000000000000000000000000000000004"),
	entity.ContractWrapManager:  common.HexToAddress("0x5a00000000000000000000000000000000000005"),
	entity.ContractWRMB:         common.HexToAddress("0x5a00000000000000000000000000000000000006"),
	entity.ContractSRMB:         common.HexToAddress("0x5a00000000000000000000000000000000000007"),
	entity.ContractCINA:         common.HexToAddress("0x5a00000000000000000000000000000000000008"),
	entity.ContractUSDT:         common.HexToAddress("0x5a00000000000000000000000000000000000009"),
	entity.ContractUSDC:         common.HexToAddress("0x5a0000000000000000000000000000000000000a"),
}

func units(s string, decimals int32) *big.Int { return utils.MustParseUnits(s, decimals) }

// Source is the simulated DataSource. All state sits behind one mutex.
type Source struct {
	mu  sync.Mutex
	now func() time.Time

	balances   map[entity.ContractName]*big.Int
	allowances map[entity.ContractName]map[common.Address]*big.Int
	mined      map[common.Hash]uint64
	nonce      uint64
	block      uint64

	savings savingsState
	staking stakingState
	farm    farmState
	bonds   bondState
	wrap    wrapState
}

// New seeds the simulation. now may be nil for time.Now.
func New(now func() time.Time) *Source {
	if now == nil {
		now = time.Now
	}
	start := now()
	s := &Source{
		now: now,
		balances: map[entity.ContractName]*big.Int{
			entity.ContractWRMB:         units("5000", 18),
			entity.ContractSavingsVault: units("1000", 18),
			entity.ContractSRMB:         units("2000", 18),
			entity.ContractCINA:         units("500.123456", 18),
			entity.ContractStakingVault: units("244.672206829268292682", 18),
			entity.ContractUSDT:         units("1500.25", 6),
			entity.ContractUSDC:         units("250", 6),
		},
		allowances: make(map[entity.ContractName]map[common.Address]*big.Int),
		mined:      make(map[common.Hash]uint64),
		block:      1_000_000,
		savings: savingsState{
			baseNAV:        units("1.05", 18),
			navRateBps:     850,
			start:          start,
			totalAssets:    units("1000000", 18),
			totalSupply:    units("952380.952380952380952380", 18),
			externalShares: units("476190.476190476190476190", 18),
		},
		staking: stakingState{
			totalSupply:     units("1200000", 18),
			nav:             units("1.025", 18),
			minStake:        units("1", 18),
			increment:       units("0.0005", 18),
			lastDayReward:   units("410.958904109589041095", 18),
			stakingTime:     uint64(start.Add(-30 * 24 * time.Hour).Unix()),
			lastClaimTime:   uint64(start.Add(-24 * time.Hour).Unix()),
			pendingReward:   units("3.4375", 18),
			accumulatedRews: units("12.5", 18),
		},
		farm: farmState{
			totalSupply: units("100000", 6),
			rewardRate:  units("0.0005", 18),
			periodEnd:   start.Add(30 * 24 * time.Hour),
			deposited:   units("800", 6),
			earned:      units("45.678901", 18),
		},
		bonds: bondState{
			config: entity.BondPoolConfig{
				MinSubscription:  units("100", 6),
				MaxSubscription:  units("100000", 6),
				BondDuration:     90 * 24 * 60 * 60,
				InterestRate:     big.NewInt(500),
				MaxPoolSize:      units("10000000", 6),
				SubscriptionOpen: true,
			},
			totalPrincipal: units("250000", 6),
			totalWRMB:      units("250000", 18),
			activeBonds:    big.NewInt(42),
		},
		wrap: wrapState{
			config: entity.WrapConfig{
				SRMB:            Addresses[entity.ContractSRMB],
				SWRMB:           Addresses[entity.ContractSavingsVault],
				WRMB:            Addresses[entity.ContractWRMB],
				WrapFee:         big.NewInt(10),
				UnwrapFee:       big.NewInt(20),
				MinWrapAmount:   units("1", 18),
				MaxWrapAmount:   units("1000000", 18),
				MinUnwrapAmount: units("1", 18),
				MaxUnwrapAmount: units("1000000", 18),
			},
			liquidity: units("500000", 18),
			wrapped:   units("1200", 18),
			unwrapped: units("200", 18),
		},
	}
	s.bonds.seed(start)
	return s
}

// Time moves with the injected clock; blocks advance on every write.
func (s *Source) nextTx() common.Hash {
	s.nonce++
	s.block++
	h := crypto.Keccak256Hash([]byte(fmt.Sprintf("simulated-tx-%d", s.nonce)))
	s.mined[h] = s.block
	return h
}

func (s *Source) balance(name entity.ContractName) *big.Int {
	if b, ok := s.balances[name]; ok {
		return b
	}
	return new(big.Int)
}

func (s *Source) credit(name entity.ContractName, amount *big.Int) {
	s.balances[name] = new(big.Int).Add(s.balance(name), amount)
}

func (s *Source) debit(name entity.ContractName, amount *big.Int) error {
	bal := s.balance(name)
	if bal.Cmp(amount) < 0 {
		return apperr.New(apperr.KindInsufficientBalance, "ERC20: transfer amount exceeds balance")
	}
	s.balances[name] = new(big.Int).Sub(bal, amount)
	return nil
}

// pull moves amount of token from the user to spender against the allowance.
func (s *Source) pull(token entity.ContractName, spender entity.ContractName, amount *big.Int) error {
	allowed := s.allowance(token, Addresses[spender])
	if allowed.Cmp(amount) < 0 {
		return apperr.New(apperr.KindInsufficientAllowance, "ERC20: insufficient allowance")
	}
	if err := s.debit(token, amount); err != nil {
		return err
	}
	s.allowances[token][Addresses[spender]] = new(big.Int).Sub(allowed, amount)
	return nil
}

func (s *Source) allowance(token entity.ContractName, spender common.Address) *big.Int {
	if m, ok := s.allowances[token]; ok {
		if a, ok := m[spender]; ok {
			return a
		}
	}
	return new(big.Int)
}

func (s *Source) Savings() (port.SavingsVault, error) { return &savingsVault{s}, nil }
func (s *Source) Staking() (port.StakingVault, error) { return &stakingVault{s}, nil }
func (s *Source) Farm() (port.FarmVault, error)       { return &farmVault{s}, nil }
func (s *Source) Bonds() (port.BondPool, error)       { return &bondPool{s}, nil }
func (s *Source) Wrap() (port.WrapManager, error)     { return &wrapManager{s}, nil }

func (s *Source) Token(name entity.ContractName) (port.Token, error) {
	if _, ok := Addresses[name]; !ok {
		return nil, fmt.Errorf("simulated source has no token %s", name)
	}
	return &token{s: s, name: name}, nil
}

func (s *Source) Waiter() port.TxWaiter { return waiter{s} }

// Address resolves a simulated deployment.
func (s *Source) Address(name entity.ContractName) (common.Address, bool) {
	a, ok := Addresses[name]
	return a, ok
}

func (s *Source) Balances(_ context.Context, _ common.Address, tokens []entity.TokenInfo) (map[entity.ContractName]*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[entity.ContractName]*big.Int, len(tokens))
	for _, t := range tokens {
		out[t.Contract] = new(big.Int).Set(s.balance(t.Contract))
	}
	return out, nil
}

type waiter struct{ s *Source }

// WaitMined confirms simulated transactions immediately.
func (w waiter) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.s.mu.Lock()
	block, ok := w.s.mined[hash]
	w.s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown simulated transaction %s", hash.Hex())
	}
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(block),
	}, nil
}

type token struct {
	s    *Source
	name entity.ContractName
}

func (t *token) Address() common.Address { return Addresses[t.name] }

func (t *token) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return new(big.Int).Set(t.s.balance(t.name)), nil
}

func (t *token) Allowance(_ context.Context, _, spender common.Address) (*big.Int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return new(big.Int).Set(t.s.allowance(t.name, spender)), nil
}

func (t *token) Approve(_ context.Context, spender common.Address, amount *big.Int) (common.Hash, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.allowances[t.name] == nil {
		t.s.allowances[t.name] = make(map[common.Address]*big.Int)
	}
	t.s.allowances[t.name][spender] = new(big.Int).Set(amount)
	return t.s.nextTx(), nil
}

// mulDiv returns a*b/c rounded down.
func mulDiv(a, b, c *big.Int) *big.Int {
	if c.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Div(new(big.Int).Mul(a, b), c)
}

// mulDivUp returns a*b/c rounded up.
func mulDivUp(a, b, c *big.Int) *big.Int {
	if c.Sign() == 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(a, b)
	q, r := new(big.Int).QuoRem(num, c, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
