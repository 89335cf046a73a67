package store

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Bond actions.
const (
	ActionSubscribe = "subscribe"
	ActionMature    = "mature"
)

// BondsStore aggregates the bond pool.
type BondsStore struct {
	*core[entity.BondsSnapshot]
}

// NewBondsStore creates an idle bonds store.
func NewBondsStore(deps Deps, logger *zap.Logger) *BondsStore {
	return &BondsStore{core: newCore[entity.BondsSnapshot]("bonds", deps, logger)}
}

// Snapshot returns the last completed snapshot.
func (s *BondsStore) Snapshot() entity.BondsSnapshot {
	snap, meta := s.load()
	snap.StoreMeta = meta
	return snap
}

// Reset clears the snapshot.
func (s *BondsStore) Reset() { s.reset() }

// Fetch refreshes the snapshot.
func (s *BondsStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.read)
}

func (s *BondsStore) read(ctx context.Context, sess entity.Session) (entity.BondsSnapshot, error) {
	pool, err := s.deps.Source.Bonds()
	if err != nil {
		return entity.BondsSnapshot{}, fmt.Errorf("bond pool: %w", err)
	}
	usdt, err := s.deps.Source.Token(entity.ContractUSDT)
	if err != nil {
		return entity.BondsSnapshot{}, fmt.Errorf("usdt token: %w", err)
	}

	var (
		cfg                        entity.BondPoolConfig
		stats                      entity.BondPoolStats
		bonds                      []entity.BondInfo
		userPrincipal, usdtBalance *big.Int
	)
	b := s.newBatch(ctx)
	read(b, "poolConfig", &cfg, entity.BondPoolConfig{}, pool.PoolConfig)
	read(b, "poolStats", &stats, entity.BondPoolStats{}, pool.PoolStats)
	read(b, "userBonds", &bonds, nil, func(ctx context.Context) ([]entity.BondInfo, error) {
		return pool.UserBonds(ctx, sess.Address)
	})
	readInt(b, "userTotalPrincipal", &userPrincipal, func(ctx context.Context) (*big.Int, error) {
		return pool.UserTotalPrincipal(ctx, sess.Address)
	})
	readInt(b, "usdtBalance", &usdtBalance, func(ctx context.Context) (*big.Int, error) {
		return usdt.BalanceOf(ctx, sess.Address)
	})
	if err := b.wait(); err != nil {
		return entity.BondsSnapshot{}, err
	}

	now := s.now()
	views := make([]entity.BondView, 0, len(bonds))
	for _, bond := range bonds {
		views = append(views, bondView(bond, now))
	}
	return entity.BondsSnapshot{
		MinSubscription:  utils.FormatBigInt(cfg.MinSubscription, 6),
		MaxSubscription:  utils.FormatBigInt(cfg.MaxSubscription, 6),
		BondDuration:     cfg.BondDuration,
		APY:              BondAPY(cfg.InterestRate).StringFixed(2),
		MaxPoolSize:      utils.FormatBigInt(cfg.MaxPoolSize, 6),
		SubscriptionOpen: cfg.SubscriptionOpen,
		TotalPrincipal:   utils.FormatBigInt(stats.TotalPrincipal, 6),
		TotalWRMB:        utils.FormatBigInt(stats.TotalWRMB, 18),
		ActiveBonds:      bigString(stats.ActiveBonds),
		UserPrincipal:    utils.FormatBigInt(userPrincipal, 6),
		USDTBalance:      utils.FormatBigInt(usdtBalance, 6),
		Bonds:            views,
	}, nil
}

func bondView(b entity.BondInfo, now time.Time) entity.BondView {
	return entity.BondView{
		ID:            bigString(b.ID),
		Principal:     utils.FormatBigInt(b.Principal, 6),
		WRMBAmount:    utils.FormatBigInt(b.WRMBAmount, 18),
		SubscribeTime: time.Unix(int64(b.SubscribeTime), 0).UTC(),
		MaturityTime:  time.Unix(int64(b.MaturityTime), 0).UTC(),
		InterestRate:  BondAPY(b.InterestRate).StringFixed(2),
		Active:        b.Active,
		Matured:       b.Matured,
		Maturable:     maturable(b, now),
	}
}

func maturable(b entity.BondInfo, now time.Time) bool {
	return b.Active && !b.Matured && uint64(now.Unix()) >= b.MaturityTime
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// BondAPY converts an interest rate in basis points to percent.
func BondAPY(bps *big.Int) decimal.Decimal {
	if bps == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(bps, -2)
}

// PreviewSubscription quotes the WRMB, interest and maturity of a subscription.
func (s *BondsStore) PreviewSubscription(ctx context.Context, value string) (entity.Preview, error) {
	p := entity.Preview{Kind: "subscribe", Input: "0", Output: "0", Fee: "0", Interest: "0"}
	if value == "" || value == "0" {
		return p, nil
	}
	x, err := amount(value, decimal.Zero, decimal.Zero, 6)
	if err != nil {
		return p, err
	}
	pool, err := s.deps.Source.Bonds()
	if err != nil {
		return p, err
	}
	quote, err := pool.PreviewSubscription(ctx, x)
	if err != nil {
		return p, err
	}
	maturity := time.Unix(int64(quote.MaturityTime), 0).UTC()
	p.Input = utils.FormatBigInt(x, 6)
	p.Output = utils.FormatBigInt(quote.WRMBAmount, 18)
	p.Interest = utils.FormatBigInt(quote.InterestAmount, 18)
	p.MaturityTime = &maturity
	return p, nil
}

// Subscribe approves USDT when needed and buys a bond for amount USDT.
func (s *BondsStore) Subscribe(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	pool, err := s.deps.Source.Bonds()
	if err != nil {
		return nil, s.reject(err)
	}
	cfg, err := pool.PoolConfig(ctx)
	if err != nil {
		return nil, s.reject(err)
	}
	if !cfg.SubscriptionOpen {
		return nil, s.reject(apperr.InvalidInput("Subscription is closed"))
	}
	x, err := amount(value, utils.ToDecimal(cfg.MinSubscription, 6), utils.ToDecimal(cfg.MaxSubscription, 6), 6)
	if err != nil {
		return nil, s.reject(err)
	}
	stats, err := pool.PoolStats(ctx)
	if err != nil {
		return nil, s.reject(err)
	}
	if cfg.MaxPoolSize != nil && cfg.MaxPoolSize.Sign() > 0 &&
		new(big.Int).Add(stats.TotalPrincipal, x).Cmp(cfg.MaxPoolSize) > 0 {
		return nil, s.reject(apperr.InvalidInput("Pool capacity exceeded"))
	}
	usdt, err := s.deps.Source.Token(entity.ContractUSDT)
	if err != nil {
		return nil, s.reject(err)
	}
	if err := ensureBalance(ctx, usdt, sess.Address, x, 6); err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Gated(ctx, ActionSubscribe, usdt, s.deps.Source.Waiter(), sess.Address, pool.Address(), x,
		func(ctx context.Context) (common.Hash, error) {
			return pool.Subscribe(ctx, x)
		})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// Mature redeems a matured bond for its WRMB and interest.
func (s *BondsStore) Mature(ctx context.Context, bondID uint64) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	pool, err := s.deps.Source.Bonds()
	if err != nil {
		return nil, s.reject(err)
	}
	bonds, err := pool.UserBonds(ctx, sess.Address)
	if err != nil {
		return nil, s.reject(err)
	}
	id := new(big.Int).SetUint64(bondID)
	var bond *entity.BondInfo
	for i := range bonds {
		if bonds[i].ID != nil && bonds[i].ID.Cmp(id) == 0 {
			bond = &bonds[i]
			break
		}
	}
	switch {
	case bond == nil:
		return nil, s.reject(apperr.InvalidInput("Bond %d not found", bondID))
	case !bond.Active || bond.Matured:
		return nil, s.reject(apperr.InvalidInput("Bond %d is not active", bondID))
	case !maturable(*bond, s.now()):
		return nil, s.reject(apperr.InvalidInput("Bond %d has not matured yet", bondID))
	}

	receipt, err := s.exec.Execute(ctx, ActionMature, s.deps.Source.Waiter(), func(ctx context.Context) (common.Hash, error) {
		return pool.Mature(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}
