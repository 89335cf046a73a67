package contracts

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// bondTuple matches the components of getUserBonds' bondInfos output.
type bondTuple struct {
	Principal     *big.Int
	WrmbAmount    *big.Int
	SubscribeTime *big.Int
	MaturityTime  *big.Int
	InterestRate  *big.Int
	IsActive      bool
	IsMatured     bool
}

// BondPool binds the bond pool.
type BondPool struct{ contractRef }

func (p *BondPool) PoolConfig(ctx context.Context) (entity.BondPoolConfig, error) {
	out, err := p.call(ctx, "poolConfig")
	if err != nil {
		return entity.BondPoolConfig{}, err
	}
	vals, err := bigsAt(out, 5)
	if err != nil {
		return entity.BondPoolConfig{}, fmt.Errorf("poolConfig: %w", err)
	}
	open, err := boolAt(out, 5)
	if err != nil {
		return entity.BondPoolConfig{}, fmt.Errorf("poolConfig: %w", err)
	}
	return entity.BondPoolConfig{
		MinSubscription:  vals[0],
		MaxSubscription:  vals[1],
		BondDuration:     vals[2].Uint64(),
		InterestRate:     vals[3],
		MaxPoolSize:      vals[4],
		SubscriptionOpen: open,
	}, nil
}

func (p *BondPool) PoolStats(ctx context.Context) (entity.BondPoolStats, error) {
	out, err := p.call(ctx, "getPoolStats")
	if err != nil {
		return entity.BondPoolStats{}, err
	}
	vals, err := bigsAt(out, 3)
	if err != nil {
		return entity.BondPoolStats{}, fmt.Errorf("getPoolStats: %w", err)
	}
	return entity.BondPoolStats{TotalPrincipal: vals[0], TotalWRMB: vals[1], ActiveBonds: vals[2]}, nil
}

func (p *BondPool) UserBonds(ctx context.Context, user common.Address) ([]entity.BondInfo, error) {
	out, err := p.call(ctx, "getUserBonds", user)
	if err != nil {
		return nil, err
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("getUserBonds: expected 2 outputs, got %d", len(out))
	}
	ids := *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)
	infos := *abi.ConvertType(out[1], new([]bondTuple)).(*[]bondTuple)
	if len(ids) != len(infos) {
		return nil, fmt.Errorf("getUserBonds: %d ids for %d bonds", len(ids), len(infos))
	}
	bonds := make([]entity.BondInfo, len(ids))
	for i, info := range infos {
		bonds[i] = entity.BondInfo{
			ID:            ids[i],
			Principal:     info.Principal,
			WRMBAmount:    info.WrmbAmount,
			SubscribeTime: info.SubscribeTime.Uint64(),
			MaturityTime:  info.MaturityTime.Uint64(),
			InterestRate:  info.InterestRate,
			Active:        info.IsActive,
			Matured:       info.IsMatured,
		}
	}
	return bonds, nil
}

func (p *BondPool) UserTotalPrincipal(ctx context.Context, user common.Address) (*big.Int, error) {
	return p.callBig(ctx, "userTotalPrincipal", user)
}

func (p *BondPool) PreviewSubscription(ctx context.Context, amount *big.Int) (entity.SubscriptionPreview, error) {
	out, err := p.call(ctx, "previewSubscription", amount)
	if err != nil {
		return entity.SubscriptionPreview{}, err
	}
	vals, err := bigsAt(out, 3)
	if err != nil {
		return entity.SubscriptionPreview{}, fmt.Errorf("previewSubscription: %w", err)
	}
	return entity.SubscriptionPreview{WRMBAmount: vals[0], InterestAmount: vals[1], MaturityTime: vals[2].Uint64()}, nil
}

func (p *BondPool) Subscribe(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return p.transact(ctx, "subscribeBond", amount)
}

func (p *BondPool) Mature(ctx context.Context, bondID *big.Int) (common.Hash, error) {
	return p.transact(ctx, "matureBond", bondID)
}
