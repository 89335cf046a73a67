package store

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Wrap actions.
const (
	ActionWrap   = "wrap"
	ActionUnwrap = "unwrap"
)

var wrapTokens = []entity.TokenInfo{entity.TokenSRMB, entity.TokenSWRMB, entity.TokenWRMB}

// WrapStore aggregates the sRMB/WRMB wrap manager.
type WrapStore struct {
	*core[entity.WrapSnapshot]
}

// NewWrapStore creates an idle wrap store.
func NewWrapStore(deps Deps, logger *zap.Logger) *WrapStore {
	return &WrapStore{core: newCore[entity.WrapSnapshot]("wrap", deps, logger)}
}

// Snapshot returns the last completed snapshot.
func (s *WrapStore) Snapshot() entity.WrapSnapshot {
	snap, meta := s.load()
	snap.StoreMeta = meta
	return snap
}

// Reset clears the snapshot.
func (s *WrapStore) Reset() { s.reset() }

// Fetch refreshes the snapshot.
func (s *WrapStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.read)
}

func (s *WrapStore) read(ctx context.Context, sess entity.Session) (entity.WrapSnapshot, error) {
	mgr, err := s.deps.Source.Wrap()
	if err != nil {
		return entity.WrapSnapshot{}, fmt.Errorf("wrap manager: %w", err)
	}

	var (
		cfg                    entity.WrapConfig
		liquidity, unwrappable *big.Int
		stats                  entity.UserWrapStats
		balances               map[entity.ContractName]*big.Int
	)
	b := s.newBatch(ctx)
	read(b, "configuration", &cfg, entity.WrapConfig{}, mgr.Configuration)
	readInt(b, "srmbLiquidity", &liquidity, mgr.SRMBLiquidity)
	read(b, "userWrapStats", &stats, entity.UserWrapStats{}, func(ctx context.Context) (entity.UserWrapStats, error) {
		return mgr.UserWrapStats(ctx, sess.Address)
	})
	readInt(b, "userUnwrappable", &unwrappable, func(ctx context.Context) (*big.Int, error) {
		return mgr.UserUnwrappable(ctx, sess.Address)
	})
	read(b, "balances", &balances, map[entity.ContractName]*big.Int{}, func(ctx context.Context) (map[entity.ContractName]*big.Int, error) {
		return s.deps.Source.Balances(ctx, sess.Address, wrapTokens)
	})
	if err := b.wait(); err != nil {
		return entity.WrapSnapshot{}, err
	}

	return entity.WrapSnapshot{
		WrapFee:           bpsPercent(cfg.WrapFee),
		UnwrapFee:         bpsPercent(cfg.UnwrapFee),
		MinWrapAmount:     utils.FormatBigInt(cfg.MinWrapAmount, 18),
		MaxWrapAmount:     utils.FormatBigInt(cfg.MaxWrapAmount, 18),
		MinUnwrapAmount:   utils.FormatBigInt(cfg.MinUnwrapAmount, 18),
		MaxUnwrapAmount:   utils.FormatBigInt(cfg.MaxUnwrapAmount, 18),
		SRMBLiquidity:     utils.FormatBigInt(liquidity, 18),
		UserWrapped:       utils.FormatBigInt(stats.Wrapped, 18),
		UserUnwrapped:     utils.FormatBigInt(stats.Unwrapped, 18),
		UnwrappableAmount: utils.FormatBigInt(unwrappable, 18),
		SRMBBalance:       utils.FormatBigInt(balances[entity.ContractSRMB], 18),
		SWRMBBalance:      utils.FormatBigInt(balances[entity.ContractSavingsVault], 18),
		WRMBBalance:       utils.FormatBigInt(balances[entity.ContractWRMB], 18),
	}, nil
}

// bpsPercent renders basis points as a percentage string, 10 -> "0.1".
func bpsPercent(bps *big.Int) string {
	if bps == nil {
		return "0"
	}
	return decimal.NewFromBigInt(bps, -2).String()
}

// PreviewWrap quotes wrapping amount sRMB.
func (s *WrapStore) PreviewWrap(ctx context.Context, value string) (entity.Preview, error) {
	return s.preview(ctx, "wrap", value, port.WrapManager.PreviewWrap)
}

// PreviewUnwrap quotes unwrapping amount WRMB.
func (s *WrapStore) PreviewUnwrap(ctx context.Context, value string) (entity.Preview, error) {
	return s.preview(ctx, "unwrap", value, port.WrapManager.PreviewUnwrap)
}

func (s *WrapStore) preview(ctx context.Context, kind, value string, quote func(port.WrapManager, context.Context, common.Address, *big.Int) (entity.WrapPreview, error)) (entity.Preview, error) {
	p := entity.Preview{Kind: kind, Input: "0", Output: "0", Fee: "0", Net: "0"}
	if value == "" || value == "0" {
		return p, nil
	}
	x, err := amount(value, decimal.Zero, decimal.Zero, 18)
	if err != nil {
		return p, err
	}
	mgr, err := s.deps.Source.Wrap()
	if err != nil {
		return p, err
	}
	q, err := quote(mgr, ctx, s.deps.Session.Snapshot().Address, x)
	if err != nil {
		return p, err
	}
	p.Input = utils.FormatBigInt(q.InputAmount, 18)
	p.Fee = utils.FormatBigInt(q.FeeAmount, 18)
	p.Net = utils.FormatBigInt(q.NetAmount, 18)
	p.Output = utils.FormatBigInt(q.OutputAmount, 18)
	return p, nil
}

// Wrap approves sRMB when needed and wraps amount into WRMB.
func (s *WrapStore) Wrap(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	mgr, err := s.deps.Source.Wrap()
	if err != nil {
		return nil, s.reject(err)
	}
	cfg, err := mgr.Configuration(ctx)
	if err != nil {
		return nil, s.reject(err)
	}
	x, err := amount(value, utils.ToDecimal(cfg.MinWrapAmount, 18), utils.ToDecimal(cfg.MaxWrapAmount, 18), 18)
	if err != nil {
		return nil, s.reject(err)
	}
	srmb, err := s.deps.Source.Token(entity.ContractSRMB)
	if err != nil {
		return nil, s.reject(err)
	}
	if err := ensureBalance(ctx, srmb, sess.Address, x, 18); err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Gated(ctx, ActionWrap, srmb, s.deps.Source.Waiter(), sess.Address, mgr.Address(), x,
		func(ctx context.Context) (common.Hash, error) {
			return mgr.Wrap(ctx, x)
		})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// Unwrap converts amount WRMB back to sRMB.
func (s *WrapStore) Unwrap(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	mgr, err := s.deps.Source.Wrap()
	if err != nil {
		return nil, s.reject(err)
	}
	cfg, err := mgr.Configuration(ctx)
	if err != nil {
		return nil, s.reject(err)
	}
	x, err := amount(value, utils.ToDecimal(cfg.MinUnwrapAmount, 18), utils.ToDecimal(cfg.MaxUnwrapAmount, 18), 18)
	if err != nil {
		return nil, s.reject(err)
	}
	unwrappable, err := mgr.UserUnwrappable(ctx, sess.Address)
	if err != nil {
		return nil, s.reject(err)
	}
	if x.Cmp(unwrappable) > 0 {
		return nil, s.reject(apperr.InvalidInput("Maximum unwrappable amount is %s", utils.FormatBigInt(unwrappable, 18)))
	}
	quote, err := mgr.PreviewUnwrap(ctx, sess.Address, x)
	if err != nil {
		return nil, s.reject(err)
	}
	liquidity, err := mgr.SRMBLiquidity(ctx)
	if err != nil {
		return nil, s.reject(err)
	}
	if quote.OutputAmount.Cmp(liquidity) > 0 {
		return nil, s.reject(apperr.InvalidInput("Insufficient sRMB liquidity"))
	}

	receipt, err := s.exec.Execute(ctx, ActionUnwrap, s.deps.Source.Waiter(), func(ctx context.Context) (common.Hash, error) {
		return mgr.Unwrap(ctx, x)
	})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}
