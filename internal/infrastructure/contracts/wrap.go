package contracts

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// WrapManager binds the sRMB/WRMB wrap manager.
type WrapManager struct{ contractRef }

func (w *WrapManager) Configuration(ctx context.Context) (entity.WrapConfig, error) {
	out, err := w.call(ctx, "getConfiguration")
	if err != nil {
		return entity.WrapConfig{}, err
	}
	var cfg entity.WrapConfig
	addrs := []*common.Address{&cfg.SRMB, &cfg.SWRMB, &cfg.WRMB}
	for i, dst := range addrs {
		if *dst, err = addressAt(out, i); err != nil {
			return entity.WrapConfig{}, fmt.Errorf("getConfiguration: %w", err)
		}
	}
	nums := []**big.Int{&cfg.WrapFee, &cfg.UnwrapFee, &cfg.MinWrapAmount, &cfg.MaxWrapAmount, &cfg.MinUnwrapAmount, &cfg.MaxUnwrapAmount}
	for i, dst := range nums {
		if *dst, err = bigAt(out, len(addrs)+i); err != nil {
			return entity.WrapConfig{}, fmt.Errorf("getConfiguration: %w", err)
		}
	}
	return cfg, nil
}

func (w *WrapManager) SRMBLiquidity(ctx context.Context) (*big.Int, error) {
	return w.callBig(ctx, "getSRMBLiquidity")
}

func (w *WrapManager) UserWrapStats(ctx context.Context, user common.Address) (entity.UserWrapStats, error) {
	out, err := w.call(ctx, "getUserWrapStats", user)
	if err != nil {
		return entity.UserWrapStats{}, err
	}
	vals, err := bigsAt(out, 3)
	if err != nil {
		return entity.UserWrapStats{}, fmt.Errorf("getUserWrapStats: %w", err)
	}
	return entity.UserWrapStats{Wrapped: vals[0], Unwrapped: vals[1], Unwrapable: vals[2]}, nil
}

func (w *WrapManager) UserUnwrappable(ctx context.Context, user common.Address) (*big.Int, error) {
	return w.callBig(ctx, "getUserUnwrappableAmount", user)
}

func (w *WrapManager) PreviewWrap(ctx context.Context, user common.Address, amount *big.Int) (entity.WrapPreview, error) {
	return w.preview(ctx, "previewWrap", user, amount)
}

func (w *WrapManager) PreviewUnwrap(ctx context.Context, user common.Address, amount *big.Int) (entity.WrapPreview, error) {
	return w.preview(ctx, "previewUnwrap", user, amount)
}

func (w *WrapManager) preview(ctx context.Context, method string, user common.Address, amount *big.Int) (entity.WrapPreview, error) {
	out, err := w.call(ctx, method, user, amount)
	if err != nil {
		return entity.WrapPreview{}, err
	}
	vals, err := bigsAt(out, 5)
	if err != nil {
		return entity.WrapPreview{}, fmt.Errorf("%s: %w", method, err)
	}
	return entity.WrapPreview{InputAmount: vals[0], FeeAmount: vals[1], NetAmount: vals[2], OutputAmount: vals[3], WRMBAmount: vals[4]}, nil
}

func (w *WrapManager) Wrap(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return w.transact(ctx, "wrap", amount)
}

func (w *WrapManager) Unwrap(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return w.transact(ctx, "unwrap", amount)
}
