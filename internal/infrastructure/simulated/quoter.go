package simulated

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/contracts"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Reference USD prices of the simulated tokens.
var referencePrices = map[entity.ContractName]decimal.Decimal{
	entity.ContractWRMB:         decimal.RequireFromString("0.14"),
	entity.ContractSavingsVault: decimal.RequireFromString("0.147"),
	entity.ContractSRMB:         decimal.RequireFromString("0.14"),
	entity.ContractCINA:         decimal.RequireFromString("0.05"),
	entity.ContractUSDT:         decimal.NewFromInt(1),
	entity.ContractUSDC:         decimal.NewFromInt(1),
}

func tokenAt(addr common.Address) (entity.TokenInfo, bool) {
	for _, t := range entity.Tokens {
		if Addresses[t.Contract] == addr {
			return t, true
		}
	}
	return entity.TokenInfo{}, false
}

// Quoter prices swaps between simulated tokens from the reference prices.
type Quoter struct{}

func (Quoter) PoolInfo(_ context.Context, key entity.PoolKey) (entity.PoolInfo, error) {
	id, err := contracts.PoolID(key)
	if err != nil {
		return entity.PoolInfo{}, err
	}
	return entity.PoolInfo{
		PoolID:       id,
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 96),
		LPFee:        key.Fee,
		Liquidity:    units("1000000", 18),
	}, nil
}

func (Quoter) QuoteExactInputSingle(_ context.Context, key entity.PoolKey, zeroForOne bool, amountIn *big.Int) (*big.Int, *big.Int, error) {
	in, out := key.Currency0, key.Currency1
	if !zeroForOne {
		in, out = out, in
	}
	tin, ok := tokenAt(in)
	if !ok {
		return nil, nil, fmt.Errorf("no simulated pool for token %s", in.Hex())
	}
	tout, ok := tokenAt(out)
	if !ok {
		return nil, nil, fmt.Errorf("no simulated pool for token %s", out.Hex())
	}
	value := utils.ToDecimal(amountIn, tin.Decimals).Mul(referencePrices[tin.Contract]).Div(referencePrices[tout.Contract])
	value = value.Mul(decimal.NewFromInt(1_000_000 - int64(key.Fee))).Div(decimal.NewFromInt(1_000_000))
	return value.Shift(tout.Decimals).Truncate(0).BigInt(), big.NewInt(120_000), nil
}

// Prices is a PriceSource drifting deterministically around the reference prices.
type Prices struct {
	Now func() time.Time
}

// PriceUSD returns the reference price moved by at most one percent, varying by minute.
func (p Prices) PriceUSD(_ context.Context, token entity.TokenInfo) (decimal.Decimal, error) {
	base, ok := referencePrices[token.Contract]
	if !ok {
		return decimal.Zero, fmt.Errorf("no simulated price for %s", token.Symbol)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	// -100..+100 basis points
	step := now().Unix()/60%201 - 100
	drift := decimal.NewFromInt(10_000 + step).Div(decimal.NewFromInt(10_000))
	return base.Mul(drift).Round(6), nil
}
