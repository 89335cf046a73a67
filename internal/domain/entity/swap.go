package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKey identifies a Uniswap v4 pool.
type PoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         uint32
	TickSpacing int32
	Hooks       common.Address
}

// PoolInfo is the state of a v4 pool.
type PoolInfo struct {
	PoolID       common.Hash `json:"poolId"`
	SqrtPriceX96 *big.Int    `json:"sqrtPriceX96"`
	Tick         int64       `json:"tick"`
	ProtocolFee  uint32      `json:"protocolFee"`
	LPFee        uint32      `json:"lpFee"`
	Liquidity    *big.Int    `json:"liquidity"`
}

// SwapQuote is the result of an exact-input quote.
type SwapQuote struct {
	AmountIn    string `json:"amountIn"`
	AmountOut   string `json:"amountOut"`
	GasEstimate string `json:"gasEstimate"`
	PriceImpact string `json:"priceImpact"`
	Fee         uint32 `json:"fee"`
}
