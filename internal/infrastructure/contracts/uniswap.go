package contracts

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var poolKeyArgs = func() abi.Arguments {
	mustType := func(t string) abi.Type {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(err)
		}
		return typ
	}
	return abi.Arguments{
		{Type: mustType("address")},
		{Type: mustType("address")},
		{Type: mustType("uint24")},
		{Type: mustType("int24")},
		{Type: mustType("address")},
	}
}()

// SortCurrencies orders a token pair the way v4 pool keys require.
func SortCurrencies(a, b common.Address) (common.Address, common.Address) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// PoolID is keccak256(abi.encode(currency0, currency1, fee, tickSpacing, hooks)).
func PoolID(key entity.PoolKey) (common.Hash, error) {
	c0, c1 := SortCurrencies(key.Currency0, key.Currency1)
	packed, err := poolKeyArgs.Pack(c0, c1, big.NewInt(int64(key.Fee)), big.NewInt(int64(key.TickSpacing)), key.Hooks)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode pool key: %w", err)
	}
	return crypto.Keccak256Hash(packed), nil
}

type poolKeyTuple struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

type quoteParams struct {
	PoolKey     poolKeyTuple
	ZeroForOne  bool
	ExactAmount *big.Int
	HookData    []byte
}

// UniswapV4 reads pools through StateView and quotes through the V4 Quoter.
type UniswapV4 struct {
	quoter    contractRef
	stateView contractRef
}

// NewUniswapV4 binds the quoter and state view of the active chain.
func NewUniswapV4(reg *Registry) *UniswapV4 {
	return &UniswapV4{
		quoter:    contractRef{reg: reg, name: entity.ContractUniswapQuoter},
		stateView: contractRef{reg: reg, name: entity.ContractUniswapStateView},
	}
}

func (u *UniswapV4) PoolInfo(ctx context.Context, key entity.PoolKey) (entity.PoolInfo, error) {
	id, err := PoolID(key)
	if err != nil {
		return entity.PoolInfo{}, err
	}
	slot0, err := u.stateView.call(ctx, "getSlot0", id)
	if err != nil {
		return entity.PoolInfo{}, err
	}
	vals, err := bigsAt(slot0, 4)
	if err != nil {
		return entity.PoolInfo{}, fmt.Errorf("getSlot0: %w", err)
	}
	liquidity, err := u.stateView.callBig(ctx, "getLiquidity", id)
	if err != nil {
		return entity.PoolInfo{}, err
	}
	return entity.PoolInfo{
		PoolID:       id,
		SqrtPriceX96: vals[0],
		Tick:         vals[1].Int64(),
		ProtocolFee:  uint32(vals[2].Uint64()),
		LPFee:        uint32(vals[3].Uint64()),
		Liquidity:    liquidity,
	}, nil
}

func (u *UniswapV4) QuoteExactInputSingle(ctx context.Context, key entity.PoolKey, zeroForOne bool, amountIn *big.Int) (*big.Int, *big.Int, error) {
	c0, c1 := SortCurrencies(key.Currency0, key.Currency1)
	out, err := u.quoter.call(ctx, "quoteExactInputSingle", quoteParams{
		PoolKey: poolKeyTuple{
			Currency0:   c0,
			Currency1:   c1,
			Fee:         big.NewInt(int64(key.Fee)),
			TickSpacing: big.NewInt(int64(key.TickSpacing)),
			Hooks:       key.Hooks,
		},
		ZeroForOne:  zeroForOne,
		ExactAmount: amountIn,
		HookData:    []byte{},
	})
	if err != nil {
		return nil, nil, err
	}
	vals, err := bigsAt(out, 2)
	if err != nil {
		return nil, nil, fmt.Errorf("quoteExactInputSingle: %w", err)
	}
	return vals[0], vals[1], nil
}
