package client

import (
	"context"
	"math/big"

	"wrmb_dapp/internal/app/port"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"
)

// RateLimitedBackend waits on a shared limiter before every node request.
type RateLimitedBackend struct {
	port.ChainBackend
	limiter *rate.Limiter
}

// NewRateLimitedBackend wraps inner with limiter.
func NewRateLimitedBackend(inner port.ChainBackend, limiter *rate.Limiter) *RateLimitedBackend {
	return &RateLimitedBackend{ChainBackend: inner, limiter: limiter}
}

func (b *RateLimitedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.ChainBackend.CallContract(ctx, call, blockNumber)
}

func (b *RateLimitedBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.ChainBackend.FilterLogs(ctx, q)
}

func (b *RateLimitedBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.ChainBackend.TransactionReceipt(ctx, txHash)
}

func (b *RateLimitedBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.ChainBackend.BalanceAt(ctx, account, blockNumber)
}

func (b *RateLimitedBackend) BlockNumber(ctx context.Context) (uint64, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return b.ChainBackend.BlockNumber(ctx)
}
