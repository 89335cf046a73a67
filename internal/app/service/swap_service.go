package service

import (
	"context"
	"fmt"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/app/txflow"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/contracts"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/utils"
	"wrmb_dapp/internal/pkg/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SwapConfig holds the v4 pool defaults.
type SwapConfig struct {
	DefaultFee  uint32
	TickSpacing int32
	// Hooks maps a token to the hooks contract of its pools.
	Hooks map[common.Address]common.Address
}

// impactTiers are the heuristic price impacts by input size.
var impactTiers = []struct {
	below  decimal.Decimal
	impact string
}{
	{decimal.NewFromInt(1_000), "0.01"},
	{decimal.NewFromInt(10_000), "0.05"},
	{decimal.NewFromInt(100_000), "0.1"},
}

const maxImpact = "0.5"

// SwapService quotes Uniswap v4 swaps between protocol tokens.
type SwapService struct {
	quoter   port.SwapQuoter
	source   port.DataSource
	resolver TokenResolver
	session  port.SessionView
	exec     *txflow.Executor
	cfg      SwapConfig
	logger   *zap.Logger
}

// NewSwapService creates a swap service. Approvals run through exec.
func NewSwapService(quoter port.SwapQuoter, source port.DataSource, resolver TokenResolver, session port.SessionView, exec *txflow.Executor, cfg SwapConfig, logger *zap.Logger) *SwapService {
	if cfg.DefaultFee == 0 {
		cfg.DefaultFee = 500
	}
	if cfg.TickSpacing == 0 {
		cfg.TickSpacing = 10
	}
	return &SwapService{
		quoter:   quoter,
		source:   source,
		resolver: resolver,
		session:  session,
		exec:     exec,
		cfg:      cfg,
		logger:   logger.Named("SwapService"),
	}
}

// PoolKey builds the sorted pool key of a pair. A zero fee selects the default.
func (s *SwapService) PoolKey(tokenA, tokenB entity.TokenInfo, fee uint32) (entity.PoolKey, error) {
	a, ok := s.resolver.Address(tokenA.Contract)
	if !ok {
		return entity.PoolKey{}, apperr.InvalidInput("%s is not deployed on this network", tokenA.Symbol)
	}
	b, ok := s.resolver.Address(tokenB.Contract)
	if !ok {
		return entity.PoolKey{}, apperr.InvalidInput("%s is not deployed on this network", tokenB.Symbol)
	}
	if a == b {
		return entity.PoolKey{}, apperr.InvalidInput("Cannot swap %s for itself", tokenA.Symbol)
	}
	if fee == 0 {
		fee = s.cfg.DefaultFee
	}
	c0, c1 := contracts.SortCurrencies(a, b)
	return entity.PoolKey{
		Currency0:   c0,
		Currency1:   c1,
		Fee:         fee,
		TickSpacing: s.cfg.TickSpacing,
		Hooks:       s.hooks(a, b),
	}, nil
}

func (s *SwapService) hooks(a, b common.Address) common.Address {
	if h, ok := s.cfg.Hooks[a]; ok {
		return h
	}
	return s.cfg.Hooks[b]
}

// PoolInfo reads the pool state of a pair.
func (s *SwapService) PoolInfo(ctx context.Context, tokenA, tokenB entity.TokenInfo, fee uint32) (entity.PoolInfo, error) {
	key, err := s.PoolKey(tokenA, tokenB, fee)
	if err != nil {
		return entity.PoolInfo{}, err
	}
	info, err := s.quoter.PoolInfo(ctx, key)
	if err != nil {
		return entity.PoolInfo{}, apperr.Classify(err)
	}
	return info, nil
}

// Quote prices an exact-input swap of amountIn tokenIn.
func (s *SwapService) Quote(ctx context.Context, tokenIn, tokenOut entity.TokenInfo, amountIn string, fee uint32) (entity.SwapQuote, error) {
	in, err := validation.ValidateAmount(amountIn, decimal.Zero, decimal.Zero, tokenIn.Decimals)
	if err != nil {
		return entity.SwapQuote{}, err
	}
	key, err := s.PoolKey(tokenIn, tokenOut, fee)
	if err != nil {
		return entity.SwapQuote{}, err
	}
	inAddr, _ := s.resolver.Address(tokenIn.Contract)
	zeroForOne := inAddr == key.Currency0

	out, gas, err := s.quoter.QuoteExactInputSingle(ctx, key, zeroForOne, in.Shift(tokenIn.Decimals).BigInt())
	if err != nil {
		s.logger.Warn("Quote failed",
			zap.String("in", tokenIn.Symbol), zap.String("out", tokenOut.Symbol), zap.Error(err))
		return entity.SwapQuote{}, apperr.Classify(fmt.Errorf("quote %s->%s: %w", tokenIn.Symbol, tokenOut.Symbol, err))
	}
	return entity.SwapQuote{
		AmountIn:    in.String(),
		AmountOut:   utils.FormatBigInt(out, tokenOut.Decimals),
		GasEstimate: gas.String(),
		PriceImpact: PriceImpact(in),
		Fee:         key.Fee,
	}, nil
}

// PriceImpact is the heuristic impact, in percent, of swapping amount.
func PriceImpact(amount decimal.Decimal) string {
	for _, tier := range impactTiers {
		if amount.LessThan(tier.below) {
			return tier.impact
		}
	}
	return maxImpact
}

// EnsureAllowance approves spender for amount of token from the connected wallet.
func (s *SwapService) EnsureAllowance(ctx context.Context, token entity.TokenInfo, spender common.Address, amount string) error {
	sess := s.session.Snapshot()
	if !sess.Connected || !sess.HasSigner {
		return apperr.WalletNotConnected()
	}
	x, err := validation.ValidateAmount(amount, decimal.Zero, decimal.Zero, token.Decimals)
	if err != nil {
		return err
	}
	tok, err := s.source.Token(token.Contract)
	if err != nil {
		return apperr.Classify(err)
	}
	return s.exec.EnsureAllowance(ctx, tok, s.source.Waiter(), sess.Address, spender, x.Shift(token.Decimals).BigInt())
}
