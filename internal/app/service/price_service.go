package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/pricefeed"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// TokenResolver maps a logical contract to its address on the active chain.
type TokenResolver interface {
	Address(name entity.ContractName) (common.Address, bool)
}

// PriceService implements port.PriceSource on top of DEX Screener with a TTL cache.
// Stablecoins are pinned at 1. Lookups that fail fall back to a configured price.
type PriceService struct {
	client   pricefeed.Client
	resolver TokenResolver
	chainID  string
	fallback decimal.Decimal
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewPriceService creates a price service caching quotes for ttl.
func NewPriceService(client pricefeed.Client, resolver TokenResolver, dexChainID string, ttl time.Duration, fallback decimal.Decimal, logger *zap.Logger) *PriceService {
	return &PriceService{
		client:   client,
		resolver: resolver,
		chainID:  dexChainID,
		fallback: fallback,
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger.Named("PriceService"),
	}
}

// PriceUSD returns the USD price of token.
func (s *PriceService) PriceUSD(ctx context.Context, token entity.TokenInfo) (decimal.Decimal, error) {
	if _, ok := stablecoinSymbols[strings.ToUpper(token.Symbol)]; ok {
		return decimal.NewFromInt(1), nil
	}
	addr, ok := s.resolver.Address(token.Contract)
	if !ok {
		s.logger.Debug("No address for priced token, using fallback", zap.String("symbol", token.Symbol))
		return s.fallback, nil
	}
	key := strings.ToLower(addr.Hex())
	if v, ok := s.cache.Get(key); ok {
		return v.(decimal.Decimal), nil
	}

	price, err := s.fetch(ctx, addr.Hex())
	if err != nil {
		s.logger.Warn("Price lookup failed, using fallback",
			zap.String("symbol", token.Symbol), zap.String("fallback", s.fallback.String()), zap.Error(err))
		return s.fallback, nil
	}
	s.cache.SetDefault(key, price)
	return price, nil
}

func (s *PriceService) fetch(ctx context.Context, address string) (decimal.Decimal, error) {
	pairs, err := s.client.TokenPairs(ctx, s.chainID, []string{address})
	if err != nil {
		return decimal.Zero, err
	}
	best := selectBestPair(pairs, address)
	if best == nil {
		return decimal.Zero, fmt.Errorf("no priced pair for %s", address)
	}
	price, err := decimal.NewFromString(best.PriceUsd)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", best.PriceUsd, err)
	}
	s.logger.Debug("Selected price",
		zap.String("token", address),
		zap.String("pair", best.PairAddress),
		zap.String("priceUsd", best.PriceUsd),
		zap.Float64("liquidityUsd", best.LiquidityUSD()))
	return price, nil
}

// selectBestPair prefers the deepest stablecoin-quoted pair, then the deepest pair overall.
func selectBestPair(pairs []pricefeed.PairData, baseToken string) *pricefeed.PairData {
	var bestOverall, bestStable *pricefeed.PairData
	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, baseToken) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}
		if _, ok := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; ok {
			if bestStable == nil || pair.LiquidityUSD() > bestStable.LiquidityUSD() {
				bestStable = pair
			}
		}
		if bestOverall == nil || pair.LiquidityUSD() > bestOverall.LiquidityUSD() {
			bestOverall = pair
		}
	}
	if bestStable != nil {
		return bestStable
	}
	return bestOverall
}
