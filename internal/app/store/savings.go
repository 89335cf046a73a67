package store

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"sort"
	"sync"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/utils"
	"wrmb_dapp/internal/pkg/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Savings actions.
const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionRedeem   = "redeem"
)

// Where the savings APY came from.
const (
	APYSourceEvents   = "events"
	APYSourceHistory  = "history"
	APYSourceFallback = "fallback"
)

const minHistoryWindow = time.Hour

var hundred = decimal.NewFromInt(100)

// SavingsConfig tunes the savings store.
type SavingsConfig struct {
	// APYFallback is reported, in percent, when neither events nor NAV history give a yield.
	APYFallback       decimal.Decimal
	HistoryWindow     time.Duration
	EventLookbackDays uint64
	BlocksPerDay      uint64
}

// DefaultSavingsConfig matches the deployed vault: 8.50% fallback, 30 days of history
// and events, 7200 blocks per day.
var DefaultSavingsConfig = SavingsConfig{
	APYFallback:       decimal.RequireFromString("8.50"),
	HistoryWindow:     30 * 24 * time.Hour,
	EventLookbackDays: 30,
	BlocksPerDay:      7200,
}

type navPoint struct {
	at  time.Time
	nav decimal.Decimal
}

// SavingsStore aggregates the sWRMB savings vault.
type SavingsStore struct {
	*core[entity.SavingsSnapshot]
	cfg    SavingsConfig
	prices port.PriceSource

	histMu  sync.Mutex
	history []navPoint
}

// NewSavingsStore creates an idle savings store. prices may be nil, in which case the
// current price is left empty.
func NewSavingsStore(deps Deps, cfg SavingsConfig, prices port.PriceSource, logger *zap.Logger) *SavingsStore {
	return &SavingsStore{
		core:   newCore[entity.SavingsSnapshot]("savings", deps, logger),
		cfg:    cfg,
		prices: prices,
	}
}

// Snapshot returns the last completed snapshot.
func (s *SavingsStore) Snapshot() entity.SavingsSnapshot {
	snap, meta := s.load()
	snap.StoreMeta = meta
	return snap
}

// Reset clears the snapshot and the NAV history.
func (s *SavingsStore) Reset() {
	s.reset()
	s.histMu.Lock()
	s.history = nil
	s.histMu.Unlock()
}

// Fetch refreshes the snapshot.
func (s *SavingsStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.read)
}

func (s *SavingsStore) read(ctx context.Context, sess entity.Session) (entity.SavingsSnapshot, error) {
	vault, err := s.deps.Source.Savings()
	if err != nil {
		return entity.SavingsSnapshot{}, fmt.Errorf("savings vault: %w", err)
	}
	wrmb, err := s.deps.Source.Token(entity.ContractWRMB)
	if err != nil {
		return entity.SavingsSnapshot{}, fmt.Errorf("wrmb token: %w", err)
	}

	var (
		totalAssets, totalSupply, nav, external *big.Int
		shares, maxWithdraw, wrmbBalance        *big.Int
		events                                  []entity.NAVIncrease
		price                                   decimal.Decimal
	)
	b := s.newBatch(ctx)
	readInt(b, "totalAssets", &totalAssets, vault.TotalAssets)
	readInt(b, "totalSupply", &totalSupply, vault.TotalSupply)
	readInt(b, "nav", &nav, vault.NAV)
	readInt(b, "externalShares", &external, vault.ExternalShares)
	readInt(b, "shareBalance", &shares, func(ctx context.Context) (*big.Int, error) {
		return vault.BalanceOf(ctx, sess.Address)
	})
	readInt(b, "maxWithdraw", &maxWithdraw, func(ctx context.Context) (*big.Int, error) {
		return vault.MaxWithdraw(ctx, sess.Address)
	})
	readInt(b, "wrmbBalance", &wrmbBalance, func(ctx context.Context) (*big.Int, error) {
		return wrmb.BalanceOf(ctx, sess.Address)
	})
	read(b, "navEvents", &events, nil, func(ctx context.Context) ([]entity.NAVIncrease, error) {
		latest, err := vault.LatestBlock(ctx)
		if err != nil {
			return nil, err
		}
		lookback := s.cfg.EventLookbackDays * s.cfg.BlocksPerDay
		var from uint64
		if latest > lookback {
			from = latest - lookback
		}
		return vault.NAVIncreases(ctx, from)
	})
	if s.prices != nil {
		read(b, "price", &price, decimal.Zero, func(ctx context.Context) (decimal.Decimal, error) {
			return s.prices.PriceUSD(ctx, entity.TokenWRMB)
		})
	}
	if err := b.wait(); err != nil {
		return entity.SavingsSnapshot{}, err
	}

	navDec := utils.ToDecimal(nav, 18)
	history := s.record(sess, navDec)
	apy, source := savingsAPY(events, s.cfg.BlocksPerDay, history, s.cfg.APYFallback)

	samples := make([]entity.NAVSample, len(history))
	for i, p := range history {
		samples[i] = entity.NAVSample{Timestamp: p.at, NAV: p.nav.String()}
	}
	snap := entity.SavingsSnapshot{
		TotalAssets:         utils.FormatBigInt(totalAssets, 18),
		TotalSupply:         utils.FormatBigInt(totalSupply, 18),
		ExternalShares:      utils.FormatBigInt(external, 18),
		NAV:                 navDec.String(),
		APY:                 apy.StringFixed(2),
		CurrentAPY:          CurrentAPY(apy, totalSupply, external).StringFixed(4),
		ShareBalance:        utils.FormatBigInt(shares, 18),
		MaxWithdraw:         utils.FormatBigInt(maxWithdraw, 18),
		WRMBBalance:         utils.FormatBigInt(wrmbBalance, 18),
		UserSharePercentage: SharePercentage(shares, totalSupply).StringFixed(4),
		APYSource:           source,
		NAVHistory:          samples,
	}
	if s.prices != nil {
		snap.CurrentPrice = price.String()
	}
	return snap, nil
}

// record appends a NAV sample, prunes samples outside the history window and returns
// a copy of the history. Zero NAVs and samples from an ended session are not kept.
func (s *SavingsStore) record(sess entity.Session, nav decimal.Decimal) []navPoint {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	now := s.now()
	if nav.IsPositive() && s.deps.Session.Snapshot().Epoch == sess.Epoch {
		s.history = append(s.history, navPoint{at: now, nav: nav})
	}
	cutoff := now.Add(-s.cfg.HistoryWindow)
	kept := s.history[:0]
	for _, p := range s.history {
		if p.at.After(cutoff) {
			kept = append(kept, p)
		}
	}
	s.history = kept
	return append([]navPoint(nil), s.history...)
}

// savingsAPY picks the savings yield in percent: compounded NAV growth across
// WRMBMintedOnIncrease events first, then compounded NAV history spanning at least an
// hour, then the fallback.
func savingsAPY(events []entity.NAVIncrease, blocksPerDay uint64, history []navPoint, fallback decimal.Decimal) (decimal.Decimal, string) {
	if apy, ok := eventAPY(events, blocksPerDay); ok {
		return apy, APYSourceEvents
	}
	if apy, ok := historyAPY(history); ok {
		return apy, APYSourceHistory
	}
	return fallback, APYSourceFallback
}

func eventAPY(events []entity.NAVIncrease, blocksPerDay uint64) (decimal.Decimal, bool) {
	if len(events) == 0 || blocksPerDay == 0 {
		return decimal.Zero, false
	}
	sorted := append([]entity.NAVIncrease(nil), events...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BlockNumber < sorted[j].BlockNumber })
	oldest, newest := sorted[0], sorted[len(sorted)-1]

	span := newest.BlockNumber - oldest.BlockNumber
	days := decimal.NewFromInt(int64(span)).Div(decimal.NewFromInt(int64(blocksPerDay)))
	oldNAV := utils.ToDecimal(oldest.OldNAV, 18)
	newNAV := utils.ToDecimal(newest.NewNAV, 18)
	if !days.IsPositive() || !oldNAV.IsPositive() || !newNAV.GreaterThan(oldNAV) {
		return decimal.Zero, false
	}
	return annualize(newNAV.Div(oldNAV), days), true
}

func historyAPY(history []navPoint) (decimal.Decimal, bool) {
	if len(history) < 2 {
		return decimal.Zero, false
	}
	sorted := append([]navPoint(nil), history...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })
	first, last := sorted[0], sorted[len(sorted)-1]

	window := last.at.Sub(first.at)
	if window < minHistoryWindow || !first.nav.IsPositive() {
		return decimal.Zero, false
	}
	days := decimal.NewFromFloat(window.Hours()).Div(decimal.NewFromInt(24))
	return annualize(last.nav.Div(first.nav), days), true
}

// annualize returns (growth^(365/days) - 1) * 100 rounded to two places, clamped at zero.
func annualize(growth, days decimal.Decimal) decimal.Decimal {
	r := (math.Pow(growth.InexactFloat64(), 365/days.InexactFloat64()) - 1) * 100
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(r).Round(2)
}

// CurrentAPY scales the vault APY by totalSupply / externalShares. Without external
// shares the vault APY is returned unchanged.
func CurrentAPY(apy decimal.Decimal, totalSupply, externalShares *big.Int) decimal.Decimal {
	if externalShares == nil || externalShares.Sign() == 0 || totalSupply == nil {
		return apy
	}
	return apy.Mul(decimal.NewFromBigInt(totalSupply, 0)).Div(decimal.NewFromBigInt(externalShares, 0))
}

// SharePercentage is shares / totalSupply in percent.
func SharePercentage(shares, totalSupply *big.Int) decimal.Decimal {
	if shares == nil || totalSupply == nil || totalSupply.Sign() == 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(shares, 0).Div(decimal.NewFromBigInt(totalSupply, 0)).Mul(hundred)
}

// PreviewDeposit quotes the shares minted for amount WRMB.
func (s *SavingsStore) PreviewDeposit(ctx context.Context, amount string) (entity.Preview, error) {
	return s.preview(ctx, "deposit", amount, func(ctx context.Context, v port.SavingsVault, x *big.Int) (*big.Int, error) {
		return v.PreviewDeposit(ctx, x)
	})
}

// PreviewWithdraw quotes the shares burned to withdraw amount WRMB.
func (s *SavingsStore) PreviewWithdraw(ctx context.Context, amount string) (entity.Preview, error) {
	return s.preview(ctx, "withdraw", amount, func(ctx context.Context, v port.SavingsVault, x *big.Int) (*big.Int, error) {
		return v.PreviewWithdraw(ctx, x)
	})
}

// PreviewRedeem quotes the WRMB returned for amount shares.
func (s *SavingsStore) PreviewRedeem(ctx context.Context, amount string) (entity.Preview, error) {
	return s.preview(ctx, "redeem", amount, func(ctx context.Context, v port.SavingsVault, x *big.Int) (*big.Int, error) {
		return v.PreviewRedeem(ctx, x)
	})
}

func (s *SavingsStore) preview(ctx context.Context, kind, value string, quote func(context.Context, port.SavingsVault, *big.Int) (*big.Int, error)) (entity.Preview, error) {
	p := entity.Preview{Kind: kind, Input: "0", Output: "0", Fee: "0"}
	if value == "" || value == "0" {
		return p, nil
	}
	x, err := amount(value, decimal.Zero, decimal.Zero, 18)
	if err != nil {
		return p, err
	}
	vault, err := s.deps.Source.Savings()
	if err != nil {
		return p, err
	}
	out, err := quote(ctx, vault, x)
	if err != nil {
		return p, err
	}
	p.Input = utils.FormatBigInt(x, 18)
	p.Output = utils.FormatBigInt(out, 18)
	return p, nil
}

// Deposit approves WRMB when needed and deposits amount into the vault.
func (s *SavingsStore) Deposit(ctx context.Context, value string) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	assets, err := amount(value, validation.MinDepositAmount, validation.MaxDepositAmount, 18)
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Savings()
	if err != nil {
		return nil, s.reject(err)
	}
	wrmb, err := s.deps.Source.Token(entity.ContractWRMB)
	if err != nil {
		return nil, s.reject(err)
	}
	if err := ensureBalance(ctx, wrmb, sess.Address, assets, 18); err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Gated(ctx, ActionDeposit, wrmb, s.deps.Source.Waiter(), sess.Address, vault.Address(), assets,
		func(ctx context.Context) (common.Hash, error) {
			return vault.Deposit(ctx, assets, sess.Address)
		})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}

// Withdraw withdraws amount WRMB from the vault.
func (s *SavingsStore) Withdraw(ctx context.Context, value string) (*types.Receipt, error) {
	return s.exit(ctx, ActionWithdraw, value, func(ctx context.Context, v port.SavingsVault, x *big.Int, owner common.Address) (common.Hash, error) {
		return v.Withdraw(ctx, x, owner, owner)
	})
}

// Redeem burns amount shares for WRMB.
func (s *SavingsStore) Redeem(ctx context.Context, value string) (*types.Receipt, error) {
	return s.exit(ctx, ActionRedeem, value, func(ctx context.Context, v port.SavingsVault, x *big.Int, owner common.Address) (common.Hash, error) {
		return v.Redeem(ctx, x, owner, owner)
	})
}

func (s *SavingsStore) exit(ctx context.Context, action, value string, submit func(context.Context, port.SavingsVault, *big.Int, common.Address) (common.Hash, error)) (*types.Receipt, error) {
	sess, err := s.signer()
	if err != nil {
		return nil, s.reject(err)
	}
	x, err := amount(value, decimal.Zero, decimal.Zero, 18)
	if err != nil {
		return nil, s.reject(err)
	}
	vault, err := s.deps.Source.Savings()
	if err != nil {
		return nil, s.reject(err)
	}

	receipt, err := s.exec.Execute(ctx, action, s.deps.Source.Waiter(), func(ctx context.Context) (common.Hash, error) {
		return submit(ctx, vault, x, sess.Address)
	})
	if err != nil {
		return nil, err
	}
	s.refetch(ctx, s.read)
	return receipt, nil
}
