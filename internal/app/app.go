// Package app wires the session, contract registry, product stores and their
// refreshers into one client.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wrmb_dapp/internal/app/notify"
	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/app/scheduler"
	"wrmb_dapp/internal/app/service"
	"wrmb_dapp/internal/app/session"
	"wrmb_dapp/internal/app/store"
	"wrmb_dapp/internal/app/txflow"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/configloader"
	"wrmb_dapp/internal/infrastructure/contracts"
	networkdefinition "wrmb_dapp/internal/infrastructure/network/definition"
	"wrmb_dapp/internal/infrastructure/pricefeed"
	"wrmb_dapp/internal/infrastructure/simulated"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Product is what the app needs from every product store.
type Product interface {
	scheduler.Fetcher
	Reset()
	Status() entity.StoreStatus
	InFlight() map[string]bool
}

// Stores groups the product stores.
type Stores struct {
	Savings *store.SavingsStore
	Staking *store.StakingStore
	Farm    *store.FarmStore
	Bonds   *store.BondsStore
	Wrap    *store.WrapStore
}

// All returns the stores in refresh order.
func (s Stores) All() []Product {
	return []Product{s.Savings, s.Staking, s.Farm, s.Bonds, s.Wrap}
}

// Options are the collaborators built by the caller.
type Options struct {
	Config      *configloader.Config
	Wallet      port.WalletProvider
	Preferences port.Preferences
	Balances    port.BalanceReader
	Networks    *networkdefinition.NetworkDefinitionProvider
	// Simulated is shared by every product configured as simulated. nil builds one.
	Simulated *simulated.Source
	Logger    *zap.Logger
}

// App owns every long-lived component of the client.
type App struct {
	Config        *configloader.Config
	Metrics       *metrics.Metrics
	Notifications *notify.Center
	Networks      *networkdefinition.NetworkDefinitionProvider
	Session       *session.Session
	Registry      *contracts.Registry
	Preferences   port.Preferences
	Stores        Stores
	Swap          *service.SwapService
	Prices        port.PriceSource

	refreshers []*scheduler.Refresher
	logger     *zap.Logger

	mu      sync.Mutex
	closed  bool
	running bool
}

// New builds the client. Nothing is fetched until the session connects.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	logger := opts.Logger.Named("App")
	m := metrics.New()
	center := notify.NewCenter(cfg.Notifications.MaxEntries, m, opts.Logger)
	retry := apperr.RetryConfig{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
	}

	sess := session.New(session.Options{
		Wallet:      opts.Wallet,
		Preferences: opts.Preferences,
		Balances:    opts.Balances,
		Networks:    opts.Networks,
		Notifier:    center,
		Retry:       retry,
	}, opts.Logger)

	book := contracts.NewAddressBook(cfg.Contracts, opts.Networks.GetAllNetworkDefinitions())
	reg := contracts.NewRegistry(opts.Wallet, sess, book, m, opts.Logger)
	live := contracts.NewLiveSource(reg, opts.Balances, time.Duration(cfg.RPC.ReceiptPollMillis)*time.Millisecond)
	sim := opts.Simulated
	if sim == nil {
		sim = simulated.New(nil)
	}

	sources := make(map[string]port.DataSource)
	for _, product := range []string{"savings", "staking", "farm", "bonds", "wrap", "swap"} {
		if cfg.DataSource.Mode(product) == configloader.DataSourceSimulated {
			sources[product] = sim
			logger.Info("Using simulated data source", zap.String("product", product))
		} else {
			sources[product] = live
		}
	}
	deps := func(product string) store.Deps {
		return store.Deps{
			Source:            sources[product],
			Session:           sess,
			Notifier:          center,
			Metrics:           m,
			Retry:             retry,
			UnlimitedApproval: cfg.Approvals.Unlimited,
		}
	}

	prices, err := newPriceSource(cfg, reg, opts.Logger)
	if err != nil {
		return nil, err
	}

	savingsCfg := store.SavingsConfig{
		APYFallback:       cfg.Stores.APYFallback(),
		HistoryWindow:     time.Duration(cfg.Stores.NAVHistoryDays) * 24 * time.Hour,
		EventLookbackDays: uint64(cfg.Stores.EventLookbackDays),
		BlocksPerDay:      cfg.Stores.BlocksPerDay,
	}
	stores := Stores{
		Savings: store.NewSavingsStore(deps("savings"), savingsCfg, prices, opts.Logger),
		Staking: store.NewStakingStore(deps("staking"), opts.Logger),
		Farm:    store.NewFarmStore(deps("farm"), store.DefaultFarmTerms, opts.Logger),
		Bonds:   store.NewBondsStore(deps("bonds"), opts.Logger),
		Wrap:    store.NewWrapStore(deps("wrap"), opts.Logger),
	}

	var (
		quoter   port.SwapQuoter       = contracts.NewUniswapV4(reg)
		resolver service.TokenResolver = reg
	)
	if sources["swap"] == sim {
		quoter, resolver = simulated.Quoter{}, sim
	}
	swapExec := txflow.NewExecutor(center, m, opts.Logger.Named("swap"), cfg.Approvals.Unlimited)
	swap := service.NewSwapService(quoter, sources["swap"], resolver, sess, swapExec, swapConfig(cfg.Swap), opts.Logger)

	a := &App{
		Config:        cfg,
		Metrics:       m,
		Notifications: center,
		Networks:      opts.Networks,
		Session:       sess,
		Registry:      reg,
		Preferences:   opts.Preferences,
		Stores:        stores,
		Swap:          swap,
		Prices:        prices,
		logger:        logger,
	}
	timeout := time.Duration(cfg.Stores.FetchTimeoutSecs) * time.Second
	timings := []configloader.StoreTiming{cfg.Stores.Savings, cfg.Stores.Staking, cfg.Stores.Farm, cfg.Stores.Bonds, cfg.Stores.Wrap}
	for i, p := range stores.All() {
		t := timings[i]
		a.refreshers = append(a.refreshers, scheduler.NewRefresher(p,
			time.Duration(t.PollIntervalSeconds)*time.Second,
			time.Duration(t.QuietIntervalSeconds)*time.Second,
			timeout, opts.Logger))
	}
	sess.OnChange(a.handleSessionChange)
	return a, nil
}

func newPriceSource(cfg *configloader.Config, reg *contracts.Registry, logger *zap.Logger) (port.PriceSource, error) {
	if cfg.DataSource.Mode("price") == configloader.DataSourceSimulated {
		return simulated.Prices{}, nil
	}
	fallback, err := decimal.NewFromString(cfg.PriceSvc.FallbackPrice)
	if err != nil {
		return nil, fmt.Errorf("priceService.fallbackPrice: %w", err)
	}
	client := pricefeed.NewDEXScreenerClient(cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond, logger, cfg.DEXScreener.MaxTokensPerRequest)
	return service.NewPriceService(client, reg, cfg.DEXScreener.ChainID,
		time.Duration(cfg.PriceSvc.CacheTTLMinutes)*time.Minute, fallback, logger), nil
}

func swapConfig(c configloader.SwapConfig) service.SwapConfig {
	hooks := make(map[common.Address]common.Address, len(c.Hooks))
	for token, hook := range c.Hooks {
		hooks[common.HexToAddress(token)] = common.HexToAddress(hook)
	}
	return service.SwapConfig{DefaultFee: c.DefaultFee, TickSpacing: c.TickSpacing, Hooks: hooks}
}

// Product returns a store by its name.
func (a *App) Product(name string) (Product, bool) {
	for _, p := range a.Stores.All() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// handleSessionChange runs with the session's transition lock held, so fetching
// happens on its own goroutine.
func (a *App) handleSessionChange(change entity.SessionChange, snap entity.Session) {
	a.Registry.HandleSessionChange(change, snap)
	switch change {
	case entity.SessionConnected:
		go a.activate(snap.Epoch)
	case entity.SessionDisconnected:
		a.deactivate()
	}
}

// activate loads every store and starts auto-refresh, unless the session moved on.
func (a *App) activate(epoch uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(a.Config.Stores.FetchTimeoutSecs)*time.Second)
	defer cancel()
	if err := a.FetchAll(ctx); err != nil {
		a.logger.Warn("Initial fetch incomplete", zap.Error(err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	snap := a.Session.Snapshot()
	if a.closed || a.running || !snap.Connected || snap.Epoch != epoch {
		return
	}
	for _, r := range a.refreshers {
		if err := r.Start(); err != nil {
			a.logger.Error("Failed to start refresher", zap.Error(err))
		}
	}
	a.running = true
	a.logger.Info("Auto-refresh started", zap.Uint64("epoch", epoch))
}

func (a *App) deactivate() {
	a.mu.Lock()
	a.stopRefreshers()
	a.mu.Unlock()

	for _, p := range a.Stores.All() {
		p.Reset()
	}
}

func (a *App) stopRefreshers() {
	if !a.running {
		return
	}
	for _, r := range a.refreshers {
		r.Stop()
	}
	a.running = false
	a.logger.Info("Auto-refresh stopped")
}

// AutoRefresh reports whether the refreshers are running.
func (a *App) AutoRefresh() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// FetchAll refreshes every store concurrently and returns the first failure.
func (a *App) FetchAll(ctx context.Context) error {
	var g errgroup.Group
	for _, p := range a.Stores.All() {
		g.Go(func() error {
			if err := p.Fetch(ctx); err != nil {
				return fmt.Errorf("%s: %w", p.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close stops the refreshers and clears notifications. It does not disconnect the wallet.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.stopRefreshers()
	a.Notifications.Clear()
	a.logger.Info("App closed")
}
