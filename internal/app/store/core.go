// Package store holds the per-product aggregation stores. Each store reads its
// contracts in one concurrent batch, swaps the resulting snapshot in atomically and
// runs allowance-gated actions through a txflow.Executor.
package store

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/app/txflow"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/metrics"
	"wrmb_dapp/internal/pkg/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const fetchFailedTitle = "Data Fetch Failed"

// Deps are the collaborators shared by every product store.
type Deps struct {
	Source   port.DataSource
	Session  port.SessionView
	Notifier txflow.Notifier
	Metrics  *metrics.Metrics
	Retry    apperr.RetryConfig
	// UnlimitedApproval approves MaxUint256 instead of the exact amount.
	UnlimitedApproval bool
	// Now is the clock used for timestamps. nil means time.Now.
	Now func() time.Time
}

// core is the fetch state machine shared by the product stores:
// Idle -> Fetching -> Ready | FetchFailed.
type core[T any] struct {
	name   string
	deps   Deps
	exec   *txflow.Executor
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group
	seq   atomic.Uint64

	mu   sync.RWMutex
	data T
	meta entity.StoreMeta
}

func newCore[T any](name string, deps Deps, logger *zap.Logger) *core[T] {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger = logger.Named(name)
	return &core[T]{
		name:   name,
		deps:   deps,
		exec:   txflow.NewExecutor(deps.Notifier, deps.Metrics, logger, deps.UnlimitedApproval),
		logger: logger,
		now:    now,
		meta:   entity.StoreMeta{Status: entity.StatusIdle},
	}
}

// Name identifies the store in logs and metrics.
func (c *core[T]) Name() string { return c.name }

// LastUpdate is the time of the last successful fetch.
func (c *core[T]) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meta.LastUpdateTime
}

// Status is the current fetch state.
func (c *core[T]) Status() entity.StoreStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meta.Status
}

// InFlight returns the in-flight flag of every action run so far.
func (c *core[T]) InFlight() map[string]bool {
	return c.exec.Flags()
}

func (c *core[T]) load() (T, entity.StoreMeta) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data, c.meta
}

// reset drops the snapshot and invalidates any fetch still running.
func (c *core[T]) reset() {
	c.seq.Add(1)
	c.mu.Lock()
	var zero T
	c.data = zero
	c.meta = entity.StoreMeta{Status: entity.StatusIdle}
	c.mu.Unlock()
}

// fetch runs one read cycle. It does nothing while the session is disconnected.
// Concurrent calls within one session epoch share a single cycle.
func (c *core[T]) fetch(ctx context.Context, read func(ctx context.Context, sess entity.Session) (T, error)) error {
	sess := c.deps.Session.Snapshot()
	if !sess.Connected {
		c.deps.Metrics.ObserveFetch(c.name, "skipped", 0)
		return nil
	}
	_, err, _ := c.group.Do(strconv.FormatUint(sess.Epoch, 10), func() (interface{}, error) {
		return nil, c.cycle(ctx, sess, read)
	})
	return err
}

// refetch starts a fresh cycle instead of joining one that began before the caller's
// transaction was mined.
func (c *core[T]) refetch(ctx context.Context, read func(ctx context.Context, sess entity.Session) (T, error)) {
	c.group.Forget(strconv.FormatUint(c.deps.Session.Snapshot().Epoch, 10))
	if err := c.fetch(ctx, read); err != nil {
		c.logger.Warn("Refresh after transaction failed", zap.Error(err))
	}
}

func (c *core[T]) cycle(ctx context.Context, sess entity.Session, read func(ctx context.Context, sess entity.Session) (T, error)) error {
	seq := c.seq.Add(1)
	c.mu.Lock()
	c.meta.Status = entity.StatusFetching
	c.mu.Unlock()

	start := time.Now()
	data, err := read(ctx, sess)
	elapsed := time.Since(start)
	currentEpoch := c.deps.Session.Snapshot().Epoch

	c.mu.Lock()
	if c.seq.Load() != seq || currentEpoch != sess.Epoch {
		c.mu.Unlock()
		c.deps.Metrics.ObserveFetch(c.name, "stale", elapsed)
		c.logger.Debug("Discarding stale fetch result", zap.Uint64("seq", seq))
		return nil
	}
	if err != nil {
		classified := apperr.Classify(err)
		wasFailed := c.meta.LastError != ""
		c.meta.Status = entity.StatusFetchFailed
		c.meta.LastError = classified.Message
		c.mu.Unlock()

		c.deps.Metrics.ObserveFetch(c.name, "failed", elapsed)
		c.logger.Warn("Fetch failed", zap.String("kind", string(classified.Kind)), zap.Error(err))
		if !wasFailed {
			c.deps.Notifier.Add(entity.NotificationError, fetchFailedTitle, classified.Message, apperr.Duration(classified.Kind))
		}
		return classified
	}
	c.data = data
	c.meta = entity.StoreMeta{Status: entity.StatusReady, LastUpdateTime: c.now()}
	c.mu.Unlock()

	c.deps.Metrics.ObserveFetch(c.name, "ok", elapsed)
	c.logger.Debug("Fetch complete", zap.Duration("elapsed", elapsed))
	return nil
}

// signer returns the session when it can sign transactions.
func (c *core[T]) signer() (entity.Session, error) {
	sess := c.deps.Session.Snapshot()
	if !sess.Connected || !sess.HasSigner {
		return sess, apperr.WalletNotConnected()
	}
	return sess, nil
}

// reject notifies a failure found before anything was submitted.
func (c *core[T]) reject(err error) error {
	classified := apperr.Classify(err)
	c.deps.Notifier.Notify(classified)
	return classified
}

// amount validates a user amount and converts it to base units.
func amount(value string, min, max decimal.Decimal, decimals int32) (*big.Int, error) {
	d, err := validation.ValidateAmount(value, min, max, decimals)
	if err != nil {
		return nil, err
	}
	return d.Shift(decimals).BigInt(), nil
}

// ensureBalance checks that owner holds at least want of token.
func ensureBalance(ctx context.Context, token port.Token, owner common.Address, want *big.Int, decimals int32) error {
	bal, err := token.BalanceOf(ctx, owner)
	if err != nil {
		return err
	}
	return validation.ValidateBalance(decimal.NewFromBigInt(want, -decimals), decimal.NewFromBigInt(bal, -decimals))
}
