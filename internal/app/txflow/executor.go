// Package txflow runs allowance-gated transactions through submit, confirm and
// failure reporting.
package txflow

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transaction phases as reported to metrics.
const (
	PhaseSubmitted = "submitted"
	PhaseConfirmed = "confirmed"
	PhaseFailed    = "failed"
)

const (
	submittedDuration = 5 * time.Second
	confirmedDuration = 5 * time.Second
)

// Notifier is the notification surface the executor reports to.
type Notifier interface {
	port.Notifier
	AddTx(kind entity.NotificationKind, title, message, txHash string, duration time.Duration) string
}

// Executor submits transactions for one store and tracks per-action in-flight flags.
type Executor struct {
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
	unlimited bool

	mu    sync.Mutex
	flags map[string]*atomic.Bool
}

// NewExecutor creates an executor. unlimited approves MaxUint256 instead of the exact amount.
func NewExecutor(notifier Notifier, m *metrics.Metrics, logger *zap.Logger, unlimited bool) *Executor {
	return &Executor{
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		unlimited: unlimited,
		flags:     make(map[string]*atomic.Bool),
	}
}

func (e *Executor) flag(action string) *atomic.Bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.flags[action]
	if !ok {
		f = new(atomic.Bool)
		e.flags[action] = f
	}
	return f
}

// InFlight reports whether action is running.
func (e *Executor) InFlight(action string) bool {
	return e.flag(action).Load()
}

// Flags returns a copy of every known action flag.
func (e *Executor) Flags() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]bool, len(e.flags))
	for k, f := range e.flags {
		out[k] = f.Load()
	}
	return out
}

// Track marks action in flight while fn runs. A second call for the same action while
// the first is running is notified and fails without calling fn.
func (e *Executor) Track(action string, fn func() error) error {
	f := e.flag(action)
	if !f.CompareAndSwap(false, true) {
		err := apperr.InvalidInput("%s is already in progress", action)
		e.notifier.Notify(err)
		return err
	}
	defer f.Store(false)
	return fn()
}

// EnsureAllowance approves spender for amount when the current allowance is lower and
// waits for the approval to be mined.
func (e *Executor) EnsureAllowance(ctx context.Context, token port.Token, waiter port.TxWaiter, owner, spender common.Address, amount *big.Int) error {
	allowance, err := token.Allowance(ctx, owner, spender)
	if err != nil {
		return e.fail("approve", err)
	}
	if allowance.Cmp(amount) >= 0 {
		return nil
	}
	approveAmount := new(big.Int).Set(amount)
	if e.unlimited {
		approveAmount = new(big.Int).Set(math.MaxBig256)
	}
	e.logger.Info("Approving token",
		zap.String("token", token.Address().Hex()),
		zap.String("spender", spender.Hex()),
		zap.String("amount", approveAmount.String()))
	_, err = e.run(ctx, "approve", waiter, func(ctx context.Context) (common.Hash, error) {
		return token.Approve(ctx, spender, approveAmount)
	})
	return err
}

// Execute submits a transaction, waits for its receipt and reports each phase. Errors are
// classified and notified exactly once.
func (e *Executor) Execute(ctx context.Context, action string, waiter port.TxWaiter, submit func(ctx context.Context) (common.Hash, error)) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := e.Track(action, func() error {
		var err error
		receipt, err = e.run(ctx, action, waiter, submit)
		return err
	})
	return receipt, err
}

// Gated runs approve (when needed) and the action under one in-flight flag.
func (e *Executor) Gated(ctx context.Context, action string, token port.Token, waiter port.TxWaiter, owner, spender common.Address, amount *big.Int, submit func(ctx context.Context) (common.Hash, error)) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := e.Track(action, func() error {
		if err := e.EnsureAllowance(ctx, token, waiter, owner, spender, amount); err != nil {
			return err
		}
		var err error
		receipt, err = e.run(ctx, action, waiter, submit)
		return err
	})
	return receipt, err
}

func (e *Executor) run(ctx context.Context, action string, waiter port.TxWaiter, submit func(ctx context.Context) (common.Hash, error)) (*types.Receipt, error) {
	name := cases.Title(language.English).String(action)

	hash, err := submit(ctx)
	if err != nil {
		return nil, e.fail(action, err)
	}
	e.metrics.TxPhase(action, PhaseSubmitted)
	e.notifier.AddTx(entity.NotificationInfo, name+" Submitted", "Waiting for confirmation", hash.Hex(), submittedDuration)
	e.logger.Info("Transaction submitted", zap.String("action", action), zap.String("hash", hash.Hex()))

	receipt, err := waiter.WaitMined(ctx, hash)
	if err != nil {
		return nil, e.fail(action, err)
	}
	e.metrics.TxPhase(action, PhaseConfirmed)
	e.notifier.AddTx(entity.NotificationSuccess, name+" Confirmed", "", hash.Hex(), confirmedDuration)
	e.logger.Info("Transaction confirmed", zap.String("action", action), zap.String("hash", hash.Hex()))
	return receipt, nil
}

func (e *Executor) fail(action string, err error) error {
	classified := apperr.Classify(err)
	e.metrics.TxPhase(action, PhaseFailed)
	e.notifier.Notify(classified)
	e.logger.Warn("Transaction failed", zap.String("action", action), zap.String("kind", string(classified.Kind)), zap.Error(err))
	return classified
}
