// Package scheduler drives periodic store refreshes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Fetcher is a store that can be refreshed.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) error
	LastUpdate() time.Time
}

// Refresher polls one store every poll interval and fetches only when the last
// update is older than the quiet interval. A tick that is still running when the next
// one fires is skipped.
type Refresher struct {
	store   Fetcher
	poll    time.Duration
	quiet   time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// NewRefresher creates a stopped refresher. timeout bounds each fetch; zero means poll.
func NewRefresher(store Fetcher, poll, quiet, timeout time.Duration, logger *zap.Logger) *Refresher {
	if timeout <= 0 {
		timeout = poll
	}
	return &Refresher{
		store:   store,
		poll:    poll,
		quiet:   quiet,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.Named("Refresher").With(zap.String("store", store.Name())),
	}
}

// Start begins polling. Calling Start on a running refresher does nothing.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}
	log := cronLogger{r.logger.Sugar()}
	c := cron.New(
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.poll), r.tick); err != nil {
		return fmt.Errorf("schedule %s refresh: %w", r.store.Name(), err)
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.cron = c
	r.running = true
	c.Start()
	r.logger.Debug("Auto-refresh started", zap.Duration("poll", r.poll), zap.Duration("quiet", r.quiet))
	return nil
}

// Stop cancels any in-flight fetch and waits for it to return. Safe to call repeatedly.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	r.logger.Debug("Auto-refresh stopped")
}

// Running reports whether the refresher is started.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Refresher) tick() {
	r.mu.Lock()
	parent := r.ctx
	r.mu.Unlock()
	if parent == nil || parent.Err() != nil {
		return
	}
	if since := r.now().Sub(r.store.LastUpdate()); since <= r.quiet {
		return
	}
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()
	if err := r.store.Fetch(ctx); err != nil {
		r.logger.Debug("Scheduled fetch failed", zap.Error(err))
	}
}

// cronLogger routes cron's logging to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
