package store

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"wrmb_dapp/internal/pkg/apperr"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// batch issues the reads of one fetch cycle concurrently. A failed read is retried per
// the retry policy, then replaced by its fallback so the cycle can still complete.
type batch struct {
	ctx    context.Context
	retry  apperr.RetryConfig
	logger *zap.Logger
	g      errgroup.Group

	mu    sync.Mutex
	total int
	errs  []error
}

func (c *core[T]) newBatch(ctx context.Context) *batch {
	return &batch{ctx: ctx, retry: c.deps.Retry, logger: c.logger}
}

// read schedules fn and stores its result, or fallback, in dst. dst must not be
// touched until wait returns.
func read[V any](b *batch, label string, dst *V, fallback V, fn func(ctx context.Context) (V, error)) {
	b.mu.Lock()
	b.total++
	b.mu.Unlock()

	b.g.Go(func() error {
		v, err := apperr.Retry(b.ctx, b.retry, func(ctx context.Context) (V, error) {
			v, err := fn(ctx)
			if err != nil {
				return v, apperr.Classify(err)
			}
			return v, nil
		})
		if err != nil {
			b.logger.Warn("Read failed, using fallback", zap.String("read", label), zap.Error(err))
			b.mu.Lock()
			b.errs = append(b.errs, fmt.Errorf("%s: %w", label, err))
			b.mu.Unlock()
			v = fallback
		}
		*dst = v
		return nil
	})
}

// readInt is read for big.Int results with a zero fallback.
func readInt(b *batch, label string, dst **big.Int, fn func(ctx context.Context) (*big.Int, error)) {
	read(b, label, dst, new(big.Int), fn)
}

// wait blocks until every read finished. The cycle fails only when every read failed.
func (b *batch) wait() error {
	_ = b.g.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.total > 0 && len(b.errs) == b.total {
		return fmt.Errorf("all %d reads failed: %w", b.total, b.errs[0])
	}
	return nil
}
