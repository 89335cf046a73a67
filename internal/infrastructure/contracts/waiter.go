package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Waiter polls for transaction receipts on the active chain.
type Waiter struct {
	backend  func() (port.ChainBackend, error)
	interval time.Duration
}

// NewWaiter creates a Waiter polling every interval.
func NewWaiter(backend func() (port.ChainBackend, error), interval time.Duration) *Waiter {
	if interval <= 0 {
		interval = time.Second
	}
	return &Waiter{backend: backend, interval: interval}
}

// WaitMined blocks until hash is mined or ctx is done. A reverted transaction
// returns its receipt together with a TransactionFailed error.
func (w *Waiter) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	backend, err := w.backend()
	if err != nil {
		return nil, err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, apperr.New(apperr.KindTransactionFailed,
					fmt.Sprintf("Transaction %s reverted in block %d", hash.Hex(), receipt.BlockNumber))
			}
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("receipt of %s: %w", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
