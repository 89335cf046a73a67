package txflow

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"wrmb_dapp/internal/app/notify"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	owner   = common.HexToAddress("0x01")
	spender = common.HexToAddress("0x02")
)

type fakeToken struct {
	mu        sync.Mutex
	allowance *big.Int
	approved  []*big.Int
}

func (t *fakeToken) Address() common.Address { return common.HexToAddress("0x03") }
func (t *fakeToken) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (t *fakeToken) Allowance(context.Context, common.Address, common.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.allowance), nil
}
func (t *fakeToken) Approve(_ context.Context, _ common.Address, amount *big.Int) (common.Hash, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.approved = append(t.approved, amount)
	t.allowance = amount
	return common.HexToHash("0xa1"), nil
}

type waiterFunc func(ctx context.Context, hash common.Hash) (*types.Receipt, error)

func (f waiterFunc) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return f(ctx, hash)
}

var okWaiter = waiterFunc(func(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}, nil
})

func newExecutor(unlimited bool) (*Executor, *notify.Center) {
	center := notify.NewCenter(0, nil, zap.NewNop())
	return NewExecutor(center, nil, zap.NewNop(), unlimited), center
}

func submitOK(ctx context.Context) (common.Hash, error) { return common.HexToHash("0xb2"), nil }

func TestApproveOnlyWhenShort(t *testing.T) {
	e, _ := newExecutor(false)
	tok := &fakeToken{allowance: big.NewInt(100)}

	require.NoError(t, e.EnsureAllowance(context.Background(), tok, okWaiter, owner, spender, big.NewInt(100)))
	assert.Empty(t, tok.approved)

	require.NoError(t, e.EnsureAllowance(context.Background(), tok, okWaiter, owner, spender, big.NewInt(150)))
	require.Len(t, tok.approved, 1)
	assert.Equal(t, big.NewInt(150), tok.approved[0])
}

func TestUnlimitedApproval(t *testing.T) {
	e, _ := newExecutor(true)
	tok := &fakeToken{allowance: big.NewInt(0)}
	require.NoError(t, e.EnsureAllowance(context.Background(), tok, okWaiter, owner, spender, big.NewInt(1)))
	assert.Equal(t, math.MaxBig256, tok.approved[0])
}

func TestExecuteReportsPhases(t *testing.T) {
	e, center := newExecutor(false)
	receipt, err := e.Execute(context.Background(), "deposit", okWaiter, submitOK)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xb2"), receipt.TxHash)

	list := center.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Deposit Submitted", list[0].Title)
	assert.Equal(t, "Deposit Confirmed", list[1].Title)
	assert.False(t, e.InFlight("deposit"))
}

func TestExecuteFailureNotifiesOnce(t *testing.T) {
	e, center := newExecutor(false)
	_, err := e.Execute(context.Background(), "withdraw", okWaiter, func(context.Context) (common.Hash, error) {
		return common.Hash{}, errors.New("user denied transaction signature")
	})
	assert.Equal(t, apperr.KindUserRejected, apperr.KindOf(err))
	require.Len(t, center.List(), 1)
	assert.Equal(t, entity.NotificationError, center.List()[0].Kind)
	assert.False(t, e.InFlight("withdraw"))
}

func TestRevertedReceiptFails(t *testing.T) {
	e, _ := newExecutor(false)
	failing := waiterFunc(func(context.Context, common.Hash) (*types.Receipt, error) {
		return nil, apperr.New(apperr.KindTransactionFailed, "Transaction reverted")
	})
	_, err := e.Execute(context.Background(), "claim", failing, submitOK)
	assert.True(t, errors.Is(err, apperr.ErrTransactionFailed))
}

func TestSecondCallWhileInFlightIsRejected(t *testing.T) {
	e, center := newExecutor(false)
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := waiterFunc(func(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
		close(started)
		<-release
		return &types.Receipt{TxHash: hash, Status: 1}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := e.Execute(context.Background(), "stake", blocking, submitOK)
		done <- err
	}()
	<-started
	assert.True(t, e.InFlight("stake"))
	assert.True(t, e.Flags()["stake"])

	_, err := e.Execute(context.Background(), "stake", okWaiter, submitOK)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	var rejected []entity.Notification
	for _, n := range center.List() {
		if n.Kind == entity.NotificationError {
			rejected = append(rejected, n)
		}
	}
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].Message, "already in progress")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("execute did not finish")
	}
	assert.False(t, e.InFlight("stake"))
}

func TestGatedApprovesThenSubmits(t *testing.T) {
	e, center := newExecutor(false)
	tok := &fakeToken{allowance: big.NewInt(0)}
	_, err := e.Gated(context.Background(), "subscribe", tok, okWaiter, owner, spender, big.NewInt(5), submitOK)
	require.NoError(t, err)
	assert.Len(t, tok.approved, 1)
	assert.Len(t, center.List(), 4)
}
