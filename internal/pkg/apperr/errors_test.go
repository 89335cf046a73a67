package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct {
	code int
	msg  string
	data any
}

func (e codedError) Error() string { return e.msg }
func (e codedError) ErrorCode() int { return e.code }
func (e codedError) ErrorData() any { return e.data }

func revertData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append(hexutil.MustDecode(revertSelector), packed...))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{"provider rejection code", codedError{code: 4001, msg: "User rejected the request."}, KindUserRejected},
		{"rejection text", errors.New("MetaMask Tx Signature: User denied transaction signature."), KindUserRejected},
		{"insufficient funds", errors.New("insufficient funds for gas * price + value"), KindInsufficientBalance},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindNetwork},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), KindNetwork},
		{"http 503", rpc.HTTPError{StatusCode: 503, Status: "503 Service Unavailable"}, KindNetwork},
		{"nonce", errors.New("nonce too low"), KindTransactionFailed},
		{"plain revert", errors.New("execution reverted: Pausable: paused"), KindContractRevert},
		{"unknown", errors.New("something odd"), KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, Classify(tc.err).Kind)
		})
	}
}

func TestClassifyDecodesRevertData(t *testing.T) {
	err := codedError{code: 3, msg: "execution reverted", data: revertData(t, "ERC20: transfer amount exceeds balance")}

	classified := Classify(err)
	assert.Equal(t, KindInsufficientBalance, classified.Kind)
	assert.Equal(t, "ERC20: transfer amount exceeds balance", classified.Reason)
	assert.Equal(t, "Insufficient token balance", classified.Message)

	custom := Classify(codedError{code: 3, msg: "execution reverted", data: revertData(t, "Bond: not matured")})
	assert.Equal(t, KindContractRevert, custom.Kind)
	assert.Equal(t, "Contract error: Bond: not matured", custom.Message)
}

func TestClassifyIsIdempotent(t *testing.T) {
	first := Classify(errors.New("connection refused"))
	assert.Same(t, first, Classify(first))
	assert.Same(t, first, Classify(fmt.Errorf("wrapped: %w", first)))
	assert.True(t, errors.Is(fmt.Errorf("ctx: %w", first), ErrNetwork))
	assert.False(t, errors.Is(first, ErrUserRejected))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("i/o timeout")))
	assert.True(t, IsRetryable(New(KindTransactionFailed, "failed")))
	assert.False(t, IsRetryable(codedError{code: 4001, msg: "rejected"}))
	assert.False(t, IsRetryable(InvalidInput("bad amount")))
	assert.False(t, IsRetryable(nil))
}

func TestNoticeFor(t *testing.T) {
	n := NoticeFor(codedError{code: 4001, msg: "rejected"})
	assert.Equal(t, "Transaction Rejected", n.Title)
	assert.Equal(t, 3*time.Second, n.Duration)

	n = NoticeFor(InvalidInput("amount must be positive"))
	assert.Equal(t, "Validation Error", n.Title)
	assert.Equal(t, "amount must be positive", n.Message)
	assert.Equal(t, 6*time.Second, n.Duration)

	n = NoticeFor(errors.New("connection refused"))
	assert.Equal(t, "Network Error", n.Title)
	assert.Equal(t, 5*time.Second, n.Duration)
}

func TestRetry(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}

	t.Run("retries network errors up to the cap", func(t *testing.T) {
		calls := 0
		_, err := Retry(context.Background(), cfg, func(context.Context) (int, error) {
			calls++
			return 0, errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 4, calls)
	})

	t.Run("never retries rejection", func(t *testing.T) {
		calls := 0
		_, err := Retry(context.Background(), cfg, func(context.Context) (int, error) {
			calls++
			return 0, codedError{code: 4001, msg: "rejected"}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns first success", func(t *testing.T) {
		calls := 0
		v, err := Retry(context.Background(), cfg, func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("timeout")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := Retry(ctx, RetryConfig{MaxRetries: 3, BaseDelay: time.Hour}, func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("timeout")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
