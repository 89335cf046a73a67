// Package apperr classifies raw provider and contract errors into a small set of kinds
// that drive user messages and retry eligibility.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Kind is the category of a classified error.
type Kind string

const (
	KindUserRejected           Kind = "USER_REJECTED"
	KindInsufficientBalance    Kind = "INSUFFICIENT_BALANCE"
	KindInsufficientAllowance  Kind = "INSUFFICIENT_ALLOWANCE"
	KindNetwork                Kind = "NETWORK_ERROR"
	KindContractRevert         Kind = "CONTRACT_REVERT"
	KindInvalidInput           Kind = "INVALID_INPUT"
	KindWalletNotConnected     Kind = "WALLET_NOT_CONNECTED"
	KindWalletConnectionFailed Kind = "WALLET_CONNECTION_FAILED"
	KindTransactionFailed      Kind = "TRANSACTION_FAILED"
	KindUnknown                Kind = "UNKNOWN"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeDisconnected      = 4900
	CodeUnrecognizedChain = 4902
)

// revertSelector is the 4-byte selector of Error(string).
const revertSelector = "0x08c379a0"

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Reason  string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so sentinel comparisons work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// New builds an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// InvalidInput reports a validation failure.
func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, fmt.Sprintf(format, args...))
}

// WalletNotConnected reports an action attempted without a usable session.
func WalletNotConnected() *Error {
	return New(KindWalletNotConnected, "Please connect your wallet first")
}

// Kind markers usable with errors.Is, e.g. errors.Is(err, apperr.ErrNetwork).
var (
	ErrUserRejected       = &Error{Kind: KindUserRejected}
	ErrNetwork            = &Error{Kind: KindNetwork}
	ErrContractRevert     = &Error{Kind: KindContractRevert}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrWalletNotConnected = &Error{Kind: KindWalletNotConnected}
	ErrTransactionFailed  = &Error{Kind: KindTransactionFailed}
)

// KindOf classifies err and returns its kind. nil yields "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Classify(err).Kind
}

// IsRetryable reports whether an operation failing with err may be attempted again.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTransactionFailed:
		return true
	}
	return false
}

var reasonMessages = []struct {
	match   string
	message string
	kind    Kind
}{
	{"erc20: transfer amount exceeds balance", "Insufficient token balance", KindInsufficientBalance},
	{"erc20: transfer amount exceeds allowance", "Insufficient token allowance", KindInsufficientAllowance},
	{"erc20: insufficient allowance", "Please approve tokens before transferring", KindInsufficientAllowance},
	{"transfer amount exceeds balance", "Transfer amount exceeds your balance", KindInsufficientBalance},
	{"transfer amount exceeds allowance", "Transfer amount exceeds approved allowance", KindInsufficientAllowance},
	{"insufficient balance", "Insufficient balance for this transaction", KindInsufficientBalance},
	{"insufficient allowance", "Insufficient token allowance. Please approve more tokens.", KindInsufficientAllowance},
	{"pausable: paused", "Contract is currently paused", KindContractRevert},
	{"ownable: caller is not the owner", "Only contract owner can perform this action", KindContractRevert},
	{"safemath: subtraction overflow", "Arithmetic underflow error", KindContractRevert},
	{"safemath: addition overflow", "Arithmetic overflow error", KindContractRevert},
	{"safemath: multiplication overflow", "Arithmetic overflow error", KindContractRevert},
	{"safemath: division by zero", "Division by zero error", KindContractRevert},
}

// Classify maps a raw error onto the taxonomy. Already classified errors are returned as is.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindNetwork, "Request timed out. Please check your connection.", err)
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(KindUnknown, "Operation cancelled", err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == CodeUserRejected {
		return &Error{Kind: KindUserRejected, Message: "Transaction was rejected by user", Code: CodeUserRejected, Err: err}
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := DecodeRevert(dataErr.ErrorData()); ok {
			return revertError(reason, err)
		}
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && (httpErr.StatusCode >= 500 || httpErr.StatusCode == 429) {
		return &Error{Kind: KindNetwork, Message: "RPC endpoint unavailable", Code: httpErr.StatusCode, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(KindNetwork, "Network connection failed. Please check your internet connection.", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "user rejected", "user denied", "action_rejected"):
		return &Error{Kind: KindUserRejected, Message: "Transaction was rejected by user", Code: CodeUserRejected, Err: err}
	case strings.Contains(msg, "insufficient funds"):
		return Wrap(KindInsufficientBalance, "Insufficient balance to complete transaction", err)
	case containsAny(msg, "nonce too low", "nonce too high", "replacement transaction underpriced", "already known"):
		return Wrap(KindTransactionFailed, "Transaction nonce error. Please try again.", err)
	case strings.Contains(msg, "execution reverted"):
		_, reason, _ := strings.Cut(err.Error(), "execution reverted")
		return revertError(strings.TrimSpace(strings.TrimPrefix(reason, ":")), err)
	case containsAny(msg, "connection refused", "no such host", "timeout", "eof", "connection reset"):
		return Wrap(KindNetwork, "Network connection failed. Please check your internet connection.", err)
	case containsAny(msg, "gas required exceeds", "cannot estimate gas"):
		return Wrap(KindContractRevert, "Transaction may fail. Please check your inputs and try again.", err)
	}
	return Wrap(KindUnknown, err.Error(), err)
}

func revertError(reason string, cause error) *Error {
	lower := strings.ToLower(reason)
	for _, rm := range reasonMessages {
		if strings.Contains(lower, rm.match) {
			return &Error{Kind: rm.kind, Message: rm.message, Reason: reason, Err: cause}
		}
	}
	msg := "Contract execution failed"
	if reason != "" {
		msg = "Contract error: " + reason
	}
	return &Error{Kind: KindContractRevert, Message: msg, Reason: reason, Err: cause}
}

// DecodeRevert extracts the Error(string) reason from revert data given as hex or bytes.
func DecodeRevert(data any) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		if !strings.HasPrefix(strings.ToLower(v), revertSelector) {
			return "", false
		}
		b, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = v
	case hexutil.Bytes:
		raw = v
	default:
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
