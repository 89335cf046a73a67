package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceQuery asks for one balance of Owner. A zero Token reads the native balance.
type BalanceQuery struct {
	Key      string
	Owner    common.Address
	Token    common.Address
	Decimals int32
}

// Native reports whether the query reads the chain's native currency.
func (q BalanceQuery) Native() bool { return q.Token == (common.Address{}) }

// Balance answers one BalanceQuery. Err is set per entry so one bad token does
// not fail the batch.
type Balance struct {
	Key       string
	Raw       *big.Int
	Formatted string
	Err       error
}
