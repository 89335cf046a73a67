package contracts

import (
	"context"
	"fmt"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// contractRef resolves its binding on every use so that cache invalidation
// takes effect immediately.
type contractRef struct {
	reg  *Registry
	name entity.ContractName
}

func (c contractRef) Address() common.Address {
	addr, _ := c.reg.Address(c.name)
	return addr
}

func (c contractRef) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	b, err := c.reg.Get(c.name, false)
	if err != nil {
		return nil, err
	}
	return b.Call(ctx, method, args...)
}

func (c contractRef) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := c.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return bigAt(out, 0)
}

func (c contractRef) transact(ctx context.Context, method string, args ...interface{}) (common.Hash, error) {
	b, err := c.reg.Get(c.name, true)
	if err != nil {
		return common.Hash{}, err
	}
	tx, err := b.Transact(ctx, method, args...)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

func bigAt(out []interface{}, i int) (*big.Int, error) {
	if i >= len(out) {
		return nil, fmt.Errorf("missing output %d", i)
	}
	v, ok := out[i].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("output %d is %T, not *big.Int", i, out[i])
	}
	return v, nil
}

func bigsAt(out []interface{}, n int) ([]*big.Int, error) {
	vals := make([]*big.Int, n)
	for i := range vals {
		v, err := bigAt(out, i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func addressAt(out []interface{}, i int) (common.Address, error) {
	if i >= len(out) {
		return common.Address{}, fmt.Errorf("missing output %d", i)
	}
	v, ok := out[i].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("output %d is %T, not address", i, out[i])
	}
	return v, nil
}

func boolAt(out []interface{}, i int) (bool, error) {
	if i >= len(out) {
		return false, fmt.Errorf("missing output %d", i)
	}
	v, ok := out[i].(bool)
	if !ok {
		return false, fmt.Errorf("output %d is %T, not bool", i, out[i])
	}
	return v, nil
}
