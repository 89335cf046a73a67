package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// balanceOfSelector is the 4-byte selector of balanceOf(address).
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

// EVMClient is one dialed node of a network.
type EVMClient struct {
	eth         *ethclient.Client
	def         entity.NetworkDefinition
	callTimeout time.Duration
}

// NewEVMClient dials the primary endpoint of def and then each fallback.
func NewEVMClient(def entity.NetworkDefinition, dialTimeout, callTimeout time.Duration) (*EVMClient, error) {
	urls := def.RPCURLs()
	if len(urls) == 0 {
		return nil, fmt.Errorf("network %s has no RPC endpoint configured", def.Name)
	}
	var errs []error
	for _, url := range urls {
		eth, err := dial(url, dialTimeout)
		if err == nil {
			return &EVMClient{eth: eth, def: def, callTimeout: callTimeout}, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", url, err))
	}
	return nil, fmt.Errorf("no RPC endpoint of %s is reachable: %w", def.Name, errors.Join(errs...))
}

func dial(url string, timeout time.Duration) (*ethclient.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return ethclient.DialContext(ctx, url)
}

// NewEVMClientFromRPC wraps an already connected RPC client.
func NewEVMClientFromRPC(def entity.NetworkDefinition, rc *rpc.Client, callTimeout time.Duration) *EVMClient {
	return &EVMClient{eth: ethclient.NewClient(rc), def: def, callTimeout: callTimeout}
}

// GetBalances answers every query in a single JSON-RPC batch.
func (c *EVMClient) GetBalances(ctx context.Context, queries []entity.BalanceQuery) ([]entity.Balance, error) {
	out := make([]entity.Balance, len(queries))
	if len(queries) == 0 {
		return out, nil
	}
	batch := make([]rpc.BatchElem, len(queries))
	for i, q := range queries {
		out[i].Key = q.Key
		batch[i] = balanceCall(q)
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	if err := c.eth.Client().BatchCallContext(ctx, batch); err != nil {
		return out, fmt.Errorf("balance batch on %s: %w", c.def.Name, err)
	}

	for i, elem := range batch {
		if elem.Error != nil {
			out[i].Err = fmt.Errorf("balance %s of %s: %w", queries[i].Key, queries[i].Owner.Hex(), elem.Error)
			continue
		}
		raw, err := decodeBalance(queries[i], elem.Result)
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Raw = raw
		out[i].Formatted = utils.FormatBigInt(raw, queries[i].Decimals)
	}
	return out, nil
}

func balanceCall(q entity.BalanceQuery) rpc.BatchElem {
	if q.Native() {
		return rpc.BatchElem{
			Method: "eth_getBalance",
			Args:   []interface{}{q.Owner, "latest"},
			Result: new(hexutil.Big),
		}
	}
	data := append(append([]byte{}, balanceOfSelector...), common.LeftPadBytes(q.Owner.Bytes(), 32)...)
	return rpc.BatchElem{
		Method: "eth_call",
		Args:   []interface{}{map[string]interface{}{"to": q.Token, "data": hexutil.Bytes(data)}, "latest"},
		Result: new(hexutil.Bytes),
	}
}

func decodeBalance(q entity.BalanceQuery, result interface{}) (*big.Int, error) {
	switch r := result.(type) {
	case *hexutil.Big:
		return new(big.Int).Set(r.ToInt()), nil
	case *hexutil.Bytes:
		// A call to an address without code returns no data.
		if len(*r) == 0 {
			return new(big.Int), nil
		}
		if len(*r) < 32 {
			return nil, fmt.Errorf("balance %s: short return data %s", q.Key, hexutil.Encode(*r))
		}
		return new(big.Int).SetBytes((*r)[:32]), nil
	default:
		return nil, fmt.Errorf("balance %s: unexpected result %T", q.Key, result)
	}
}

// Eth returns the go-ethereum client.
func (c *EVMClient) Eth() *ethclient.Client { return c.eth }

// Definition returns the network of this client.
func (c *EVMClient) Definition() entity.NetworkDefinition { return c.def }

// Close releases the connection.
func (c *EVMClient) Close() { c.eth.Close() }
