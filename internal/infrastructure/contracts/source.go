package contracts

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// LiveSource serves product contracts from the chain through the registry.
type LiveSource struct {
	reg      *Registry
	balances port.BalanceReader
	waiter   *Waiter
}

// NewLiveSource creates a LiveSource. balances batches balance reads; when nil
// balances are read one contract call at a time.
func NewLiveSource(reg *Registry, balances port.BalanceReader, receiptPoll time.Duration) *LiveSource {
	return &LiveSource{reg: reg, balances: balances, waiter: NewWaiter(reg.Backend, receiptPoll)}
}

func (s *LiveSource) ref(name entity.ContractName) (contractRef, error) {
	if _, err := s.reg.Get(name, false); err != nil {
		return contractRef{}, err
	}
	return contractRef{reg: s.reg, name: name}, nil
}

func (s *LiveSource) Savings() (port.SavingsVault, error) {
	r, err := s.ref(entity.ContractSavingsVault)
	if err != nil {
		return nil, err
	}
	return &SavingsVault{r}, nil
}

func (s *LiveSource) Staking() (port.StakingVault, error) {
	r, err := s.ref(entity.ContractStakingVault)
	if err != nil {
		return nil, err
	}
	return &StakingVault{r}, nil
}

func (s *LiveSource) Farm() (port.FarmVault, error) {
	r, err := s.ref(entity.ContractFarmVault)
	if err != nil {
		return nil, err
	}
	return &FarmVault{r}, nil
}

func (s *LiveSource) Bonds() (port.BondPool, error) {
	r, err := s.ref(entity.ContractBondPool)
	if err != nil {
		return nil, err
	}
	return &BondPool{r}, nil
}

func (s *LiveSource) Wrap() (port.WrapManager, error) {
	r, err := s.ref(entity.ContractWrapManager)
	if err != nil {
		return nil, err
	}
	return &WrapManager{r}, nil
}

// Token binds an ERC-20. Vault shares are ERC-20s bound with the vault ABI.
func (s *LiveSource) Token(name entity.ContractName) (port.Token, error) {
	r, err := s.ref(name)
	if err != nil {
		return nil, err
	}
	return &ERC20{r}, nil
}

func (s *LiveSource) Waiter() port.TxWaiter {
	return s.waiter
}

// Balances batches balanceOf reads for every deployed token. Tokens not
// deployed on the active chain are left out of the result.
func (s *LiveSource) Balances(ctx context.Context, owner common.Address, tokens []entity.TokenInfo) (map[entity.ContractName]*big.Int, error) {
	sess := s.reg.session.Snapshot()
	queries := make([]entity.BalanceQuery, 0, len(tokens))
	for _, t := range tokens {
		addr, ok := s.reg.Address(t.Contract)
		if !ok {
			continue
		}
		queries = append(queries, entity.BalanceQuery{Key: string(t.Contract), Owner: owner, Token: addr, Decimals: t.Decimals})
	}
	out := make(map[entity.ContractName]*big.Int, len(queries))
	if len(queries) == 0 {
		return out, nil
	}

	if s.balances == nil {
		for _, q := range queries {
			bal, err := (&ERC20{contractRef{reg: s.reg, name: entity.ContractName(q.Key)}}).BalanceOf(ctx, owner)
			if err != nil {
				return nil, err
			}
			out[entity.ContractName(q.Key)] = bal
		}
		return out, nil
	}

	results, err := s.balances.GetBalances(ctx, sess.ChainID, queries)
	if err != nil {
		return nil, fmt.Errorf("batch balances: %w", err)
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		out[entity.ContractName(r.Key)] = r.Raw
	}
	return out, nil
}
