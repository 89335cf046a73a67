package port

import (
	"context"
	"math/big"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
)

// ChainBackend is everything the contract layer needs from a connected node.
type ChainBackend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// WalletProvider is the injected wallet: account access, chain selection,
// signing and change notifications.
type WalletProvider interface {
	// RequestAccounts asks for account access and returns the exposed accounts.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Accounts returns the exposed accounts without prompting. Empty when locked.
	Accounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (uint64, error)
	// SwitchChain selects another chain. Unknown chains fail with code 4902.
	SwitchChain(ctx context.Context, chainID uint64) error
	Backend(chainID uint64) (ChainBackend, error)
	HasSigner() bool
	Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
	SubscribeEvents(ch chan<- entity.ProviderEvent) event.Subscription
}

// SessionView exposes the current session to components that must not mutate it.
type SessionView interface {
	Snapshot() entity.Session
}
