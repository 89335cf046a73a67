package contracts

import (
	"os"
	"strings"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultAddresses are the well-known deployments. Protocol contracts have no
// default and must come from configuration or the environment.
var DefaultAddresses = entity.ContractAddresses{
	1: {
		entity.ContractUSDT: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		entity.ContractUSDC: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	},
	11155111: {
		entity.ContractUSDC:               "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
		entity.ContractUniswapPoolManager: "0x8C4BcBE6b9eF47855f97E675296FA3F6fafa5F1A",
		entity.ContractUniswapQuoter:      "0x61b3f2011a92d183c7dbadbda940a7555ccf9227",
		entity.ContractUniswapStateView:   "0xe1dd9c3fa50edb962e442f60dfbc432e24537e4c",
	},
	31337: {
		entity.ContractUniswapQuoter: "0xC195976fEF0985886E37036E2DF62bF371E12Df0",
	},
}

// AddressBook resolves (logical name, chain ID) to a deployed address.
type AddressBook struct {
	table entity.ContractAddresses
}

// NewAddressBook layers configured addresses over the defaults, then applies
// <NETWORK>_<CONTRACT>_ADDRESS environment overrides for every named network.
func NewAddressBook(configured map[uint64]map[string]string, networks []entity.NetworkDefinition) *AddressBook {
	return newAddressBook(DefaultAddresses, configured, networks, os.Getenv)
}

func newAddressBook(defaults entity.ContractAddresses, configured map[uint64]map[string]string, networks []entity.NetworkDefinition, getenv func(string) string) *AddressBook {
	table := make(entity.ContractAddresses)
	set := func(chainID uint64, name entity.ContractName, addr string) {
		if table[chainID] == nil {
			table[chainID] = make(map[entity.ContractName]string)
		}
		table[chainID][name] = strings.TrimSpace(addr)
	}

	for chainID, byName := range defaults {
		for name, addr := range byName {
			set(chainID, name, addr)
		}
	}
	for chainID, byName := range configured {
		for name, addr := range byName {
			set(chainID, entity.ContractName(strings.ToUpper(name)), addr)
		}
	}
	for _, n := range networks {
		if n.Identifier == "" {
			continue
		}
		prefix := strings.ToUpper(n.Identifier)
		for _, name := range entity.AllContractNames {
			if v := getenv(prefix + "_" + string(name) + "_ADDRESS"); v != "" {
				set(n.ChainID, name, v)
			}
		}
	}
	return &AddressBook{table: table}
}

// Address returns the address of name on chainID. Empty, malformed and zero
// addresses are reported as absent.
func (b *AddressBook) Address(name entity.ContractName, chainID uint64) (common.Address, bool) {
	raw := b.table[chainID][name]
	if !IsValidAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// ForChain returns every deployed contract on chainID.
func (b *AddressBook) ForChain(chainID uint64) map[entity.ContractName]common.Address {
	out := make(map[entity.ContractName]common.Address)
	for _, name := range entity.AllContractNames {
		if addr, ok := b.Address(name, chainID); ok {
			out[name] = addr
		}
	}
	return out
}

// IsValidAddress reports whether s is a non-zero hex address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s) != (common.Address{})
}
