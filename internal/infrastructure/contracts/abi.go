package contracts

import (
	"fmt"
	"strings"
	"sync"

	"wrmb_dapp/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABIKind identifies one ABI definition. It is part of the binding cache key.
type ABIKind string

const (
	ABIERC20        ABIKind = "erc20"
	ABISavingsVault ABIKind = "savings_vault"
	ABIStakingVault ABIKind = "staking_vault"
	ABIFarmVault    ABIKind = "farm_vault"
	ABIBondPool     ABIKind = "bond_pool"
	ABIWrapManager  ABIKind = "wrap_manager"
	ABIQuoter       ABIKind = "uniswap_quoter"
	ABIStateView    ABIKind = "uniswap_state_view"
)

var abiSources = map[ABIKind]string{
	ABIERC20:        erc20ABI,
	ABISavingsVault: savingsVaultABI,
	ABIStakingVault: stakingVaultABI,
	ABIFarmVault:    farmVaultABI,
	ABIBondPool:     bondPoolABI,
	ABIWrapManager:  wrapManagerABI,
	ABIQuoter:       uniswapQuoterABI,
	ABIStateView:    uniswapStateViewABI,
}

// contractABIs maps each logical contract to the ABI it is bound with.
var contractABIs = map[entity.ContractName]ABIKind{
	entity.ContractSavingsVault:     ABISavingsVault,
	entity.ContractStakingVault:     ABIStakingVault,
	entity.ContractFarmVault:        ABIFarmVault,
	entity.ContractBondPool:         ABIBondPool,
	entity.ContractWrapManager:      ABIWrapManager,
	entity.ContractWRMB:             ABIERC20,
	entity.ContractSRMB:             ABIERC20,
	entity.ContractCINA:             ABIERC20,
	entity.ContractUSDT:             ABIERC20,
	entity.ContractUSDC:             ABIERC20,
	entity.ContractUniswapQuoter:    ABIQuoter,
	entity.ContractUniswapStateView: ABIStateView,
}

var (
	parsedABIs   = make(map[ABIKind]*abi.ABI, len(abiSources))
	parsedABIsMu sync.Mutex
)

// ParsedABI returns the parsed ABI of kind, parsing it on first use.
func ParsedABI(kind ABIKind) (*abi.ABI, error) {
	parsedABIsMu.Lock()
	defer parsedABIsMu.Unlock()

	if parsed, ok := parsedABIs[kind]; ok {
		return parsed, nil
	}
	src, ok := abiSources[kind]
	if !ok {
		return nil, fmt.Errorf("no ABI registered for %q", kind)
	}
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s ABI: %w", kind, err)
	}
	parsedABIs[kind] = &parsed
	return &parsed, nil
}

// ABIFor returns the ABI kind a contract is bound with.
func ABIFor(name entity.ContractName) (ABIKind, bool) {
	kind, ok := contractABIs[name]
	return kind, ok
}
