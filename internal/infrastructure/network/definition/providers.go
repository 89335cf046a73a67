package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
)

var ether = entity.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Localhost = entity.NetworkDefinition{
		ChainID:        31337,
		Name:           "Localhost",
		Identifier:     "localhost",
		NativeCurrency: ether,
		PrimaryRPCURL:  "http://127.0.0.1:8545",
		Testnet:        true,
	}
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "mainnet",
		NativeCurrency:   ether,
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
		DEXScreenerID:    "ethereum",
	}
	Goerli = entity.NetworkDefinition{
		ChainID:          5,
		Name:             "Goerli Testnet",
		Identifier:       "goerli",
		NativeCurrency:   entity.NativeCurrency{Name: "Goerli Ether", Symbol: "ETH", Decimals: 18},
		PrimaryRPCURL:    "https://ethereum-goerli-rpc.publicnode.com",
		BlockExplorerURL: "https://goerli.etherscan.io",
		Testnet:          true,
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia Testnet",
		Identifier:       "sepolia",
		NativeCurrency:   entity.NativeCurrency{Name: "Sepolia Ether", Symbol: "ETH", Decimals: 18},
		PrimaryRPCURL:    "https://ethereum-sepolia-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.sepolia.org"},
		BlockExplorerURL: "https://sepolia.etherscan.io",
		Testnet:          true,
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		NativeCurrency:   entity.NativeCurrency{Name: "MATIC", Symbol: "MATIC", Decimals: 18},
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
		DEXScreenerID:    "polygon",
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		NativeCurrency:   entity.NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		FallbackRPCURLs:  []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
		DEXScreenerID:    "bsc",
	}
)

// SupportedChainIDs are the chains the wallet may switch to.
var SupportedChainIDs = []uint64{Localhost.ChainID, Ethereum.ChainID, Goerli.ChainID, Sepolia.ChainID}

var builtinDefinitions = []entity.NetworkDefinition{Localhost, Ethereum, Goerli, Sepolia, Polygon, BSC}

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	byChain map[uint64]entity.NetworkDefinition
}

// NewNetworkDefinitionProvider merges configured overrides into the built-in table.
// An override replaces non-empty fields of the built-in entry with the same chain ID,
// or adds a new network.
func NewNetworkDefinitionProvider(log port.Logger, overrides []entity.NetworkDefinition) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:  log,
		byChain: make(map[uint64]entity.NetworkDefinition, len(builtinDefinitions)+len(overrides)),
	}
	for _, def := range builtinDefinitions {
		p.byChain[def.ChainID] = def
	}
	for _, o := range overrides {
		base, known := p.byChain[o.ChainID]
		if !known {
			p.byChain[o.ChainID] = o
			p.logger.Info(fmt.Sprintf("Network '%s' added from configuration", o.Name), "chainId", o.ChainID)
			continue
		}
		p.byChain[o.ChainID] = merge(base, o)
		p.logger.Debug(fmt.Sprintf("Network '%s' overridden from configuration", base.Name), "chainId", o.ChainID)
	}
	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized with %d networks", len(p.byChain)))
	return p
}

func merge(base, o entity.NetworkDefinition) entity.NetworkDefinition {
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.Identifier != "" {
		base.Identifier = o.Identifier
	}
	if o.NativeCurrency.Symbol != "" {
		base.NativeCurrency = o.NativeCurrency
	}
	if o.PrimaryRPCURL != "" {
		base.PrimaryRPCURL = o.PrimaryRPCURL
		base.FallbackRPCURLs = o.FallbackRPCURLs
	}
	if o.BlockExplorerURL != "" {
		base.BlockExplorerURL = o.BlockExplorerURL
	}
	if o.DEXScreenerID != "" {
		base.DEXScreenerID = o.DEXScreenerID
	}
	return base
}

// GetAllNetworkDefinitions returns every known network ordered by chain ID.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.byChain))
	for _, def := range p.byChain {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByName returns a network by its identifier, case-insensitively.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.byChain {
		if strings.EqualFold(def.Identifier, identifier) {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// GetNetworkDefinitionByChainID returns a network by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.byChain[chainID]
	return def, ok
}

// IsSupported reports whether the wallet may switch to chainID.
func IsSupported(chainID uint64) bool {
	for _, id := range SupportedChainIDs {
		if id == chainID {
			return true
		}
	}
	return false
}
