package entity

import "strings"

// TokenInfo holds the details of a specific token.
type TokenInfo struct {
	Contract ContractName `json:"contract"`
	Name     string       `json:"name"`
	Symbol   string       `json:"symbol"`
	Decimals int32        `json:"decimals"`
}

// Token metadata for the protocol assets. Addresses live in the contract table.
var (
	TokenWRMB  = TokenInfo{Contract: ContractWRMB, Name: "Wrapped RMB", Symbol: "WRMB", Decimals: 18}
	TokenSWRMB = TokenInfo{Contract: ContractSavingsVault, Name: "Savings WRMB", Symbol: "sWRMB", Decimals: 18}
	TokenSRMB  = TokenInfo{Contract: ContractSRMB, Name: "Stable RMB", Symbol: "sRMB", Decimals: 18}
	TokenCINA  = TokenInfo{Contract: ContractCINA, Name: "CINA", Symbol: "CINA", Decimals: 18}
	TokenUSDT  = TokenInfo{Contract: ContractUSDT, Name: "Tether USD", Symbol: "USDT", Decimals: 6}
	TokenUSDC  = TokenInfo{Contract: ContractUSDC, Name: "USD Coin", Symbol: "USDC", Decimals: 6}
)

// Tokens lists the protocol assets.
var Tokens = []TokenInfo{TokenWRMB, TokenSWRMB, TokenSRMB, TokenCINA, TokenUSDT, TokenUSDC}

// TokenBySymbol finds a protocol asset by symbol, ignoring case.
func TokenBySymbol(symbol string) (TokenInfo, bool) {
	for _, t := range Tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return TokenInfo{}, false
}
