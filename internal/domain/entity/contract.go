package entity

// ContractName is the logical name of a deployed contract.
type ContractName string

const (
	ContractSavingsVault       ContractName = "SAVINGS_VAULT"
	ContractWrapManager        ContractName = "WRAP_MANAGER"
	ContractBondPool           ContractName = "BOND_POOL"
	ContractStakingVault       ContractName = "STAKING_VAULT"
	ContractFarmVault          ContractName = "FARM_VAULT"
	ContractWRMB               ContractName = "WRMB"
	ContractSRMB               ContractName = "SRMB"
	ContractCINA               ContractName = "CINA"
	ContractUSDT               ContractName = "USDT"
	ContractUSDC               ContractName = "USDC"
	ContractWRMBMinter         ContractName = "WRMB_MINTER"
	ContractActiveLiquidityAMO ContractName = "ACTIVE_LIQUIDITY_AMO"
	ContractBondLiquidityAMO   ContractName = "BOND_LIQUIDITY_AMO"
	ContractOracleStub         ContractName = "ORACLE_STUB"
	ContractUniswapQuoter      ContractName = "UNISWAP_V4_QUOTER"
	ContractUniswapStateView   ContractName = "UNISWAP_V4_STATE_VIEW"
	ContractUniswapPoolManager ContractName = "UNISWAP_V4_POOL_MANAGER"
)

// AllContractNames lists every logical contract the address table knows about.
var AllContractNames = []ContractName{
	ContractSavingsVault, ContractWrapManager, ContractBondPool, ContractStakingVault, ContractFarmVault,
	ContractWRMB, ContractSRMB, ContractCINA, ContractUSDT, ContractUSDC,
	ContractWRMBMinter, ContractActiveLiquidityAMO, ContractBondLiquidityAMO, ContractOracleStub,
	ContractUniswapQuoter, ContractUniswapStateView, ContractUniswapPoolManager,
}

// ContractAddresses maps chainId -> logical name -> hex address. "" means not deployed.
type ContractAddresses map[uint64]map[ContractName]string
