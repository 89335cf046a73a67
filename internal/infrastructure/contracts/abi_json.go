package contracts

// ABI definitions of the protocol contracts. Only the members the client uses are listed.
const (
	erc20ABI = `[{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}]`
	savingsVaultABI = `[{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},{"type":"function","name":"totalAssets","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"maxWithdraw","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewDeposit","stateMutability":"view","inputs":[{"name":"assets","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewMint","stateMutability":"view","inputs":[{"name":"shares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewWithdraw","stateMutability":"view","inputs":[{"name":"assets","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewRedeem","stateMutability":"view","inputs":[{"name":"shares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"redeem","stateMutability":"nonpayable","inputs":[{"name":"shares","type":"uint256"},{"name":"receiver","type":"address"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getNAV_sWRMB","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"totalMMFSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"event","name":"WRMBMintedOnIncrease","anonymous":false,"inputs":[{"name":"amount","type":"uint256","indexed":false},{"name":"oldNAV","type":"uint256","indexed":false},{"name":"newNAV","type":"uint256","indexed":false}]}]`
	stakingVaultABI = `[{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},{"type":"function","name":"totalAssets","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"maxWithdraw","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewDeposit","stateMutability":"view","inputs":[{"name":"assets","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewMint","stateMutability":"view","inputs":[{"name":"shares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewWithdraw","stateMutability":"view","inputs":[{"name":"assets","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"previewRedeem","stateMutability":"view","inputs":[{"name":"shares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"assets","type":"uint256"},{"name":"receiver","type":"address"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"redeem","stateMutability":"nonpayable","inputs":[{"name":"shares","type":"uint256"},{"name":"receiver","type":"address"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getNAV_CINA","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"minStakeAmount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getIncrementAmount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"lastDayRewardAmount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"claimRewards","stateMutability":"nonpayable","inputs":[],"outputs":[]},{"type":"function","name":"getUserStakingInfo","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"stakedAmount","type":"uint256"},{"name":"stakingTime","type":"uint256"},{"name":"lastClaimTime","type":"uint256"},{"name":"accumulatedRewards","type":"uint256"},{"name":"pendingReward","type":"uint256"}]}]`
	farmVaultABI = `[{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"rewardRate","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getRewardForDuration","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getRemainingTime","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"earned","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"stake","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},{"type":"function","name":"getReward","stateMutability":"nonpayable","inputs":[],"outputs":[]}]`
	bondPoolABI = `[{"type":"function","name":"subscribeBond","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"matureBond","stateMutability":"nonpayable","inputs":[{"name":"bondId","type":"uint256"}],"outputs":[]},{"type":"function","name":"getUserBonds","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"bondIds","type":"uint256[]"},{"name":"bondInfos","type":"tuple[]","components":[{"name":"principal","type":"uint256"},{"name":"wrmbAmount","type":"uint256"},{"name":"subscribeTime","type":"uint256"},{"name":"maturityTime","type":"uint256"},{"name":"interestRate","type":"uint256"},{"name":"isActive","type":"bool"},{"name":"isMatured","type":"bool"}]}]},{"type":"function","name":"previewSubscription","stateMutability":"view","inputs":[{"name":"amount","type":"uint256"}],"outputs":[{"name":"wrmbAmount","type":"uint256"},{"name":"interestAmount","type":"uint256"},{"name":"maturityTime","type":"uint256"}]},{"type":"function","name":"getPoolStats","stateMutability":"view","inputs":[],"outputs":[{"name":"totalPrincipal","type":"uint256"},{"name":"totalWRMB","type":"uint256"},{"name":"activeBonds","type":"uint256"}]},{"type":"function","name":"poolConfig","stateMutability":"view","inputs":[],"outputs":[{"name":"minSubscription","type":"uint256"},{"name":"maxSubscription","type":"uint256"},{"name":"bondDuration","type":"uint256"},{"name":"interestRate","type":"uint256"},{"name":"maxPoolSize","type":"uint256"},{"name":"subscriptionOpen","type":"bool"}]},{"type":"function","name":"userTotalPrincipal","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}]`
	wrapManagerABI = `[{"type":"function","name":"wrap","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[{"name":"swrmbAmount","type":"uint256"},{"name":"wrmbAmount","type":"uint256"}]},{"type":"function","name":"unwrap","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},{"type":"function","name":"previewWrap","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"inputAmount","type":"uint256"},{"name":"feeAmount","type":"uint256"},{"name":"netAmount","type":"uint256"},{"name":"outputAmount","type":"uint256"},{"name":"wrmbAmount","type":"uint256"}]},{"type":"function","name":"previewUnwrap","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"inputAmount","type":"uint256"},{"name":"feeAmount","type":"uint256"},{"name":"netAmount","type":"uint256"},{"name":"outputAmount","type":"uint256"},{"name":"wrmbAmount","type":"uint256"}]},{"type":"function","name":"getConfiguration","stateMutability":"view","inputs":[],"outputs":[{"name":"srmb","type":"address"},{"name":"swrmb","type":"address"},{"name":"wrmb","type":"address"},{"name":"wrapFee","type":"uint256"},{"name":"unwrapFee","type":"uint256"},{"name":"minWrapAmount","type":"uint256"},{"name":"maxWrapAmount","type":"uint256"},{"name":"minUnwrapAmount","type":"uint256"},{"name":"maxUnwrapAmount","type":"uint256"}]},{"type":"function","name":"getSRMBLiquidity","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getUserUnwrappableAmount","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},{"type":"function","name":"getUserWrapStats","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"wrapped","type":"uint256"},{"name":"unwrapped","type":"uint256"},{"name":"unwrappable","type":"uint256"}]}]`
	uniswapQuoterABI = `[{"type":"function","name":"quoteExactInputSingle","stateMutability":"nonpayable","inputs":[{"name":"params","type":"tuple","components":[{"name":"poolKey","type":"tuple","components":[{"name":"currency0","type":"address"},{"name":"currency1","type":"address"},{"name":"fee","type":"uint24"},{"name":"tickSpacing","type":"int24"},{"name":"hooks","type":"address"}]},{"name":"zeroForOne","type":"bool"},{"name":"exactAmount","type":"uint128"},{"name":"hookData","type":"bytes"}]}],"outputs":[{"name":"amountOut","type":"uint256"},{"name":"gasEstimate","type":"uint256"}]}]`
	uniswapStateViewABI = `[{"type":"function","name":"getSlot0","stateMutability":"view","inputs":[{"name":"poolId","type":"bytes32"}],"outputs":[{"name":"sqrtPriceX96","type":"uint160"},{"name":"tick","type":"int24"},{"name":"protocolFee","type":"uint24"},{"name":"lpFee","type":"uint24"}]},{"type":"function","name":"getLiquidity","stateMutability":"view","inputs":[{"name":"poolId","type":"bytes32"}],"outputs":[{"name":"liquidity","type":"uint128"}]}]`
)
