package composer

// Module and struct names deployed by the protocol.
const (
	LPCoinModule       = "LPCoinV1"
	LPCoinType         = "LPCoin"
	SwapLiquidityPool  = "LiquidityPool"
	SwapAdminData      = "AdminData"
	SwapPairInfo       = "PairInfo"
	SwapEvents         = "Events"
	MasterChefLPInfo   = "LPInfo"
	MasterChefPoolInfo = "PoolInfo"
	MasterChefUserInfo = "UserInfo"
	MasterChefData     = "MasterChefData"
	FINModuleName      = "FinancerCoin"
	FINRegister        = "register_FIN"
	AutoFinUserInfo    = "UserInfo"
	AutoFinData        = "AutoFINData"
	AirdropModule      = "Airdrop"
	AirdropResource    = "Airdrop"
	AirdropClaimEntry  = "claim_airdrop"
)

// ComposeLPCoin returns the LP coin type minted for the coin_x/coin_y pair.
func ComposeLPCoin(address, coinX, coinY string) string {
	return ComposeType(address, LPCoinModule, LPCoinType, coinX, coinY)
}

// ComposeLP returns the liquidity pool resource type for a pair.
func ComposeLP(swapScripts, coinX, coinY string) string {
	return ComposeScript(swapScripts, SwapLiquidityPool, coinX, coinY)
}

// ComposeLPCoinType returns the unparameterized LP coin type, used as a prefix
// when scanning account resources.
func ComposeLPCoinType(address string) string {
	return ComposeType(address, LPCoinModule, LPCoinType)
}

// ComposeSwapPoolData returns the swap admin data resource type.
func ComposeSwapPoolData(swapScripts string) string {
	return ComposeScript(swapScripts, SwapAdminData)
}

// ComposePairInfo returns the pair registry resource type.
func ComposePairInfo(swapScripts string) string {
	return ComposeScript(swapScripts, SwapPairInfo)
}

// ComposeCoinStore parameterizes the coin store type with a coin type.
func ComposeCoinStore(coinStore, coinType string) string {
	return WithGenerics(coinStore, coinType)
}

// ComposeLiquidityPool returns the unparameterized liquidity pool type.
func ComposeLiquidityPool(swapScripts string) string {
	return ComposeScript(swapScripts, SwapLiquidityPool)
}

// ComposeSwapEvent returns the event handle resource type for a pair.
func ComposeSwapEvent(swapScripts, coinX, coinY string) string {
	return ComposeScript(swapScripts, SwapEvents, coinX, coinY)
}

// ComposeMasterChefLPList returns the resource listing every staked coin type.
func ComposeMasterChefLPList(mcScripts string) string {
	return ComposeScript(mcScripts, MasterChefLPInfo)
}

// ComposeMasterChefPoolInfo returns the pool info type for a staked coin.
func ComposeMasterChefPoolInfo(mcScripts, coinType string) string {
	return ComposeScript(mcScripts, MasterChefPoolInfo, coinType)
}

// ComposeMasterChefPoolInfoPrefix returns the unparameterized pool info type.
func ComposeMasterChefPoolInfoPrefix(mcScripts string) string {
	return ComposeScript(mcScripts, MasterChefPoolInfo)
}

// ComposeMasterChefData returns the global MasterChef configuration type.
func ComposeMasterChefData(mcScripts string) string {
	return ComposeScript(mcScripts, MasterChefData)
}

// ComposeMasterChefUserInfo returns the per-user stake type for a coin.
func ComposeMasterChefUserInfo(mcScripts, coinType string) string {
	return ComposeScript(mcScripts, MasterChefUserInfo, coinType)
}

// ComposeMasterChefUserInfoPrefix returns the unparameterized user info type.
func ComposeMasterChefUserInfoPrefix(mcScripts string) string {
	return ComposeScript(mcScripts, MasterChefUserInfo)
}

// ComposeFINRegister returns the entry function registering a FIN coin store.
// The function lives at the address that published the FIN coin type.
func ComposeFINRegister(finCoinType string) string {
	return ComposeType(ExtractAddress(finCoinType), FINModuleName, FINRegister)
}

// ComposeAutoFinUserInfo returns the vault per-user record type.
func ComposeAutoFinUserInfo(autoFinScripts string) string {
	return ComposeScript(autoFinScripts, AutoFinUserInfo)
}

// ComposeAutoFinData returns the vault-wide record type.
func ComposeAutoFinData(autoFinScripts string) string {
	return ComposeScript(autoFinScripts, AutoFinData)
}

// ComposeAirdrop returns the airdrop table resource type.
func ComposeAirdrop(deployer string) string {
	return ComposeType(deployer, AirdropModule, AirdropResource)
}

// ComposeAirdropClaim returns the airdrop claim entry function.
func ComposeAirdropClaim(deployer string) string {
	return ComposeType(deployer, AirdropModule, AirdropClaimEntry)
}
