package airdrop

import (
	"financer/core/composer"
	"financer/core/types"
)

// ClaimPayload claims the signer's allocation from the airdrop deployed at
// deployer.
func ClaimPayload(deployer string) types.EntryFunctionPayload {
	return types.NewEntryFunctionPayload(composer.ComposeAirdropClaim(deployer), nil)
}
