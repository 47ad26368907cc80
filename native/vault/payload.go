package vault

import (
	"financer/core/composer"
	"financer/core/types"
)

// Entry functions of the AutoFin module.
const (
	EntryDeposit     = "deposit"
	EntryWithdraw    = "withdraw"
	EntryWithdrawAll = "withdraw_all"
	EntryHarvest     = "harvest"
)

// DepositPayload deposits amount FIN into the vault. The amount is passed to
// the signer verbatim.
func DepositPayload(autoFinScripts, amount string) types.EntryFunctionPayload {
	return types.NewEntryFunctionPayload(composer.ComposeScript(autoFinScripts, EntryDeposit), nil, amount)
}

// WithdrawPayload redeems the given number of shares.
func WithdrawPayload(autoFinScripts, shares string) types.EntryFunctionPayload {
	return types.NewEntryFunctionPayload(composer.ComposeScript(autoFinScripts, EntryWithdraw), nil, shares)
}

// WithdrawAllPayload redeems every share held by the signer.
func WithdrawAllPayload(autoFinScripts string) types.EntryFunctionPayload {
	return types.NewEntryFunctionPayload(composer.ComposeScript(autoFinScripts, EntryWithdrawAll), nil)
}

// HarvestPayload compounds pending rewards and pays the caller the call fee.
func HarvestPayload(autoFinScripts string) types.EntryFunctionPayload {
	return types.NewEntryFunctionPayload(composer.ComposeScript(autoFinScripts, EntryHarvest), nil)
}
