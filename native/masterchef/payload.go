package masterchef

import (
	"fmt"

	"financer/core/composer"
	"financer/core/types"
)

// LP staking methods.
const (
	MethodDeposit  = "deposit"
	MethodWithdraw = "withdraw"
)

// FIN staking methods.
const (
	MethodEnterStaking = "enter_staking"
	MethodLeaveStaking = "leave_staking"
)

// StakeLPCoinParams selects an LP staking action.
type StakeLPCoinParams struct {
	Amount   string `json:"amount"`
	CoinType string `json:"coinType"`
	Method   string `json:"method"`
}

// StakeFINParams selects a single-asset FIN staking action.
type StakeFINParams struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
}

// RegisterFINPayload registers a FIN CoinStore for the signer.
func RegisterFINPayload(finCoin string) types.EntryFunctionPayload {
	return types.NewEntryFunctionPayload(composer.ComposeFINRegister(finCoin), nil)
}

// StakeLPCoinPayload deposits or withdraws LP coins of params.CoinType.
func StakeLPCoinPayload(mcScripts string, params StakeLPCoinParams) (types.EntryFunctionPayload, error) {
	switch params.Method {
	case MethodDeposit, MethodWithdraw:
	default:
		return types.EntryFunctionPayload{}, fmt.Errorf("masterchef: unsupported LP staking method %q", params.Method)
	}
	if params.CoinType == "" {
		return types.EntryFunctionPayload{}, fmt.Errorf("masterchef: coin type required")
	}
	function := composer.ComposeScript(mcScripts, params.Method)
	return types.NewEntryFunctionPayload(function, []string{params.CoinType}, params.Amount), nil
}

// StakeFINPayload enters or leaves single-asset FIN staking.
func StakeFINPayload(mcScripts string, params StakeFINParams) (types.EntryFunctionPayload, error) {
	switch params.Method {
	case MethodEnterStaking, MethodLeaveStaking:
	default:
		return types.EntryFunctionPayload{}, fmt.Errorf("masterchef: unsupported FIN staking method %q", params.Method)
	}
	function := composer.ComposeScript(mcScripts, params.Method)
	return types.NewEntryFunctionPayload(function, nil, params.Amount), nil
}
