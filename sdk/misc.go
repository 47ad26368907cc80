package sdk

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"financer/core/composer"
	"financer/core/resources"
	"financer/core/types"
	"financer/native/airdrop"
	"financer/native/vault"
)

// Misc groups the airdrop and the AutoFin auto-compounding vault.
type Misc struct {
	sdk *SDK
}

// CheckUserAirdropBalance returns the unclaimed allocation of address. The
// result is not Valid when the address has no allocation and is zero once the
// allocation has been claimed. A missing airdrop resource is an error.
func (m *Misc) CheckUserAirdropBalance(ctx context.Context, address string) (decimal.NullDecimal, error) {
	if m == nil || m.sdk == nil {
		return decimal.NullDecimal{}, fmt.Errorf("sdk: misc module not initialised")
	}
	deployer := m.sdk.options.Misc.AirdropDeployer
	res, err := resources.Fetch[airdrop.Resource](ctx, m.sdk.resources, deployer, composer.ComposeAirdrop(deployer))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sdk: airdrop resource: %w", err)
	}
	return res.Data.Table().Lookup(address), nil
}

// ClaimAirdropPayload claims the signer's airdrop allocation.
func (m *Misc) ClaimAirdropPayload() types.EntryFunctionPayload {
	return m.sdk.payload("airdrop_claim", airdrop.ClaimPayload(m.sdk.options.Misc.AirdropDeployer))
}

// CalculateAutoFinStakedAmount returns the vault position of address,
// interest included.
func (m *Misc) CalculateAutoFinStakedAmount(ctx context.Context, address string) (vault.StakedReturn, error) {
	if m == nil || m.sdk == nil {
		return vault.StakedReturn{}, fmt.Errorf("sdk: misc module not initialised")
	}
	user, err := m.autoFinUserInfo(ctx, address)
	if err != nil {
		return vault.StakedReturn{}, err
	}
	global, err := m.autoFinData(ctx)
	if err != nil {
		return vault.StakedReturn{}, err
	}
	balance, err := m.autoFinBalanceOf(ctx)
	if err != nil {
		return vault.StakedReturn{}, err
	}
	staked, err := vault.ComputeStakedReturn(user, global, balance)
	if err != nil {
		return vault.StakedReturn{}, fmt.Errorf("sdk: autofin staked amount: %w", err)
	}
	m.sdk.logger.Debug("sdk: autofin position computed",
		"address", address,
		"shares", staked.Shares.String(),
		"amount", staked.Amount.String(),
	)
	return staked, nil
}

// CalculateAutoFinInfo returns the total amount managed by the vault.
func (m *Misc) CalculateAutoFinInfo(ctx context.Context) (vault.Info, error) {
	if m == nil || m.sdk == nil {
		return vault.Info{}, fmt.Errorf("sdk: misc module not initialised")
	}
	balance, err := m.autoFinBalanceOf(ctx)
	if err != nil {
		return vault.Info{}, err
	}
	return vault.Info{Amount: vault.ComputeVaultTotal(balance)}, nil
}

// CalculateAutoFinHarvestCallFee returns the reward paid to the caller of
// harvest if it were executed now.
func (m *Misc) CalculateAutoFinHarvestCallFee(ctx context.Context) (decimal.Decimal, error) {
	if m == nil || m.sdk == nil {
		return decimal.Zero, fmt.Errorf("sdk: misc module not initialised")
	}
	global, err := m.autoFinData(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	available, err := m.autoFinAvailableAfterLeaveStaking(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return vault.ComputeHarvestCallFee(global, available), nil
}

// AutoFinDepositPayload deposits amount FIN into the vault.
func (m *Misc) AutoFinDepositPayload(amount string) types.EntryFunctionPayload {
	return m.sdk.payload("autofin_deposit", vault.DepositPayload(m.sdk.options.Misc.AutoFinScripts, amount))
}

// AutoFinWithdrawPayload redeems shares from the vault.
func (m *Misc) AutoFinWithdrawPayload(shares string) types.EntryFunctionPayload {
	return m.sdk.payload("autofin_withdraw", vault.WithdrawPayload(m.sdk.options.Misc.AutoFinScripts, shares))
}

// AutoFinWithdrawAllPayload redeems every share held by the signer.
func (m *Misc) AutoFinWithdrawAllPayload() types.EntryFunctionPayload {
	return m.sdk.payload("autofin_withdraw_all", vault.WithdrawAllPayload(m.sdk.options.Misc.AutoFinScripts))
}

// AutoFinHarvestPayload triggers a vault harvest.
func (m *Misc) AutoFinHarvestPayload() types.EntryFunctionPayload {
	return m.sdk.payload("autofin_harvest", vault.HarvestPayload(m.sdk.options.Misc.AutoFinScripts))
}

// GetBalance returns the balance of coinType held by address.
func (m *Misc) GetBalance(ctx context.Context, address, coinType string) (decimal.Decimal, error) {
	if m == nil {
		return decimal.Zero, fmt.Errorf("sdk: misc module not initialised")
	}
	return m.sdk.GetBalance(ctx, address, coinType)
}

func (m *Misc) autoFinUserInfo(ctx context.Context, address string) (vault.UserInfo, error) {
	res, err := resources.Fetch[vault.UserInfo](ctx, m.sdk.resources, address, composer.ComposeAutoFinUserInfo(m.sdk.options.Misc.AutoFinScripts))
	if err != nil {
		return vault.UserInfo{}, fmt.Errorf("sdk: autofin user info: %w", err)
	}
	return res.Data, nil
}

func (m *Misc) autoFinData(ctx context.Context) (vault.GlobalData, error) {
	misc := m.sdk.options.Misc
	res, err := resources.Fetch[vault.GlobalData](ctx, m.sdk.resources, misc.AutoFinResourceAccountAddress, composer.ComposeAutoFinData(misc.AutoFinScripts))
	if err != nil {
		return vault.GlobalData{}, fmt.Errorf("sdk: autofin data: %w", err)
	}
	return res.Data, nil
}

// autoFinBalanceOf mirrors the contract's balance_of: FIN idle in the vault
// resource account plus FIN it has staked in MasterChef.
func (m *Misc) autoFinBalanceOf(ctx context.Context) (decimal.Decimal, error) {
	account := m.sdk.options.Misc.AutoFinResourceAccountAddress
	fin := m.sdk.options.Modules.FinAddress
	position, err := m.sdk.masterChef.GetUserInfoByCoinType(ctx, account, fin)
	if err != nil {
		return decimal.Zero, err
	}
	idle, err := m.sdk.GetBalance(ctx, account, fin)
	if err != nil {
		return decimal.Zero, err
	}
	return idle.Add(position.Amount), nil
}

// autoFinAvailableAfterLeaveStaking mirrors leave_staking followed by
// available: idle FIN plus the rewards MasterChef would pay out.
func (m *Misc) autoFinAvailableAfterLeaveStaking(ctx context.Context) (decimal.Decimal, error) {
	account := m.sdk.options.Misc.AutoFinResourceAccountAddress
	fin := m.sdk.options.Modules.FinAddress
	position, err := m.sdk.masterChef.GetUserInfoByCoinType(ctx, account, fin)
	if err != nil {
		return decimal.Zero, err
	}
	idle, err := m.sdk.GetBalance(ctx, account, fin)
	if err != nil {
		return decimal.Zero, err
	}
	return idle.Add(position.Pending), nil
}
